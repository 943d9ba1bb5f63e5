package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Router fans a message out to the online members of a group.
type Router struct {
	log        *slog.Logger
	membership contract.IMembershipOracle
	store      contract.IMessageStore
	registry   contract.IRegistry
	audit      contract.IAuditLogger
	retries    int
	retryDelay time.Duration
	clock      func() time.Time

	// GroupID -> *groupLane
	lanes sync.Map
}

// groupLane serializes insert and fan-out of one group so that every online
// recipient sees the group's messages in insertion order.
type groupLane struct {
	mu       sync.Mutex
	lastSent time.Time
}

func NewRouter(log *slog.Logger, membership contract.IMembershipOracle, store contract.IMessageStore,
	registry contract.IRegistry, audit contract.IAuditLogger, retries int, retryDelay time.Duration) *Router {
	return &Router{
		log:        log,
		membership: membership,
		store:      store,
		registry:   registry,
		audit:      audit,
		retries:    retries,
		retryDelay: retryDelay,
		clock:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (r *Router) WithClock(clock func() time.Time) *Router {
	r.clock = clock
	return r
}

func (r *Router) lane(groupID domain.GroupID) *groupLane {
	if lane, ok := r.lanes.Load(groupID); ok {
		return lane.(*groupLane)
	}
	lane, _ := r.lanes.LoadOrStore(groupID, &groupLane{})
	return lane.(*groupLane)
}

// Dispatch sends cmd to its group.
//  1. Resolve the group: ErrGroupNotFound.
//  2. Check the sender belongs to it: ErrNotAMember, nothing is stored.
//  3. Persist the message: ErrStorage, nothing is sent.
//  4. Queue it on every online member's outbox.
//
// Queuing is not receiving: each session records its receipt once the message
// is written to its connection, and the last receipt deletes the message.
// Only a message addressed to its sender alone is deleted here.
func (r *Router) Dispatch(ctx context.Context, cmd domain.SendCommand) (domain.Message, error) {
	group, err := r.membership.Group(ctx, cmd.GroupID)
	if errors.Is(err, errors.ErrGroupNotFound) {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrGroupNotFound, cmd.GroupID)
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: membership lookup: %v", errors.ErrStorage, err)
	}
	if !group.HasMember(cmd.SenderID) {
		r.audit.Record(domain.AuditEntry{
			ID:       uuid.New(),
			Username: cmd.SenderName,
			Action:   domain.ActionSendDenied,
			Target:   string(cmd.GroupID),
			At:       r.clock().UTC(),
		})
		return domain.Message{}, fmt.Errorf("%w: user %s, group %s", errors.ErrNotAMember, cmd.SenderID, cmd.GroupID)
	}

	message, queued, err := r.storeAndFanout(ctx, group, cmd)
	if err != nil {
		return domain.Message{}, err
	}
	if message.IsComplete() {
		deleteCompleted(ctx, r.log, r.store, r.retries, r.retryDelay, message.ID)
	}

	r.log.Debug("Message dispatched", "message_id", message.ID, "group_id", message.GroupID,
		"intended", message.IntendedFor.Len(), "queued", queued)
	return message, nil
}

// storeAndFanout persists the message and queues it for online members under the group lock.
// Recipients get a copy so that nothing they hold is shared with the caller.
func (r *Router) storeAndFanout(ctx context.Context, group domain.Group, cmd domain.SendCommand) (domain.Message, int, error) {
	lane := r.lane(group.ID)
	lane.mu.Lock()
	defer lane.mu.Unlock()

	at := r.clock().UTC()
	if !at.After(lane.lastSent) {
		at = lane.lastSent.Add(time.Nanosecond)
	}
	message, err := r.store.Insert(ctx, domain.NewMessage(group, cmd.SenderID, cmd.SenderName, cmd.Payload, at))
	if err != nil {
		return domain.Message{}, 0, fmt.Errorf("%w: insert: %v", errors.ErrStorage, err)
	}
	lane.lastSent = message.CreatedAt

	outgoing := message.Clone()
	queued := lo.CountBy(message.IntendedFor.Sorted(), func(id domain.UserID) bool {
		return id != message.SenderID && r.registry.TrySend(id, outgoing)
	})
	return message, queued, nil
}
