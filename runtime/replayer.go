package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
)

// Replayer pushes a reconnecting user's backlog before live traffic reaches the session.
// It records nothing: receipts come from the session writer once a message is on the wire.
type Replayer struct {
	log        *slog.Logger
	membership contract.IMembershipOracle
	store      contract.IMessageStore
}

func NewReplayer(log *slog.Logger, membership contract.IMembershipOracle, store contract.IMessageStore) *Replayer {
	return &Replayer{
		log:        log,
		membership: membership,
		store:      store,
	}
}

// Replay queues every message still owed to userID, oldest first.
// Queuing stops at the first failure: whatever is not written stays owed and is replayed next time.
// Only membership or store lookups fail the replay, a lost connection never does.
func (r *Replayer) Replay(ctx context.Context, userID domain.UserID, outbox *sink.Outbox) (domain.ReplayReport, error) {
	var report domain.ReplayReport

	groups, err := r.membership.GroupsOf(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("%w: groups of %s: %v", errors.ErrStorage, userID, err)
	}
	if len(groups) == 0 {
		return report, nil
	}

	pending, err := r.store.PendingFor(ctx, userID, groups)
	if err != nil {
		return report, fmt.Errorf("%w: pending for %s: %v", errors.ErrStorage, userID, err)
	}
	report.Pending = len(pending)

	for _, message := range pending {
		if err := outbox.Push(ctx, message); err != nil {
			r.log.Info("Replay interrupted", "user_id", userID, "pushed", report.Pushed,
				"pending", report.Pending, "error", err)
			break
		}
		report.Pushed++
	}

	r.log.Debug("Backlog queued", "user_id", userID, "pending", report.Pending, "pushed", report.Pushed)
	return report, nil
}
