package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"chat-relay/sink"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	groups   *repositories.GroupRepository
	messages *repositories.MessageRepository
	registry *Registry
	audit    *sink.AuditSink
	router   *Router
	replayer *Replayer
	receipts *Receipts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	f := &fixture{
		groups:   repositories.NewGroupRepository(db, log),
		messages: repositories.NewMessageRepository(db, log, 100),
		registry: NewRegistry(log),
		audit:    sink.NewAuditSink(log, 16),
	}
	f.router = NewRouter(log, f.groups, f.messages, f.registry, f.audit, 2, time.Millisecond)
	f.replayer = NewReplayer(log, f.groups, f.messages)
	f.receipts = NewReceipts(log, f.messages, 2, time.Millisecond)
	return f
}

func (f *fixture) group(t *testing.T, members ...domain.UserID) domain.Group {
	t.Helper()
	group, err := f.groups.CreateGroup(context.Background(), "friends", "admin", members)
	require.NoError(t, err)
	return group
}

func (f *fixture) online(userID domain.UserID, capacity int) *sink.Outbox {
	outbox := sink.NewOutbox(capacity)
	f.registry.Register(userID, outbox)
	return outbox
}

func (f *fixture) send(t *testing.T, groupID domain.GroupID, sender domain.UserID, body string) domain.Message {
	t.Helper()
	message, err := f.router.Dispatch(context.Background(), domain.SendCommand{
		GroupID:    groupID,
		SenderID:   sender,
		SenderName: string(sender),
		Payload:    domain.Text{Body: body},
	})
	require.NoError(t, err)
	return message
}

func (f *fixture) stored(t *testing.T) []domain.Message {
	t.Helper()
	messages, err := f.messages.Pending(context.Background())
	require.NoError(t, err)
	return messages
}

// remaining is safe to call from an Eventually condition.
func (f *fixture) remaining() int {
	messages, err := f.messages.Pending(context.Background())
	if err != nil {
		return -1
	}
	return len(messages)
}

// written records that userID's connection wrote ids, as its session writer would.
func (f *fixture) written(userID domain.UserID, ids ...domain.MessageID) int {
	return f.receipts.Confirm(context.Background(), userID, ids)
}

func drain(o *sink.Outbox) []domain.Event {
	var events []domain.Event
	for {
		select {
		case evt := <-o.Events():
			events = append(events, evt)
		default:
			return events
		}
	}
}

type readResult struct {
	frame domain.InboundFrame
	err   error
}

// fakeConn is an in-memory FrameConn.
type fakeConn struct {
	reads     chan readResult
	written   chan domain.Event
	closed    chan struct{}
	closeOnce sync.Once
	reason    string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:   make(chan readResult, 16),
		written: make(chan domain.Event, 256),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame(ctx context.Context) (domain.InboundFrame, error) {
	select {
	case r := <-c.reads:
		return r.frame, r.err
	case <-c.closed:
		return domain.InboundFrame{}, errors.ErrConnectionGone
	case <-ctx.Done():
		return domain.InboundFrame{}, ctx.Err()
	}
}

func (c *fakeConn) WriteEvent(evt domain.Event) error {
	select {
	case c.written <- evt:
		return nil
	case <-c.closed:
		return errors.ErrConnectionGone
	}
}

// brokenConn accepts the connection but fails every write.
type brokenConn struct {
	*fakeConn
}

func (c brokenConn) WriteEvent(domain.Event) error {
	return errors.ErrConnectionGone
}

func (c *fakeConn) Close(reason string) error {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.closed)
	})
	return nil
}

func (c *fakeConn) Reason() string {
	<-c.closed
	return c.reason
}

func (c *fakeConn) next(t *testing.T) domain.Event {
	t.Helper()
	select {
	case evt := <-c.written:
		return evt
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no event written")
		return nil
	}
}
