package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRouter_Offline_Member_Gets_It_On_Replay(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s", "a", "b")
	a := f.online("a", 8)
	f.online("s", 8)

	// When s says hi while b is offline
	message := f.send(t, group.ID, "s", "hi")

	// Then a got it live, the sender got no echo
	events := drain(a)
	req.Len(events, 1)
	req.Equal(message.ID, events[0].(domain.Message).ID)
	req.Equal(domain.Text{Body: "hi"}, events[0].(domain.Message).Payload)

	// Queued is not received: only the sender counts until a's connection writes it
	stored := f.stored(t)
	req.Len(stored, 1)
	req.True(stored[0].ReceivedBy.Equal(domain.NewUserSet("s")))

	// And once written the message is kept for b only
	req.Zero(f.written("a", message.ID))
	stored = f.stored(t)
	req.Len(stored, 1)
	req.Equal([]domain.UserID{"b"}, stored[0].Outstanding().Sorted())

	// When b reconnects
	b := sink.NewOutbox(8)
	report, err := f.replayer.Replay(context.Background(), "b", b)
	req.NoError(err)
	req.Equal(domain.ReplayReport{Pending: 1, Pushed: 1}, report)
	req.Equal(message.ID, (<-b.Events()).(domain.Message).ID)

	// Then nothing is left once b's connection wrote it
	req.Equal(1, f.written("b", message.ID))
	req.Empty(f.stored(t))
}

func TestRouter_Everyone_Online_Deletes_Once_Written(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s", "a", "b")
	a := f.online("a", 8)
	b := f.online("b", 8)

	message := f.send(t, group.ID, "s", "hi")

	req.Len(drain(a), 1)
	req.Len(drain(b), 1)
	req.Len(f.stored(t), 1)

	req.Zero(f.written("a", message.ID))
	req.Equal(1, f.written("b", message.ID))
	req.Empty(f.stored(t))
}

func TestRouter_Recipients_Get_A_Copy(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s", "a")
	a := f.online("a", 8)

	message := f.send(t, group.ID, "s", "hi")
	message.Receive("a")

	queued := (<-a.Events()).(domain.Message)
	req.Equal(message.ID, queued.ID)
	req.True(queued.ReceivedBy.Equal(domain.NewUserSet("s")))
	req.True(queued.IntendedFor.Equal(domain.NewUserSet("s", "a")))
}

func TestRouter_Sender_Alone_Deletes_Immediately(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s")

	message := f.send(t, group.ID, "s", "note to self")

	req.True(message.IsComplete())
	req.Empty(f.stored(t))
}

func TestRouter_Not_A_Member(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "a", "b")
	a := f.online("a", 8)

	_, err := f.router.Dispatch(context.Background(), domain.SendCommand{
		GroupID: group.ID, SenderID: "mallory", SenderName: "mallory", Payload: domain.Text{Body: "hi"},
	})

	req.ErrorIs(err, errors.ErrNotAMember)
	req.Empty(f.stored(t))
	req.Empty(drain(a))

	entry := <-f.audit.Entries()
	req.Equal(domain.ActionSendDenied, entry.Action)
	req.Equal("mallory", entry.Username)
	req.Equal(string(group.ID), entry.Target)
}

func TestRouter_Unknown_Group(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	_, err := f.router.Dispatch(context.Background(), domain.SendCommand{
		GroupID: "nope", SenderID: "s", Payload: domain.Text{Body: "hi"},
	})

	req.ErrorIs(err, errors.ErrGroupNotFound)
	req.Empty(f.stored(t))
}

func TestRouter_Storage_Failure_Sends_Nothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	audit := mocks.NewMockIAuditLogger(ctrl)
	registry := NewRegistry(slog.Default())
	a := sink.NewOutbox(4)
	registry.Register("a", a)

	group := domain.Group{ID: "g1", Name: "friends", Members: domain.NewUserSet("s", "a")}
	membership.EXPECT().Group(gomock.Any(), domain.GroupID("g1")).Return(group, nil)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(domain.Message{}, fmt.Errorf("disk full"))

	router := NewRouter(slog.Default(), membership, store, registry, audit, 1, time.Millisecond)
	_, err := router.Dispatch(context.Background(), domain.SendCommand{
		GroupID: "g1", SenderID: "s", Payload: domain.Text{Body: "hi"},
	})

	req.ErrorIs(err, errors.ErrStorage)
	req.Empty(drain(a))
}

func TestRouter_Membership_Failure_Is_Storage_Error(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	membership.EXPECT().Group(gomock.Any(), gomock.Any()).Return(domain.Group{}, fmt.Errorf("io error"))

	router := NewRouter(slog.Default(), membership, mocks.NewMockIMessageStore(ctrl),
		NewRegistry(slog.Default()), mocks.NewMockIAuditLogger(ctrl), 1, time.Millisecond)
	_, err := router.Dispatch(context.Background(), domain.SendCommand{GroupID: "g1", SenderID: "s"})

	req.ErrorIs(err, errors.ErrStorage)
}

func TestRouter_Queued_Is_Not_Received(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	registry := NewRegistry(slog.Default())
	a := sink.NewOutbox(4)
	registry.Register("a", a)

	// No receipt and no delete: a has not written anything yet
	group := domain.Group{ID: "g1", Members: domain.NewUserSet("s", "a")}
	membership.EXPECT().Group(gomock.Any(), gomock.Any()).Return(group, nil)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) (domain.Message, error) {
		return m, nil
	})

	router := NewRouter(slog.Default(), membership, store, registry, mocks.NewMockIAuditLogger(ctrl), 2, time.Millisecond)
	_, err := router.Dispatch(context.Background(), domain.SendCommand{GroupID: "g1", SenderID: "s", Payload: domain.Text{Body: "hi"}})

	req.NoError(err)
	req.Len(drain(a), 1)
}

func TestRouter_Slow_Insert_Does_Not_Hold_Other_Groups(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	membership.EXPECT().Group(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id domain.GroupID) (domain.Group, error) {
		return domain.Group{ID: id, Members: domain.NewUserSet("s", "a")}, nil
	}).Times(2)

	inserting := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) (domain.Message, error) {
		if m.GroupID == "slow" {
			close(inserting)
			<-release
		}
		return m, nil
	}).Times(2)

	router := NewRouter(slog.Default(), membership, store, NewRegistry(slog.Default()),
		mocks.NewMockIAuditLogger(ctrl), 1, time.Millisecond)
	slow := make(chan error, 1)
	go func() {
		_, err := router.Dispatch(context.Background(), domain.SendCommand{GroupID: "slow", SenderID: "s"})
		slow <- err
	}()
	<-inserting

	fast := make(chan error, 1)
	go func() {
		_, err := router.Dispatch(context.Background(), domain.SendCommand{GroupID: "fast", SenderID: "s"})
		fast <- err
	}()
	select {
	case err := <-fast:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.FailNow("send to another group waited on a slow insert")
	}

	close(release)
	req.NoError(<-slow)
}

func TestRouter_Group_Order_Is_Insertion_Order(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Every send gets the same wall clock: ordering relies on the router alone
	f.router.WithClock(func() time.Time { return frozen })

	senders := []domain.UserID{"s1", "s2", "s3", "s4"}
	group := f.group(t, append(senders, "r")...)
	r := f.online("r", 256)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for _, sender := range senders {
		wg.Add(1)
		go func(sender domain.UserID) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := f.router.Dispatch(context.Background(), domain.SendCommand{
					GroupID: group.ID, SenderID: sender, Payload: domain.Text{Body: fmt.Sprintf("%s-%d", sender, i)},
				})
				if err != nil {
					errs <- err
				}
			}
		}(sender)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	events := drain(r)
	req.Len(events, 40)
	last := map[domain.UserID]int{}
	var previous time.Time
	for _, evt := range events {
		message := evt.(domain.Message)
		req.True(message.CreatedAt.After(previous), "creation times must strictly increase")
		previous = message.CreatedAt

		// Each sender's own messages keep their send order
		var i int
		_, err := fmt.Sscanf(message.Payload.(domain.Text).Body, string(message.SenderID)+"-%d", &i)
		req.NoError(err)
		if seen, ok := last[message.SenderID]; ok {
			req.Greater(i, seen)
		}
		last[message.SenderID] = i
	}
}
