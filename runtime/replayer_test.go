package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReplayer_Backlog_Across_Groups_Oldest_First(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	friends := f.group(t, "s", "b")
	work := f.group(t, "s", "b", "c")

	first := f.send(t, work.ID, "s", "1")
	second := f.send(t, friends.ID, "s", "2")
	third := f.send(t, work.ID, "s", "3")

	outbox := sink.NewOutbox(8)
	report, err := f.replayer.Replay(context.Background(), "b", outbox)
	req.NoError(err)
	req.Equal(domain.ReplayReport{Pending: 3, Pushed: 3}, report)

	events := drain(outbox)
	req.Len(events, 3)
	req.Equal(first.ID, events[0].(domain.Message).ID)
	req.Equal(second.ID, events[1].(domain.Message).ID)
	req.Equal(third.ID, events[2].(domain.Message).ID)

	// Queued is not received
	req.Len(f.stored(t), 3)

	// Once written, c still owes the work messages
	req.Equal(1, f.written("b", first.ID, second.ID, third.ID))
	stored := f.stored(t)
	req.Len(stored, 2)
	for _, m := range stored {
		req.Equal([]domain.UserID{"c"}, m.Outstanding().Sorted())
	}
}

func TestReplayer_Nothing_Owed(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	report, err := f.replayer.Replay(context.Background(), "nobody", sink.NewOutbox(1))
	req.NoError(err)
	req.Zero(report)
}

func TestReplayer_Interrupted_Keeps_The_Rest(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s", "b")
	for i := 0; i < 3; i++ {
		f.send(t, group.ID, "s", fmt.Sprint(i))
	}

	// Room for one message only, nobody draining: the second push waits until the connection goes away
	outbox := sink.NewOutbox(1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		outbox.Close(sink.ReasonClosed)
	}()
	report, err := f.replayer.Replay(context.Background(), "b", outbox)

	req.NoError(err)
	req.Equal(3, report.Pending)
	req.Equal(1, report.Pushed)
	req.Len(f.stored(t), 3)
}

func TestReplayer_Lookup_Failures(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	replayer := NewReplayer(slog.Default(), membership, store)

	membership.EXPECT().GroupsOf(gomock.Any(), domain.UserID("b")).Return(nil, fmt.Errorf("io error"))
	_, err := replayer.Replay(context.Background(), "b", sink.NewOutbox(1))
	req.ErrorIs(err, errors.ErrStorage)

	membership.EXPECT().GroupsOf(gomock.Any(), domain.UserID("b")).Return([]domain.GroupID{"g1"}, nil)
	store.EXPECT().PendingFor(gomock.Any(), domain.UserID("b"), []domain.GroupID{"g1"}).Return(nil, fmt.Errorf("io error"))
	_, err = replayer.Replay(context.Background(), "b", sink.NewOutbox(1))
	req.ErrorIs(err, errors.ErrStorage)
}

func TestReplayer_Records_No_Receipt(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockIMembershipOracle(ctrl)
	store := mocks.NewMockIMessageStore(ctrl)
	replayer := NewReplayer(slog.Default(), membership, store)
	pending := domain.Message{ID: uuid.New(), GroupID: "g1", Payload: domain.Text{Body: "hi"}}

	// No MarkReceived, MarkReceivedBatch or DeleteIfComplete is expected
	membership.EXPECT().GroupsOf(gomock.Any(), gomock.Any()).Return([]domain.GroupID{"g1"}, nil)
	store.EXPECT().PendingFor(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Message{pending}, nil)

	outbox := sink.NewOutbox(1)
	report, err := replayer.Replay(context.Background(), "b", outbox)
	req.NoError(err)
	req.Equal(1, report.Pushed)
	req.Len(drain(outbox), 1)
}
