package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReceipts_Last_Recipient_Deletes(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	group := f.group(t, "s", "a", "b")
	message := f.send(t, group.ID, "s", "hi")

	req.Zero(f.written("a", message.ID))
	stored := f.stored(t)
	req.Len(stored, 1)
	req.Equal([]domain.UserID{"b"}, stored[0].Outstanding().Sorted())

	req.Equal(1, f.written("b", message.ID))
	req.Empty(f.stored(t))

	// A late confirmation for a message already gone is harmless
	req.Zero(f.written("a", message.ID))
	req.Zero(f.written("b"))
}

func TestReceipts_Single_Write_Retried(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageStore(ctrl)
	id := uuid.New()
	gomock.InOrder(
		store.EXPECT().MarkReceived(gomock.Any(), id, []domain.UserID{"a"}).Return(false, fmt.Errorf("conflict")),
		store.EXPECT().MarkReceived(gomock.Any(), id, []domain.UserID{"a"}).Return(true, nil),
		store.EXPECT().DeleteIfComplete(gomock.Any(), id).Return(true, nil),
	)

	receipts := NewReceipts(slog.Default(), store, 2, time.Millisecond)
	req.Equal(1, receipts.Confirm(context.Background(), "a", []domain.MessageID{id}))
}

func TestReceipts_Failure_Is_Not_Fatal(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageStore(ctrl)
	ids := []domain.MessageID{uuid.New(), uuid.New()}
	store.EXPECT().MarkReceivedBatch(gomock.Any(), domain.UserID("b"), ids).
		Return(nil, fmt.Errorf("io error")).Times(2)

	receipts := NewReceipts(slog.Default(), store, 1, time.Millisecond)
	req.Zero(receipts.Confirm(context.Background(), "b", ids))
}

func TestReceipts_Survive_A_Cancelled_Session(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageStore(ctrl)
	id := uuid.New()
	store.EXPECT().MarkReceived(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.MessageID, _ []domain.UserID) (bool, error) {
			return true, ctx.Err()
		})
	store.EXPECT().DeleteIfComplete(gomock.Any(), id).Return(true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	receipts := NewReceipts(slog.Default(), store, 0, time.Millisecond)
	req.Equal(1, receipts.Confirm(ctx, "a", []domain.MessageID{id}))
}

func TestReceipts_Message_Already_Gone(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageStore(ctrl)
	id := uuid.New()
	// Not found is final: no retry, no delete
	store.EXPECT().MarkReceived(gomock.Any(), id, gomock.Any()).Return(false, errors.ErrMessageNotFound)

	receipts := NewReceipts(slog.Default(), store, 3, time.Millisecond)
	req.Zero(receipts.Confirm(context.Background(), "a", []domain.MessageID{id}))
}
