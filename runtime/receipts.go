package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"log/slog"
	"time"
)

// Receipts records the messages a session writer has put on the wire.
// Nothing else marks a message received: a message queued but never written stays owed.
type Receipts struct {
	log        *slog.Logger
	store      contract.IMessageStore
	retries    int
	retryDelay time.Duration
}

func NewReceipts(log *slog.Logger, store contract.IMessageStore, retries int, retryDelay time.Duration) *Receipts {
	return &Receipts{
		log:        log,
		store:      store,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// Confirm marks ids as received by userID, then deletes the messages nobody else is waiting for.
// It returns how many were deleted. Failures are logged: the messages stay owed and are replayed again.
func (r *Receipts) Confirm(ctx context.Context, userID domain.UserID, ids []domain.MessageID) int {
	if len(ids) == 0 {
		return 0
	}
	// The writes happened: receipts are recorded even if the session is already going away.
	ctx = context.WithoutCancel(ctx)

	var completed []domain.MessageID
	err := retry(ctx, r.log, r.retries, r.retryDelay, "mark_received", func() error {
		completed = nil
		if len(ids) == 1 {
			complete, err := r.store.MarkReceived(ctx, ids[0], []domain.UserID{userID})
			if complete {
				completed = []domain.MessageID{ids[0]}
			}
			return err
		}
		var err error
		completed, err = r.store.MarkReceivedBatch(ctx, userID, ids)
		return err
	})
	if errors.Is(err, errors.ErrMessageNotFound) {
		r.log.Debug("Written message already gone", "user_id", userID, "message_id", ids[0])
		return 0
	}
	if err != nil {
		r.log.Error("Failed to record receipts", "user_id", userID, "written", len(ids), "error", err)
		return 0
	}

	deleted := deleteCompleted(ctx, r.log, r.store, r.retries, r.retryDelay, completed...)
	r.log.Debug("Receipts recorded", "user_id", userID, "written", len(ids),
		"completed", len(completed), "deleted", deleted)
	return deleted
}
