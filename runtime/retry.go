package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"log/slog"
	"time"
)

// retry runs fn up to 1+retries times, waiting delay between attempts.
// ErrMessageNotFound is final: the message was cleaned up by someone else.
func retry(ctx context.Context, log *slog.Logger, retries int, delay time.Duration, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = fn(); err == nil || errors.Is(err, errors.ErrMessageNotFound) {
			return err
		}
		if attempt == retries {
			break
		}
		log.Warn("Store operation failed, retrying", "op", op, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// deleteCompleted runs the compare-and-delete sweep on ids and returns how many were removed.
// Failures are logged: the message stays in the store and is reconciled by a later replay.
func deleteCompleted(ctx context.Context, log *slog.Logger, store contract.IMessageStore,
	retries int, delay time.Duration, ids ...domain.MessageID) int {
	deleted := 0
	for _, id := range ids {
		var ok bool
		err := retry(ctx, log, retries, delay, "delete", func() error {
			var err error
			ok, err = store.DeleteIfComplete(ctx, id)
			return err
		})
		if err != nil {
			log.Error("Failed to delete delivered message", "message_id", id, "error", err)
			continue
		}
		if ok {
			deleted++
		}
	}
	return deleted
}
