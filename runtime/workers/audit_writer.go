package workers

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
	"log/slog"
	"time"
)

// AuditWriterWorker drains the audit sink into the audit repository.
// Entries still buffered at shutdown are written before returning.
type AuditWriterWorker struct {
	log        *slog.Logger
	entries    <-chan domain.AuditEntry
	repository repositories.IAuditRepository
}

func NewAuditWriterWorker(log *slog.Logger, entries <-chan domain.AuditEntry,
	repository repositories.IAuditRepository) *AuditWriterWorker {
	return &AuditWriterWorker{log: log, entries: entries, repository: repository}
}

func (w *AuditWriterWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Debug("Context done, stopping audit writer")
			return nil
		case entry := <-w.entries:
			w.write(ctx, entry)
		}
	}
}

func (w *AuditWriterWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		select {
		case entry := <-w.entries:
			w.write(ctx, entry)
		default:
			return
		}
	}
}

func (w *AuditWriterWorker) write(ctx context.Context, entry domain.AuditEntry) {
	if err := w.repository.Append(ctx, entry); err != nil {
		w.log.Error("Failed to write audit entry", "action", entry.Action,
			"username", entry.Username, "target", entry.Target, "error", err)
	}
}
