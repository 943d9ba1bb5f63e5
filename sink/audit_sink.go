package sink

import (
	"chat-relay/domain"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// AuditSink buffers audit entries for the audit writer.
// Record never blocks: when the buffer is full the entry is dropped and counted.
type AuditSink struct {
	log     *slog.Logger
	entries chan domain.AuditEntry
	dropped atomic.Uint64
}

func NewAuditSink(log *slog.Logger, capacity int) *AuditSink {
	return &AuditSink{log: log, entries: make(chan domain.AuditEntry, capacity)}
}

func (a *AuditSink) Record(entry domain.AuditEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	select {
	case a.entries <- entry:
	default:
		a.dropped.Add(1)
		a.log.Warn("Audit buffer full, entry dropped", "action", entry.Action, "username", entry.Username)
	}
}

func (a *AuditSink) Entries() <-chan domain.AuditEntry { return a.entries }

func (a *AuditSink) Dropped() uint64 { return a.dropped.Load() }
