package sink

import (
	"chat-relay/domain"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuditSink_Record(t *testing.T) {
	req := require.New(t)
	audit := NewAuditSink(slog.Default(), 1)

	audit.Record(domain.AuditEntry{Username: "alice", Action: domain.ActionLogin})
	// Full buffer: dropped, never blocks
	audit.Record(domain.AuditEntry{Username: "bob", Action: domain.ActionLogin})

	req.Equal(uint64(1), audit.Dropped())
	entry := <-audit.Entries()
	req.Equal("alice", entry.Username)
	req.NotZero(entry.ID)
	req.False(entry.At.IsZero())
}
