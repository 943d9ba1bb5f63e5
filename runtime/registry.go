package runtime

import (
	"chat-relay/domain"
	"chat-relay/sink"
	"log/slog"
	"sync"
)

// Registry maps a connected user to the outbox of its live session.
// One entry per user: a newer session replaces the older one.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[domain.UserID]*sink.Outbox
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:      log,
		sessions: make(map[domain.UserID]*sink.Outbox),
	}
}

// Register installs outbox for userID and returns the outbox it replaced, if any.
// The caller decides what to do with the superseded session.
func (r *Registry) Register(userID domain.UserID, outbox *sink.Outbox) *sink.Outbox {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.sessions[userID]
	r.sessions[userID] = outbox
	if previous == outbox {
		return nil
	}
	return previous
}

// Unregister removes the entry only if it still belongs to outbox.
// A session replaced by a newer one therefore never removes its successor.
func (r *Registry) Unregister(userID domain.UserID, outbox *sink.Outbox) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[userID]; !ok || current != outbox {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// TrySend hands message to the user's session without blocking.
// It returns false when the user is offline or its buffer is full.
func (r *Registry) TrySend(userID domain.UserID, message domain.Message) bool {
	r.mu.RLock()
	outbox, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if !outbox.TrySend(message) {
		r.log.Debug("Recipient unreachable, left to backlog", "user_id", userID, "message_id", message.ID)
		return false
	}
	return true
}

func (r *Registry) IsOnline(userID domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[userID]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every registered outbox. Used at shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, outbox := range r.sessions {
		outbox.Close(reason)
		delete(r.sessions, userID)
	}
}
