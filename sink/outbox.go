package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"sync"
)

const (
	ReasonClosed       = "closed"
	ReasonSuperseded   = "superseded by a newer session"
	ReasonSlowConsumer = "slow consumer"
	ReasonShutdown     = "server shutting down"
)

// Outbox is the bounded send channel of one connected session.
// Producers (router, replayer) enqueue, the session writer drains Events.
// Events is never closed; Done is closed instead so that no producer can panic on a closed channel.
type Outbox struct {
	events    chan domain.Event
	done      chan struct{}
	closeOnce sync.Once
	reason    string
	capacity  int

	mu        sync.Mutex
	replaying bool
	held      []domain.Event
	replayed  map[domain.MessageID]struct{}
}

func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &Outbox{
		events:   make(chan domain.Event, capacity),
		done:     make(chan struct{}),
		capacity: capacity,
		replayed: make(map[domain.MessageID]struct{}),
	}
}

func (o *Outbox) Events() <-chan domain.Event { return o.events }

func (o *Outbox) Done() <-chan struct{} { return o.done }

// Reason is only meaningful once Done is closed.
func (o *Outbox) Reason() string {
	select {
	case <-o.done:
		return o.reason
	default:
		return ""
	}
}

func (o *Outbox) Close(reason string) {
	o.closeOnce.Do(func() {
		o.reason = reason
		close(o.done)
	})
}

func (o *Outbox) closed() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// TrySend enqueues without ever blocking the caller.
// A full buffer closes the outbox: the client reconnects and the backlog replay catches it up.
// While a replay is running, messages are held back and flushed by EndReplay
// so that the backlog is written first.
func (o *Outbox) TrySend(evt domain.Event) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed() {
		return false
	}
	if msg, ok := evt.(domain.Message); ok {
		if _, seen := o.replayed[msg.ID]; seen {
			return true
		}
		if o.replaying {
			if len(o.held) >= o.capacity {
				o.Close(ReasonSlowConsumer)
				return false
			}
			o.held = append(o.held, evt)
			return true
		}
	}
	select {
	case o.events <- evt:
		return true
	default:
		o.Close(ReasonSlowConsumer)
		return false
	}
}

// BeginReplay must be called before the outbox becomes reachable through the registry.
func (o *Outbox) BeginReplay() {
	o.mu.Lock()
	o.replaying = true
	o.mu.Unlock()
}

// Push enqueues a backlog message, waiting for room in the buffer.
// A message id is pushed at most once per outbox.
func (o *Outbox) Push(ctx context.Context, msg domain.Message) error {
	o.mu.Lock()
	if o.closed() {
		o.mu.Unlock()
		return errors.ErrConnectionGone
	}
	if _, seen := o.replayed[msg.ID]; seen {
		o.mu.Unlock()
		return nil
	}
	o.replayed[msg.ID] = struct{}{}
	o.mu.Unlock()

	select {
	case o.events <- msg:
		return nil
	case <-o.done:
		return errors.ErrConnectionGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EndReplay flushes the messages held during the replay, then switches to direct delivery.
// The lock is never held while waiting on the buffer, so TrySend stays non-blocking.
func (o *Outbox) EndReplay(ctx context.Context) error {
	for {
		o.mu.Lock()
		if len(o.held) == 0 {
			o.replaying = false
			o.mu.Unlock()
			return nil
		}
		batch := make([]domain.Event, 0, len(o.held))
		for _, evt := range o.held {
			if msg, ok := evt.(domain.Message); ok {
				if _, seen := o.replayed[msg.ID]; seen {
					continue
				}
			}
			batch = append(batch, evt)
		}
		o.held = nil
		o.mu.Unlock()

		for _, evt := range batch {
			select {
			case o.events <- evt:
			case <-o.done:
				return errors.ErrConnectionGone
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
