package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

type SessionState int32

const receiptBatch = 64

const (
	Connecting SessionState = iota
	Active
	Closed
)

func (s SessionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("SessionState(%d)", int32(s))
	}
}

// Session drives one authenticated connection: register, replay the backlog,
// then forward inbound frames to the router until the connection or the outbox ends.
type Session struct {
	log        *slog.Logger
	identity   domain.Identity
	conn       contract.FrameConn
	registry   contract.IRegistry
	replayer   contract.IReplayer
	router     contract.IRouter
	receipts   contract.IReceipts
	outboxSize int

	state      atomic.Int32
	outbox     *sink.Outbox
	writerDone chan struct{}
	closeOnce  sync.Once
}

func NewSession(log *slog.Logger, identity domain.Identity, conn contract.FrameConn,
	registry contract.IRegistry, replayer contract.IReplayer, router contract.IRouter, receipts contract.IReceipts,
	outboxSize int) *Session {
	return &Session{
		log:        log.With("user_id", identity.UserID),
		identity:   identity,
		conn:       conn,
		registry:   registry,
		replayer:   replayer,
		router:     router,
		receipts:   receipts,
		outboxSize: outboxSize,
		writerDone: make(chan struct{}),
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run blocks until the session is closed. It always leaves the session Closed.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		s.Close(sink.ReasonClosed)
		return fmt.Errorf("connect: %w", err)
	}
	s.state.Store(int32(Active))
	s.log.Debug("Session active")

	readErr := make(chan error, 1)
	go func() { readErr <- s.readLoop(ctx) }()

	select {
	case err := <-readErr:
		s.Close(sink.ReasonClosed)
		return err
	case <-s.outbox.Done():
		s.Close(s.outbox.Reason())
		<-readErr
		return nil
	case <-ctx.Done():
		s.Close(sink.ReasonClosed)
		<-readErr
		return nil
	}
}

func (s *Session) connect(ctx context.Context) error {
	s.outbox = sink.NewOutbox(s.outboxSize)
	s.outbox.BeginReplay()
	if previous := s.registry.Register(s.identity.UserID, s.outbox); previous != nil {
		s.log.Info("Superseding previous session")
		previous.Close(sink.ReasonSuperseded)
	}
	go s.writeLoop()

	report, err := s.replayer.Replay(ctx, s.identity.UserID, s.outbox)
	if err != nil {
		return err
	}
	if err = s.outbox.EndReplay(ctx); err != nil {
		return err
	}
	s.log.Info("Session connected", "username", s.identity.Username,
		"replayed", report.Pushed, "pending", report.Pending)
	return nil
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		frame, err := s.conn.ReadFrame(ctx)
		if errors.Is(err, errors.ErrMalformedFrame) {
			s.log.Debug("Ignoring malformed frame", "error", err)
			continue
		}
		if err != nil {
			return err
		}
		s.dispatch(ctx, frame)
	}
}

// dispatch is detached from the session context: a send already read completes
// even if the connection closes right after.
func (s *Session) dispatch(ctx context.Context, frame domain.InboundFrame) {
	_, err := s.router.Dispatch(context.WithoutCancel(ctx), domain.SendCommand{
		GroupID:    frame.GroupID,
		SenderID:   s.identity.UserID,
		SenderName: s.identity.Username,
		Payload:    frame.Payload,
	})
	if err == nil {
		return
	}
	s.log.Info("Send rejected", "group_id", frame.GroupID, "error", err)
	s.outbox.TrySend(domain.Rejection{GroupID: frame.GroupID, Reason: err})
}

// writeLoop drains the outbox to the connection. Messages are confirmed in batches,
// whenever the outbox runs dry or the batch is full, and once more when the loop ends.
// What is still buffered when the outbox closes is never confirmed and stays owed.
func (s *Session) writeLoop() {
	defer close(s.writerDone)
	written := make([]domain.MessageID, 0, receiptBatch)
	confirm := func() {
		if len(written) > 0 {
			s.receipts.Confirm(context.Background(), s.identity.UserID, written)
			written = written[:0]
		}
	}
	defer confirm()

	for {
		select {
		case <-s.outbox.Done():
			return
		case evt := <-s.outbox.Events():
			if err := s.conn.WriteEvent(evt); err != nil {
				s.log.Debug("Write failed, closing session", "error", err)
				s.outbox.Close(sink.ReasonClosed)
				return
			}
			if msg, ok := evt.(domain.Message); ok {
				written = append(written, msg.ID)
			}
			if len(written) >= receiptBatch || len(s.outbox.Events()) == 0 {
				confirm()
			}
		}
	}
}

// Close unregisters the session and closes its connection. Only the first call has an effect.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.state.Store(int32(Closed))
		if s.outbox != nil {
			s.registry.Unregister(s.identity.UserID, s.outbox)
			s.outbox.Close(reason)
			<-s.writerDone
		}
		if err := s.conn.Close(reason); err != nil {
			s.log.Debug("Error while closing connection", "error", err)
		}
		s.log.Debug("Session closed", "reason", reason)
	})
}
