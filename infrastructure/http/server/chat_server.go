package server

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// ChatServer upgrades authenticated requests to websocket sessions.
type ChatServer struct {
	log        *slog.Logger
	tokens     *auth.Tokens
	registry   contract.IRegistry
	replayer   contract.IReplayer
	router     contract.IRouter
	receipts   contract.IReceipts
	monitoring *observability.MonitoringManager
	upgrader   websocket.Upgrader
	config     WSConfig
	outboxSize int
	onError    func(w http.ResponseWriter, err error)
}

func NewChatServer(log *slog.Logger, tokens *auth.Tokens, registry contract.IRegistry, replayer contract.IReplayer,
	router contract.IRouter, receipts contract.IReceipts, monitoring *observability.MonitoringManager,
	config WSConfig, outboxSize int) *ChatServer {
	return &ChatServer{
		log:        log,
		tokens:     tokens,
		registry:   registry,
		replayer:   replayer,
		router:     countingRouter{IRouter: router, monitoring: monitoring},
		receipts:   receipts,
		monitoring: monitoring,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		config:     config,
		outboxSize: outboxSize,
		onError:    ErrorWriter(log),
	}
}

// HandleConnection (GET /ws) runs the session on the request goroutine until it closes.
// The token is checked before the upgrade so that a bad one gets a plain 401.
func (s *ChatServer) HandleConnection(w http.ResponseWriter, r *http.Request) {
	identity, err := s.tokens.Authenticate(r)
	if err != nil {
		s.onError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("Upgrade error", "user_id", identity.UserID, "error", err)
		return
	}

	log := s.log.With("remote", r.RemoteAddr)
	session := runtime.NewSession(log, identity, newWSConn(conn, log, s.config),
		s.registry, s.replayer, s.router, s.receipts, s.outboxSize)
	if err = session.Run(r.Context()); err != nil && !errors.Is(err, errors.ErrConnectionGone) {
		log.Debug("Session ended", "user_id", identity.UserID, "error", err)
	}
}

// countingRouter feeds the dispatch counters shown by the health endpoint.
type countingRouter struct {
	contract.IRouter
	monitoring *observability.MonitoringManager
}

func (c countingRouter) Dispatch(ctx context.Context, cmd domain.SendCommand) (domain.Message, error) {
	message, err := c.IRouter.Dispatch(ctx, cmd)
	if err != nil {
		c.monitoring.IncrRejected()
	} else {
		c.monitoring.IncrDispatched()
	}
	return message, err
}
