package server

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/sink"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type WSConfig struct {
	PongWait     time.Duration
	PingPeriod   time.Duration
	WriteWait    time.Duration
	MaxFrameSize int64
}

// wsConn adapts a gorilla websocket to the session transport.
// One goroutine reads, one writes; pings go through WriteControl which may run concurrently with both.
type wsConn struct {
	conn      *websocket.Conn
	log       *slog.Logger
	config    WSConfig
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn, log *slog.Logger, config WSConfig) *wsConn {
	c := &wsConn{conn: conn, log: log, config: config, done: make(chan struct{})}
	conn.SetReadLimit(config.MaxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(config.PongWait))
	})
	go c.ping()
	return c
}

func (c *wsConn) ReadFrame(_ context.Context) (domain.InboundFrame, error) {
	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return domain.InboundFrame{}, errors.ErrConnectionGone
		}
		return domain.InboundFrame{}, err
	}
	if messageType != websocket.TextMessage {
		return domain.InboundFrame{}, errors.ErrMalformedFrame
	}
	return DecodeSendFrame(data)
}

func (c *wsConn) WriteEvent(evt domain.Event) error {
	data, err := EncodeEvent(evt)
	if err != nil {
		return err
	}
	if err = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close(reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		message := websocket.FormatCloseMessage(closeCode(reason), reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(c.config.WriteWait))
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) ping() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.config.WriteWait)); err != nil {
				c.log.Debug("Ping failed", "error", err)
				return
			}
		}
	}
}

func closeCode(reason string) int {
	switch reason {
	case sink.ReasonSuperseded:
		return websocket.ClosePolicyViolation
	case sink.ReasonSlowConsumer:
		return websocket.CloseTryAgainLater
	case sink.ReasonShutdown:
		return websocket.CloseGoingAway
	default:
		return websocket.CloseNormalClosure
	}
}
