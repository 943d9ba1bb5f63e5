//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/sink"
	"context"
	"io"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IMembershipOracle answers membership questions. Pure read.
type IMembershipOracle interface {
	Group(ctx context.Context, id domain.GroupID) (domain.Group, error)
	GroupsOf(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error)
}

// IMessageStore keeps messages until every intended recipient received them.
// MarkReceived, MarkReceivedBatch and DeleteIfComplete are atomic conditional operations.
type IMessageStore interface {
	Insert(ctx context.Context, message domain.Message) (domain.Message, error)
	Get(ctx context.Context, id domain.MessageID) (domain.Message, error)
	PendingFor(ctx context.Context, userID domain.UserID, groups []domain.GroupID) ([]domain.Message, error)
	MarkReceived(ctx context.Context, id domain.MessageID, users []domain.UserID) (bool, error)
	MarkReceivedBatch(ctx context.Context, userID domain.UserID, ids []domain.MessageID) ([]domain.MessageID, error)
	DeleteIfComplete(ctx context.Context, id domain.MessageID) (bool, error)
	Pending(ctx context.Context) ([]domain.Message, error)
}

type IRegistry interface {
	Register(userID domain.UserID, outbox *sink.Outbox) *sink.Outbox
	Unregister(userID domain.UserID, outbox *sink.Outbox) bool
	TrySend(userID domain.UserID, message domain.Message) bool
	IsOnline(userID domain.UserID) bool
	Count() int
}

type IRouter interface {
	Dispatch(ctx context.Context, cmd domain.SendCommand) (domain.Message, error)
}

type IReplayer interface {
	Replay(ctx context.Context, userID domain.UserID, outbox *sink.Outbox) (domain.ReplayReport, error)
}

// IReceipts is told which messages a session has written to its connection.
type IReceipts interface {
	Confirm(ctx context.Context, userID domain.UserID, ids []domain.MessageID) int
}

// FrameConn is the transport seen by a session.
// ReadFrame returns errors.ErrMalformedFrame for frames that should be skipped,
// any other error ends the session.
type FrameConn interface {
	ReadFrame(ctx context.Context) (domain.InboundFrame, error)
	WriteEvent(evt domain.Event) error
	Close(reason string) error
}

// IAuditLogger records an action without making the caller wait.
type IAuditLogger interface {
	Record(entry domain.AuditEntry)
}

type IAttachmentStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (domain.File, error)
}
