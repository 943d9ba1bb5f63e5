package domain

// Event is anything pushed to a connected session: a delivered Message or a Rejection.
type Event interface {
	event()
}

func (Message) event() {}

// Rejection tells the sender that a send on GroupID was refused.
type Rejection struct {
	GroupID GroupID
	Reason  error
}

func (Rejection) event() {}

// InboundFrame is a well-formed "send" frame read from a client.
type InboundFrame struct {
	GroupID GroupID
	Payload Payload
}

// ReplayReport summarises one backlog replay.
// Pushed counts messages queued on the outbox, not messages written to the client.
type ReplayReport struct {
	Pending int
	Pushed  int
}
