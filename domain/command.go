package domain

// SendCommand is one "send to group" request coming from a session or the upload endpoint.
type SendCommand struct {
	GroupID    GroupID
	SenderID   UserID
	SenderName string
	Payload    Payload
}
