package server

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	FrameMessage = "message"
	FrameError   = "error"
)

var validate = validator.New()

// SendFrame is what a client writes to send to a group.
// Message is either a plain string (text) or a PayloadFrame object.
type SendFrame struct {
	GroupID string          `json:"group_id" validate:"required"`
	Message json.RawMessage `json:"message" validate:"required"`
}

type PayloadFrame struct {
	Type     string `json:"type" validate:"required,oneof=text file"`
	Text     string `json:"text,omitempty" validate:"required_if=Type text"`
	Filename string `json:"filename,omitempty" validate:"required_if=Type file"`
	URL      string `json:"url,omitempty" validate:"required_if=Type file"`
}

// MessageFrame delivers a group message to a recipient.
type MessageFrame struct {
	Type           string       `json:"type"`
	MessageID      string       `json:"message_id"`
	GroupID        string       `json:"group_id"`
	GroupName      string       `json:"group_name"`
	SenderID       string       `json:"sender_id"`
	SenderUsername string       `json:"sender_username"`
	Message        PayloadFrame `json:"message"`
	CreatedAt      string       `json:"created_at"`
}

// ErrorFrame tells the sender its send on GroupID was refused.
type ErrorFrame struct {
	Type    string `json:"type"`
	GroupID string `json:"group_id"`
	Error   string `json:"error"`
}

// DecodeSendFrame parses a client frame. Every failure is an errors.ErrMalformedFrame.
func DecodeSendFrame(data []byte) (domain.InboundFrame, error) {
	var frame SendFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return domain.InboundFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	if err := validate.Struct(frame); err != nil {
		return domain.InboundFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	payload, err := decodePayload(frame.Message)
	if err != nil {
		return domain.InboundFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	return domain.InboundFrame{GroupID: domain.GroupID(frame.GroupID), Payload: payload}, nil
}

func decodePayload(raw json.RawMessage) (domain.Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		if text == "" {
			return nil, fmt.Errorf("empty message")
		}
		return domain.Text{Body: text}, nil
	}

	var p PayloadFrame
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	switch domain.PayloadKind(p.Type) {
	case domain.PayloadText:
		return domain.Text{Body: p.Text}, nil
	case domain.PayloadFile:
		if err := validate.Var(p.URL, "url"); err != nil {
			return nil, err
		}
		return domain.File{Filename: p.Filename, URL: p.URL}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", p.Type)
	}
}

func ToPayloadFrame(payload domain.Payload) PayloadFrame {
	switch p := payload.(type) {
	case domain.Text:
		return PayloadFrame{Type: string(domain.PayloadText), Text: p.Body}
	case domain.File:
		return PayloadFrame{Type: string(domain.PayloadFile), Filename: p.Filename, URL: p.URL}
	default:
		panic(fmt.Sprintf("unsupported payload %T", payload))
	}
}

func ToMessageFrame(m domain.Message) MessageFrame {
	return MessageFrame{
		Type:           FrameMessage,
		MessageID:      m.ID.String(),
		GroupID:        string(m.GroupID),
		GroupName:      m.GroupName,
		SenderID:       string(m.SenderID),
		SenderUsername: m.SenderName,
		Message:        ToPayloadFrame(m.Payload),
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// EncodeEvent renders an outbound event as a JSON frame.
func EncodeEvent(evt domain.Event) ([]byte, error) {
	switch e := evt.(type) {
	case domain.Message:
		return json.Marshal(ToMessageFrame(e))
	case domain.Rejection:
		return json.Marshal(ErrorFrame{Type: FrameError, GroupID: string(e.GroupID), Error: errors.Code(e.Reason)})
	default:
		return nil, fmt.Errorf("unsupported event %T", evt)
	}
}
