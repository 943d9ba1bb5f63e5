// Package domain contains core concepts of the chat relay.
// This file defines Message, the unit of delivery, and its receipt rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageID = uuid.UUID

// Message represents one message addressed to a group.
// IntendedFor is the membership snapshot taken at send time and never changes afterwards.
// ReceivedBy grows monotonically and always stays a subset of IntendedFor.
type Message struct {
	ID          MessageID
	GroupID     GroupID
	GroupName   string
	SenderID    UserID
	SenderName  string
	Payload     Payload
	IntendedFor UserSet
	ReceivedBy  UserSet
	CreatedAt   time.Time
}

// NewMessage builds a message for the given group snapshot.
// The sender is counted as having received its own message.
func NewMessage(group Group, senderID UserID, senderName string, payload Payload, at time.Time) Message {
	return Message{
		GroupID:     group.ID,
		GroupName:   group.Name,
		SenderID:    senderID,
		SenderName:  senderName,
		Payload:     payload,
		IntendedFor: group.Members.Clone(),
		ReceivedBy:  NewUserSet(senderID),
		CreatedAt:   at.UTC(),
	}
}

// IsComplete reports whether every intended recipient has received the message.
func (m Message) IsComplete() bool {
	return m.ReceivedBy.Equal(m.IntendedFor)
}

// Outstanding returns the recipients still waiting for the message.
func (m Message) Outstanding() UserSet {
	return m.IntendedFor.Difference(m.ReceivedBy)
}

// Receive unions users into ReceivedBy, ignoring anyone outside IntendedFor.
// It returns the users that were actually added.
func (m *Message) Receive(users ...UserID) []UserID {
	if m.ReceivedBy == nil {
		m.ReceivedBy = NewUserSet()
	}
	var added []UserID
	for _, u := range users {
		if !m.IntendedFor.Contains(u) || m.ReceivedBy.Contains(u) {
			continue
		}
		m.ReceivedBy.Add(u)
		added = append(added, u)
	}
	return added
}

// Clone returns a copy that shares no set with m.
func (m Message) Clone() Message {
	m.IntendedFor = m.IntendedFor.Clone()
	m.ReceivedBy = m.ReceivedBy.Clone()
	return m
}
