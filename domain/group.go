package domain

import "time"

type GroupID string

// Group is read-only from the relay's point of view.
type Group struct {
	ID        GroupID
	Name      string
	Members   UserSet
	CreatedBy UserID
	CreatedAt time.Time
}

func (g Group) HasMember(id UserID) bool {
	return g.Members.Contains(id)
}
