package domain

import (
	"sort"

	"github.com/samber/lo"
)

type UserID string

// UserSet is a set of user ids.
// A nil UserSet is a valid empty set for reads; build one with NewUserSet before calling Add.
type UserSet map[UserID]struct{}

func NewUserSet(ids ...UserID) UserSet {
	s := make(UserSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s UserSet) Add(id UserID) {
	s[id] = struct{}{}
}

func (s UserSet) Contains(id UserID) bool {
	_, ok := s[id]
	return ok
}

func (s UserSet) Len() int {
	return len(s)
}

func (s UserSet) Clone() UserSet {
	return NewUserSet(lo.Keys(s)...)
}

func (s UserSet) IsSubsetOf(other UserSet) bool {
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s UserSet) Equal(other UserSet) bool {
	return len(s) == len(other) && s.IsSubsetOf(other)
}

func (s UserSet) Difference(other UserSet) UserSet {
	res := NewUserSet()
	for id := range s {
		if !other.Contains(id) {
			res.Add(id)
		}
	}
	return res
}

// Sorted returns the members in lexical order, handy for stable encoding and logs.
func (s UserSet) Sorted() []UserID {
	ids := lo.Keys(s)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
