//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	groupPrefixKey  = "group:"
	memberPrefixKey = "member:"
)

type IGroupRepository interface {
	CreateGroup(ctx context.Context, name string, createdBy domain.UserID, members []domain.UserID) (domain.Group, error)
	AddMembers(ctx context.Context, id domain.GroupID, members []domain.UserID) (domain.Group, error)
	RemoveMember(ctx context.Context, id domain.GroupID, member domain.UserID) (domain.Group, error)
	Group(ctx context.Context, id domain.GroupID) (domain.Group, error)
	GroupsOf(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error)
	List(ctx context.Context) ([]domain.Group, error)
}

// GroupRepository stores groups and a reverse "member:{user}:{group}" index.
// It is the membership oracle of the relay and backs the HQ admin endpoints.
type GroupRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewGroupRepository(db *badger.DB, log *slog.Logger) *GroupRepository {
	return &GroupRepository{db: db, log: log}
}

func groupKey(id domain.GroupID) []byte {
	return []byte(groupPrefixKey + string(id))
}

func memberKey(userID domain.UserID, groupID domain.GroupID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", memberPrefixKey, userID, groupID))
}

func (r *GroupRepository) CreateGroup(ctx context.Context, name string, createdBy domain.UserID, members []domain.UserID) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	group := domain.Group{
		ID:        domain.GroupID(uuid.NewString()),
		Name:      name,
		Members:   domain.NewUserSet(members...),
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(groupKey(group.ID), encodeGroup(group)); err != nil {
			return err
		}
		for member := range group.Members {
			if err := txn.Set(memberKey(member, group.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Group{}, err
	}
	r.log.Debug("Group created", "group_id", group.ID, "members", group.Members.Len())
	return group, nil
}

func (r *GroupRepository) AddMembers(ctx context.Context, id domain.GroupID, members []domain.UserID) (domain.Group, error) {
	return r.mutate(ctx, id, func(txn *badger.Txn, group *domain.Group) error {
		for _, member := range members {
			if group.Members.Contains(member) {
				continue
			}
			group.Members.Add(member)
			if err := txn.Set(memberKey(member, id), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GroupRepository) RemoveMember(ctx context.Context, id domain.GroupID, member domain.UserID) (domain.Group, error) {
	return r.mutate(ctx, id, func(txn *badger.Txn, group *domain.Group) error {
		delete(group.Members, member)
		return txn.Delete(memberKey(member, id))
	})
}

func (r *GroupRepository) mutate(ctx context.Context, id domain.GroupID, fn func(txn *badger.Txn, group *domain.Group) error) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	var group domain.Group
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		if group, err = loadGroup(txn, id); err != nil {
			return err
		}
		if err = fn(txn, &group); err != nil {
			return err
		}
		return txn.Set(groupKey(id), encodeGroup(group))
	})
	return group, err
}

// Group returns the group with its current members, or errors.ErrGroupNotFound.
func (r *GroupRepository) Group(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	var group domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = loadGroup(txn, id)
		return err
	})
	return group, err
}

// GroupsOf lists the groups userID belongs to, using a keys-only scan of the member index.
func (r *GroupRepository) GroupsOf(ctx context.Context, userID domain.UserID) ([]domain.GroupID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte(fmt.Sprintf("%s%s:", memberPrefixKey, userID))
	var groups []domain.GroupID
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			groups = append(groups, domain.GroupID(strings.TrimPrefix(string(it.Item().Key()), string(prefix))))
		}
		return nil
	})
	return groups, err
}

func (r *GroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var groups []domain.Group
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(groupPrefixKey)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				group, err := decodeGroup(val)
				if err != nil {
					return err
				}
				groups = append(groups, group)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups, err
}

func loadGroup(txn *badger.Txn, id domain.GroupID) (domain.Group, error) {
	item, err := txn.Get(groupKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Group{}, errors.ErrGroupNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	var group domain.Group
	err = item.Value(func(val []byte) error {
		group, err = decodeGroup(val)
		return err
	})
	return group, err
}
