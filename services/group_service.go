package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IGroupService backs the HQ admin endpoints: accounts, group membership and the audit log.
type IGroupService interface {
	CreateGroup(ctx context.Context, actor domain.Identity, name string, members []domain.UserID) (domain.Group, error)
	AddMembers(ctx context.Context, actor domain.Identity, id domain.GroupID, members []domain.UserID) (domain.Group, error)
	RemoveMember(ctx context.Context, actor domain.Identity, id domain.GroupID, member domain.UserID) (domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	Logs(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	DeleteLog(ctx context.Context, actor domain.Identity, id uuid.UUID) error
	Users(ctx context.Context, unverifiedOnly bool) ([]repositories.User, error)
	SetVerified(ctx context.Context, actor domain.Identity, id string, verified bool) (repositories.User, error)
}

type GroupService struct {
	groups repositories.IGroupRepository
	users  repositories.IUserRepository
	logs   repositories.IAuditRepository
	audit  contract.IAuditLogger
}

func NewGroupService(groups repositories.IGroupRepository, users repositories.IUserRepository,
	logs repositories.IAuditRepository, audit contract.IAuditLogger) *GroupService {
	return &GroupService{groups: groups, users: users, logs: logs, audit: audit}
}

func (s *GroupService) CreateGroup(ctx context.Context, actor domain.Identity, name string, members []domain.UserID) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, fmt.Errorf("%w: group name is required", errors.ErrInvalidRequest)
	}
	if err := s.checkUsers(members); err != nil {
		return domain.Group{}, err
	}
	group, err := s.groups.CreateGroup(ctx, name, actor.UserID, members)
	if err != nil {
		return domain.Group{}, err
	}
	s.record(actor, domain.ActionCreateGroup, group.Name)
	return group, nil
}

func (s *GroupService) AddMembers(ctx context.Context, actor domain.Identity, id domain.GroupID, members []domain.UserID) (domain.Group, error) {
	if len(members) == 0 {
		return domain.Group{}, fmt.Errorf("%w: no member to add", errors.ErrInvalidRequest)
	}
	if err := s.checkUsers(members); err != nil {
		return domain.Group{}, err
	}
	group, err := s.groups.AddMembers(ctx, id, members)
	if err != nil {
		return domain.Group{}, err
	}
	s.record(actor, domain.ActionAddMembers, fmt.Sprintf("%s:%s", group.Name, strings.Join(
		lo.Map(members, func(m domain.UserID, _ int) string { return string(m) }), ",")))
	return group, nil
}

func (s *GroupService) RemoveMember(ctx context.Context, actor domain.Identity, id domain.GroupID, member domain.UserID) (domain.Group, error) {
	group, err := s.groups.RemoveMember(ctx, id, member)
	if err != nil {
		return domain.Group{}, err
	}
	s.record(actor, domain.ActionRemoveMember, fmt.Sprintf("%s:%s", group.Name, member))
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	return s.groups.List(ctx)
}

func (s *GroupService) Logs(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.logs.List(ctx, limit)
}

func (s *GroupService) DeleteLog(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
	if err := s.logs.Delete(ctx, id); err != nil {
		return err
	}
	s.record(actor, domain.ActionDeleteLog, id.String())
	return nil
}

func (s *GroupService) Users(_ context.Context, unverifiedOnly bool) ([]repositories.User, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	if unverifiedOnly {
		users = lo.Reject(users, func(u repositories.User, _ int) bool { return u.Verified })
	}
	return users, nil
}

func (s *GroupService) SetVerified(_ context.Context, actor domain.Identity, id string, verified bool) (repositories.User, error) {
	user, err := s.users.SetVerified(id, verified)
	if err != nil {
		return repositories.User{}, fmt.Errorf("%w: %s", err, id)
	}
	action := domain.ActionVerifyUser
	if !verified {
		action = domain.ActionUnverifyUser
	}
	s.record(actor, action, user.Username)
	return user, nil
}

// checkUsers refuses unknown accounts so that a group never waits on a recipient that cannot connect.
func (s *GroupService) checkUsers(members []domain.UserID) error {
	for _, member := range lo.Uniq(members) {
		if _, err := s.users.GetUserByID(string(member)); err != nil {
			return fmt.Errorf("%w: %s", err, member)
		}
	}
	return nil
}

func (s *GroupService) record(actor domain.Identity, action domain.AuditAction, target string) {
	s.audit.Record(domain.AuditEntry{Username: actor.Username, Action: action, Target: target, At: time.Now().UTC()})
}
