package server

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"chat-relay/services"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

const defaultLogLimit = 100

type createGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=128"`
	Members []string `json:"members" validate:"dive,required"`
}

type membersRequest struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Verified  bool      `json:"is_verified"`
	CreatedAt time.Time `json:"created_at"`
}

type logResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

// HQServer serves the admin endpoints, behind the admin role.
type HQServer struct {
	groupService services.IGroupService
	onError      func(w http.ResponseWriter, err error)
}

func NewHQServer(groupService services.IGroupService, onError func(w http.ResponseWriter, err error)) *HQServer {
	return &HQServer{groupService: groupService, onError: onError}
}

// CreateGroup (POST /api/hq/groups)
func (s *HQServer) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeValid(r, &req); err != nil {
		s.onError(w, err)
		return
	}
	actor, _ := auth.IdentityFrom(r.Context())
	group, err := s.groupService.CreateGroup(r.Context(), actor, req.Name, toUserIDs(req.Members))
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// ListGroups (GET /api/hq/groups)
func (s *HQServer) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groupService.List(r.Context())
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(groups, func(g domain.Group, _ int) groupResponse { return toGroupResponse(g) }))
}

// AddMembers (PUT /api/hq/groups/{id}/members)
func (s *HQServer) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if err := decodeValid(r, &req); err != nil {
		s.onError(w, err)
		return
	}
	actor, _ := auth.IdentityFrom(r.Context())
	group, err := s.groupService.AddMembers(r.Context(), actor, domain.GroupID(mux.Vars(r)["id"]), toUserIDs(req.Members))
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// RemoveMember (DELETE /api/hq/groups/{id}/members/{member})
func (s *HQServer) RemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	actor, _ := auth.IdentityFrom(r.Context())
	group, err := s.groupService.RemoveMember(r.Context(), actor, domain.GroupID(vars["id"]), domain.UserID(vars["member"]))
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// ListUsers (GET /api/hq/users?unverified=true)
func (s *HQServer) ListUsers(w http.ResponseWriter, r *http.Request) {
	unverifiedOnly := false
	if raw := r.URL.Query().Get("unverified"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.onError(w, fmt.Errorf("%w: unverified %q", errors.ErrInvalidRequest, raw))
			return
		}
		unverifiedOnly = parsed
	}
	users, err := s.groupService.Users(r.Context(), unverifiedOnly)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(users, func(u repositories.User, _ int) userResponse { return toUserResponse(u) }))
}

// VerifyUser (PUT /api/hq/users/{id}/verified)
func (s *HQServer) VerifyUser(w http.ResponseWriter, r *http.Request) {
	s.setVerified(w, r, true)
}

// UnverifyUser (DELETE /api/hq/users/{id}/verified)
func (s *HQServer) UnverifyUser(w http.ResponseWriter, r *http.Request) {
	s.setVerified(w, r, false)
}

func (s *HQServer) setVerified(w http.ResponseWriter, r *http.Request, verified bool) {
	actor, _ := auth.IdentityFrom(r.Context())
	user, err := s.groupService.SetVerified(r.Context(), actor, mux.Vars(r)["id"], verified)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ListLogs (GET /api/hq/logs?limit=N)
func (s *HQServer) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.onError(w, fmt.Errorf("%w: limit %q", errors.ErrInvalidRequest, raw))
			return
		}
		limit = parsed
	}
	entries, err := s.groupService.Logs(r.Context(), limit)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(entries, func(e domain.AuditEntry, _ int) logResponse {
		return logResponse{
			ID:        e.ID.String(),
			Username:  e.Username,
			Action:    string(e.Action),
			Target:    e.Target,
			Timestamp: e.At,
		}
	}))
}

// DeleteLog (DELETE /api/hq/logs/{id})
func (s *HQServer) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.onError(w, fmt.Errorf("%w: %v", errors.ErrLogNotFound, err))
		return
	}
	actor, _ := auth.IdentityFrom(r.Context())
	if err = s.groupService.DeleteLog(r.Context(), actor, id); err != nil {
		s.onError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeValid(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}

func toUserIDs(ids []string) []domain.UserID {
	return lo.Map(ids, func(id string, _ int) domain.UserID { return domain.UserID(id) })
}

func toUserResponse(u repositories.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.Roles,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func toGroupResponse(g domain.Group) groupResponse {
	return groupResponse{
		ID:        string(g.ID),
		Name:      g.Name,
		Members:   lo.Map(g.Members.Sorted(), func(id domain.UserID, _ int) string { return string(id) }),
		CreatedBy: string(g.CreatedBy),
		CreatedAt: g.CreatedAt,
	}
}
