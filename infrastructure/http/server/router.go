package server

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/observability"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Chat        *ChatServer
	Auth        *AuthServer
	Attachments *AttachmentServer
	HQ          *HQServer
}

// NewRouter wires every HTTP route of the relay.
func NewRouter(log *slog.Logger, tokens *auth.Tokens, monitoring *observability.MonitoringManager, h Handlers) *mux.Router {
	onError := ErrorWriter(log)
	authenticated := tokens.Middleware(onError)

	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			observability.RelayStats
		}{Status: "ok", RelayStats: monitoring.GetLatest()})
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.Chat.HandleConnection).Methods(http.MethodGet)
	r.HandleFunc("/files/{name}", h.Attachments.Serve).Methods(http.MethodGet)

	users := r.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("/signup", h.Auth.Signup).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	users.Handle("/me", authenticated(http.HandlerFunc(h.Auth.Me))).Methods(http.MethodGet)

	groups := r.PathPrefix("/api/groups").Subrouter()
	groups.Use(authenticated)
	groups.HandleFunc("/{group_id}/attachments", h.Attachments.Upload).Methods(http.MethodPost)

	hq := r.PathPrefix("/api/hq").Subrouter()
	hq.Use(authenticated, auth.RequireRole(domain.RoleAdmin, onError))
	hq.HandleFunc("/groups", h.HQ.CreateGroup).Methods(http.MethodPost)
	hq.HandleFunc("/groups", h.HQ.ListGroups).Methods(http.MethodGet)
	hq.HandleFunc("/groups/{id}/members", h.HQ.AddMembers).Methods(http.MethodPut)
	hq.HandleFunc("/groups/{id}/members/{member}", h.HQ.RemoveMember).Methods(http.MethodDelete)
	hq.HandleFunc("/users", h.HQ.ListUsers).Methods(http.MethodGet)
	hq.HandleFunc("/users/{id}/verified", h.HQ.VerifyUser).Methods(http.MethodPut)
	hq.HandleFunc("/users/{id}/verified", h.HQ.UnverifyUser).Methods(http.MethodDelete)
	hq.HandleFunc("/logs", h.HQ.ListLogs).Methods(http.MethodGet)
	hq.HandleFunc("/logs/{id}", h.HQ.DeleteLog).Methods(http.MethodDelete)

	return r
}
