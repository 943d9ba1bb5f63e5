package server

import (
	"chat-relay/auth"
	"chat-relay/services"
	"net/http"
)

type tokenResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Verified bool     `json:"is_verified"`
}

type AuthServer struct {
	authService services.IAuthService
	onError     func(w http.ResponseWriter, err error)
}

func NewAuthServer(authService services.IAuthService, onError func(w http.ResponseWriter, err error)) *AuthServer {
	return &AuthServer{authService: authService, onError: onError}
}

// Signup (POST /api/users/signup)
func (s *AuthServer) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.onError(w, err)
		return
	}
	token, err := s.authService.Signup(req)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{
		Message:     "User created successfully",
		AccessToken: token.String(),
		TokenType:   "bearer",
	})
}

// Login (POST /api/users/login)
func (s *AuthServer) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.onError(w, err)
		return
	}
	token, err := s.authService.Login(req)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Message:     "User logged in successfully",
		AccessToken: token.String(),
		TokenType:   "bearer",
	})
}

// Me (GET /api/users/me)
func (s *AuthServer) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	user, err := s.authService.Me(identity.UserID)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
		Verified: user.Verified,
	})
}
