package services

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"fmt"
	"slices"
	"time"
)

type IAuthService interface {
	Signup(req auth.SignupRequest) (Token, error)
	Login(req auth.LoginRequest) (Token, error)
	Me(userID domain.UserID) (repositories.User, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.Tokens
	audit          contract.IAuditLogger
	adminUsernames []string
}

type Token string

func (t Token) String() string {
	return string(t)
}

// NewAuthService builds the account service.
// Accounts signing up with a name listed in adminUsernames get the admin role.
func NewAuthService(repo repositories.IUserRepository, tokens *auth.Tokens,
	audit contract.IAuditLogger, adminUsernames []string) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens, audit: audit, adminUsernames: adminUsernames}
}

func (s *AuthService) Signup(req auth.SignupRequest) (Token, error) {
	// 1. Validate business rules before any expensive cryptographic operation.
	if err := auth.ValidateSignup(req); err != nil {
		return "", err
	}

	// 2. Hash the password using Argon2id.
	// Done in the service layer to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	roles := []string{domain.RoleUser}
	if slices.Contains(s.adminUsernames, req.Username) {
		roles = append(roles, domain.RoleAdmin)
	}

	// 3. Persist the user, ErrUserAlreadyExists propagates on a taken username or email.
	user, err := s.userRepository.CreateUser(req.Username, req.Email, hashedPassword, roles)
	if err != nil {
		return "", err
	}
	s.record(user.Username, domain.ActionSignup)

	return s.issue(user)
}

func (s *AuthService) Login(req auth.LoginRequest) (Token, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return "", err
	}
	user, err := s.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		// Same error whatever failed, to prevent user enumeration.
		return "", errors.ErrInvalidCredentials
	}
	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}
	s.record(user.Username, domain.ActionLogin)

	return s.issue(user)
}

func (s *AuthService) Me(userID domain.UserID) (repositories.User, error) {
	return s.userRepository.GetUserByID(string(userID))
}

func (s *AuthService) issue(user repositories.User) (Token, error) {
	token, err := s.tokens.Generate(user.ID, user.Username, user.Roles)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token(token), nil
}

func (s *AuthService) record(username string, action domain.AuditAction) {
	s.audit.Record(domain.AuditEntry{Username: username, Action: action, Target: username, At: time.Now().UTC()})
}
