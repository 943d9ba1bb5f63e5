package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "Correct-Horse-Battery-9"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "$bcrypt$whatever")
	req.Error(err)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{"Valid request", SignupRequest{"alice", "alice@example.com", "ComplexPass123!"}, false},
		{"Invalid email", SignupRequest{"alice", "notanemail", "ComplexPass123!"}, true},
		{"Username too short", SignupRequest{"al", "alice@example.com", "ComplexPass123!"}, true},
		{"Username with spaces", SignupRequest{"al ice", "alice@example.com", "ComplexPass123!"}, true},
		{"Password too short", SignupRequest{"alice", "alice@example.com", "Short1!"}, true},
		{"Missing digit", SignupRequest{"alice", "alice@example.com", "NoDigitPass!"}, true},
		{"Missing special char", SignupRequest{"alice", "alice@example.com", "NoSpecialChar123"}, true},
		{"Missing uppercase", SignupRequest{"alice", "alice@example.com", "nouppercase123!"}, true},
		{"Password too long", SignupRequest{"alice", "alice@example.com", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.req)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidPassword)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	req := require.New(t)
	tokens := NewTokens("test-secret", time.Hour)

	token, err := tokens.Generate("u-1", "alice", []string{domain.RoleUser, domain.RoleAdmin})
	req.NoError(err)

	claims, err := tokens.Validate(token)
	req.NoError(err)
	identity := claims.Identity()
	req.Equal(domain.UserID("u-1"), identity.UserID)
	req.Equal("alice", identity.Username)
	req.True(identity.HasRole(domain.RoleAdmin))
}

func TestTokens_Rejected(t *testing.T) {
	req := require.New(t)
	tokens := NewTokens("test-secret", time.Hour)

	other, err := NewTokens("another-secret", time.Hour).Generate("u-1", "alice", nil)
	req.NoError(err)
	_, err = tokens.Validate(other)
	req.Error(err)

	expired, err := NewTokens("test-secret", -time.Minute).Generate("u-1", "alice", nil)
	req.NoError(err)
	_, err = tokens.Validate(expired)
	req.Error(err)

	_, err = tokens.Validate("not-a-jwt")
	req.Error(err)
}

func TestMiddleware(t *testing.T) {
	req := require.New(t)
	tokens := NewTokens("test-secret", time.Hour)
	onError := func(w http.ResponseWriter, err error) {
		http.Error(w, err.Error(), errors.HTTPStatus(err))
	}
	var seen domain.Identity
	handler := tokens.Middleware(onError)(RequireRole(domain.RoleAdmin, onError)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = IdentityFrom(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})))

	call := func(token string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/hq/groups", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	req.Equal(http.StatusUnauthorized, call(""))
	req.Equal(http.StatusUnauthorized, call("garbage"))

	user, err := tokens.Generate("u-1", "bob", []string{domain.RoleUser})
	req.NoError(err)
	req.Equal(http.StatusForbidden, call(user))

	admin, err := tokens.Generate("u-2", "root", []string{domain.RoleAdmin})
	req.NoError(err)
	req.Equal(http.StatusNoContent, call(admin))
	req.Equal(domain.UserID("u-2"), seen.UserID)
}

func TestBearerToken_QueryFallback(t *testing.T) {
	req := require.New(t)
	r := httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil)
	token, ok := BearerToken(r)
	req.True(ok)
	req.Equal("abc", token)

	r.Header.Set("Authorization", "Basic xyz")
	_, ok = BearerToken(r)
	req.False(ok)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
