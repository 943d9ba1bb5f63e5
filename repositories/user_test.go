package repositories

import (
	"chat-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))

	user, err := repository.CreateUser("alice", "alice@example.com", "hash", []string{"user"})
	req.NoError(err)
	req.NotEmpty(user.ID)

	byName, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(user.ID, byName.ID)
	req.Equal("hash", byName.PasswordHash)
	req.Equal([]string{"user"}, byName.Roles)

	byID, err := repository.GetUserByID(user.ID)
	req.NoError(err)
	req.Equal("alice@example.com", byID.Email)

	// Username and email are unique
	_, err = repository.CreateUser("alice", "other@example.com", "hash", nil)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
	_, err = repository.CreateUser("alicia", "alice@example.com", "hash", nil)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	_, err = repository.GetUserByUsername("bob")
	req.ErrorIs(err, errors.ErrUserNotFound)
	_, err = repository.GetUserByID("missing")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_Verification(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))

	bob, err := repository.CreateUser("bob", "bob@example.com", "hash", []string{"user"})
	req.NoError(err)
	req.False(bob.Verified)
	_, err = repository.CreateUser("alice", "alice@example.com", "hash", []string{"user", "admin"})
	req.NoError(err)

	verified, err := repository.SetVerified(bob.ID, true)
	req.NoError(err)
	req.True(verified.Verified)
	req.Equal("bob", verified.Username)

	// The flag is persisted with the rest of the account
	byName, err := repository.GetUserByUsername("bob")
	req.NoError(err)
	req.True(byName.Verified)
	req.Equal("hash", byName.PasswordHash)
	req.Equal(bob.CreatedAt, byName.CreatedAt)

	users, err := repository.ListUsers()
	req.NoError(err)
	req.Len(users, 2)
	req.Equal("alice", users[0].Username)
	req.False(users[0].Verified)
	req.Equal([]string{"user", "admin"}, users[0].Roles)
	req.Equal("bob", users[1].Username)
	req.True(users[1].Verified)

	unverified, err := repository.SetVerified(bob.ID, false)
	req.NoError(err)
	req.False(unverified.Verified)

	_, err = repository.SetVerified("missing", true)
	req.ErrorIs(err, errors.ErrUserNotFound)
}
