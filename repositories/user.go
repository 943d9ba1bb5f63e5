//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-relay/errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string, roles []string) (User, error)
	GetUserByUsername(username string) (User, error)
	GetUserByID(id string) (User, error)
	ListUsers() ([]User, error)
	SetVerified(id string, verified bool) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the repository representation of an account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	// Verified is set by an admin, new accounts start unverified.
	Verified bool
}

func userKey(username string) []byte { return []byte("user:" + username) }
func emailKey(email string) []byte   { return []byte("email:" + email) }
func userIDKey(id string) []byte     { return []byte("uid:" + id) }

// CreateUser persists an already hashed account.
// Username and email are both unique; the first conflict found wins.
func (u UserRepository) CreateUser(username, email, hashedPassword string, roles []string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(username)); err == nil {
			return fmt.Errorf("%w: username %q", errors.ErrUserAlreadyExists, username)
		}
		if _, err := txn.Get(emailKey(email)); err == nil {
			return fmt.Errorf("%w: email %q", errors.ErrUserAlreadyExists, email)
		}
		if err := txn.Set(userKey(username), encodeUser(user)); err != nil {
			return err
		}
		if err := txn.Set(emailKey(email), []byte(username)); err != nil {
			return err
		}
		return txn.Set(userIDKey(user.ID), []byte(username))
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUserByUsername(username string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = loadUser(txn, username)
		return err
	})
	return user, err
}

func (u UserRepository) GetUserByID(id string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		username, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = loadUser(txn, string(username))
		return err
	})
	return user, err
}

// ListUsers returns every account ordered by username.
func (u UserRepository) ListUsers() ([]User, error) {
	var users []User
	err := u.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = userKey("")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				user, err := decodeUser(val)
				if err != nil {
					return err
				}
				users = append(users, user)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

// SetVerified updates the verification flag of the account with the given id.
func (u UserRepository) SetVerified(id string, verified bool) (User, error) {
	var user User
	err := u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		username, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if user, err = loadUser(txn, string(username)); err != nil {
			return err
		}
		user.Verified = verified
		return txn.Set(userKey(user.Username), encodeUser(user))
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func loadUser(txn *badger.Txn, username string) (User, error) {
	item, err := txn.Get(userKey(username))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	var user User
	err = item.Value(func(val []byte) error {
		user, err = decodeUser(val)
		return err
	})
	return user, err
}
