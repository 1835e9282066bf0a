//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chat-relay/domain"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(name string) (domain.User, error)
	UserExists(id int64) (bool, error)
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := db.GetSequence([]byte("seq:user"), 64)
	if err != nil {
		return nil, fmt.Errorf("user sequence: %w", err)
	}
	return &UserRepository{db: db, seq: seq}, nil
}

// Close releases the id sequence. Unclaimed ids in the current lease are
// lost, which only leaves gaps, never collisions.
func (u *UserRepository) Close() error {
	return u.seq.Release()
}

// userRecord is the on-disk representation of a user.
type userRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

func userKey(id int64) []byte {
	return []byte(fmt.Sprintf("user:%019d", id))
}

// CreateUser assigns the next id and persists the user.
// Sequences start at zero, so ids are shifted by one to stay positive.
func (u *UserRepository) CreateUser(name string) (domain.User, error) {
	next, err := u.seq.Next()
	if err != nil {
		return domain.User{}, fmt.Errorf("next user id: %w", err)
	}
	user := domain.User{ID: int64(next) + 1, Name: name, CreatedAt: time.Now().UTC()}

	data, err := json.Marshal(userRecord{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Unix(),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), data)
	})
	return user, err
}

// UserExists reports whether the id belongs to a stored user.
func (u *UserRepository) UserExists(id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	err := u.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(userKey(id))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}
