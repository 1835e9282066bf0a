//go:generate go run go.uber.org/mock/mockgen -source=identity.go -destination=../mocks/mock_identity_service.go -package=mocks
package services

import (
	"fmt"

	"chat-relay/errors"
	"chat-relay/repositories"
)

type IIdentityService interface {
	Verify(userID int64) error
}

// IdentityService confirms that a claimed identity exists in the user store.
type IdentityService struct {
	users repositories.IUserRepository
}

func NewIdentityService(users repositories.IUserRepository) *IdentityService {
	return &IdentityService{users: users}
}

func (s *IdentityService) Verify(userID int64) error {
	if userID <= 0 {
		return errors.ErrInvalidUserID
	}
	exists, err := s.users.UserExists(userID)
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}
	if !exists {
		return errors.ErrUserNotFound
	}
	return nil
}
