package services

import (
	"context"
	"errors"
	"log"

	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles account self-service operations
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserInput represents account update input. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// GetByID gets an account's public profile
func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// Update updates the account profile. Changing email or phone re-checks
// global uniqueness.
func (s *UserService) Update(ctx context.Context, userID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}

	if input.Phone != nil && *input.Phone != user.Phone {
		exists, err := s.userRepo.ExistsByPhone(ctx, *input.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrPhoneAlreadyExists
		}
		user.Phone = *input.Phone
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// ChangePassword requires the old password to verify before accepting
// the new one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(oldPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}

	hashedPassword, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user: %s", user.Email)
	return nil
}

// Delete removes the account. Clients and invoices it owned are not
// cascade-deleted; ownership checks make them unreachable.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ User deleted: ID %d", userID)
	return nil
}
