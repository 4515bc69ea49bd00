package services

import (
	"context"
	"errors"
	"log"

	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/core/domain"

	"gorm.io/gorm"
)

// ClientService handles billable contact records, always scoped to the
// requesting account
type ClientService struct {
	clientRepo repositories.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repositories.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput represents client create/update input
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Create creates a client owned by the requesting account. Email and
// phone must be unused within that account's clients.
func (s *ClientService) Create(ctx context.Context, userID uint, input *ClientInput) (*models.Client, error) {
	exists, err := s.clientRepo.ExistsByEmail(ctx, userID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrClientAlreadyExists
	}

	if input.Phone != "" {
		exists, err = s.clientRepo.ExistsByPhone(ctx, userID, input.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrClientAlreadyExists
		}
	}

	client := &models.Client{
		UserID: userID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrClientAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ Client created: %s (owner %d)", client.Email, userID)
	return client, nil
}

// GetByID gets an owned client
func (s *ClientService) GetByID(ctx context.Context, userID, clientID uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	if err := authorize(userID, client.UserID); err != nil {
		return nil, err
	}

	return client, nil
}

// Update updates an owned client
func (s *ClientService) Update(ctx context.Context, userID, clientID uint, input *ClientInput) (*models.Client, error) {
	client, err := s.GetByID(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != client.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, userID, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrClientAlreadyExists
		}
		client.Email = input.Email
	}
	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Phone != "" {
		client.Phone = input.Phone
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrClientAlreadyExists
		}
		return nil, err
	}

	return client, nil
}

// Delete deletes an owned client
func (s *ClientService) Delete(ctx context.Context, userID, clientID uint) error {
	client, err := s.GetByID(ctx, userID, clientID)
	if err != nil {
		return err
	}

	if err := s.clientRepo.Delete(ctx, client.ID); err != nil {
		return err
	}

	log.Printf("✅ Client deleted: %d (owner %d)", clientID, userID)
	return nil
}

// List lists the account's clients newest first, optionally filtered by
// a case-insensitive search over name and email
func (s *ClientService) List(ctx context.Context, userID uint, search string, offset, limit int) ([]*models.Client, int64, error) {
	return s.clientRepo.List(ctx, userID, search, offset, limit)
}
