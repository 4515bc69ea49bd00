package repositories

import (
	"context"

	"simple-invoice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID gets a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Update updates a client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete soft deletes a client
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

// List lists an account's clients newest first, with optional
// case-insensitive search over name and email.
func (r *clientRepository) List(ctx context.Context, userID uint, search string, offset, limit int) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Client{}).Where("user_id = ?", userID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// ExistsByEmail checks if the account already has a client with this email
func (r *clientRepository) ExistsByEmail(ctx context.Context, userID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("user_id = ? AND email = ?", userID, email).Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if the account already has a client with this phone
func (r *clientRepository) ExistsByPhone(ctx context.Context, userID uint, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("user_id = ? AND phone = ?", userID, phone).Count(&count).Error
	return count > 0, err
}
