package repositories

import (
	"context"
	"time"

	"simple-invoice/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// ClientRepository defines client repository interface.
// Every query is scoped to the owning account.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, userID uint, search string, offset, limit int) ([]*models.Client, int64, error)
	ExistsByEmail(ctx context.Context, userID uint, email string) (bool, error)
	ExistsByPhone(ctx context.Context, userID uint, phone string) (bool, error)
}

// InvoiceRepository defines invoice repository interface
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uint) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Invoice, int64, error)
	ExistsByNumber(ctx context.Context, userID uint, number string) (bool, error)
	Count(ctx context.Context, userID uint, clientID uint, status string) (int64, error)
	FindUnpaidDueBefore(ctx context.Context, due time.Time) ([]*models.Invoice, error)
}
