package repositories

import (
	"context"
	"time"

	"simple-invoice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// invoiceRepository implements InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create creates a new invoice with its line items
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// GetByID gets an invoice by ID with items and client
func (r *invoiceRepository) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update replaces the invoice record and its line items atomically
func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range invoice.Items {
			invoice.Items[i].ID = 0
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return tx.Save(invoice).Error
	})
}

// UpdateStatus updates only the status column, relying on the
// database's atomic single-row update under concurrent writers.
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", id).Update("status", status).Error
}

// Delete soft deletes an invoice
func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, id).Error
}

// List lists an account's invoices newest first, optionally filtered
// by status ("all" means no filter).
func (r *invoiceRepository) List(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Invoice, int64, error) {
	var invoices []*models.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", userID)
	if status != "" && status != models.StatusFilterAll {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items").
		Preload("Client").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// ExistsByNumber checks if the account already has an invoice with this
// number. The match is case-sensitive and exact.
func (r *invoiceRepository) ExistsByNumber(ctx context.Context, userID uint, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("user_id = ? AND BINARY invoice_number = ?", userID, number).Count(&count).Error
	return count > 0, err
}

// Count counts an account's invoices, optionally restricted to one
// client (clientID > 0) and one status (non-empty, not "all").
func (r *invoiceRepository) Count(ctx context.Context, userID uint, clientID uint, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", userID)
	if clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}
	if status != "" && status != models.StatusFilterAll {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// FindUnpaidDueBefore returns unpaid invoices across all accounts whose
// due date falls before the given time, with clients preloaded. Used by
// the daily reminder job.
func (r *invoiceRepository) FindUnpaidDueBefore(ctx context.Context, due time.Time) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		Where("status = ? AND due_date < ?", models.StatusUnpaid, due).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
