package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/config"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/pkg/money"

	"gorm.io/gorm"
)

// InvoiceService handles the invoice ledger: CRUD, the status machine
// and outbound invoice mail
type InvoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
	notifier    Notifier
	cfg         *config.Config
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	clientRepo repositories.ClientRepository,
	notifier Notifier,
	cfg *config.Config,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// InvoiceItemInput represents one line item. Price is in minor
// currency units.
type InvoiceItemInput struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
}

// CreateInvoiceInput represents invoice creation input
type CreateInvoiceInput struct {
	ClientID      uint               `json:"client_id"`
	InvoiceNumber string             `json:"invoice_number"`
	ProjectName   string             `json:"project_name"`
	Items         []InvoiceItemInput `json:"items"`
	Tax           int64              `json:"tax"`
	Currency      string             `json:"currency"`
	IssuedDate    time.Time          `json:"issued_date"`
	DueDate       time.Time          `json:"due_date"`
}

// UpdateInvoiceInput represents an invoice update. Omitted fields are
// left unchanged: a nil Items slice keeps the existing line items (an
// empty non-nil slice clears them), a nil Tax keeps the stored tax.
// Status is not mutable here; that goes through UpdateStatus.
type UpdateInvoiceInput struct {
	ClientID      uint               `json:"client_id"`
	InvoiceNumber string             `json:"invoice_number"`
	ProjectName   string             `json:"project_name"`
	Items         []InvoiceItemInput `json:"items"`
	Tax           *int64             `json:"tax"`
	Currency      string             `json:"currency"`
	IssuedDate    time.Time          `json:"issued_date"`
	DueDate       time.Time          `json:"due_date"`
}

// validateItems rejects negative quantities, negative prices and empty
// descriptions before anything is persisted.
func validateItems(items []InvoiceItemInput) error {
	for _, item := range items {
		if item.Description == "" || item.Quantity < 0 || item.Price < 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// Create creates an invoice in draft status. The referenced client must
// exist and belong to the requesting account, and the invoice number
// must be unused by that account. Nothing is persisted before every
// check passes.
func (s *InvoiceService) Create(ctx context.Context, userID uint, input *CreateInvoiceInput) (*models.Invoice, error) {
	// 1. Validate tax and line items
	if input.Tax < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	// 2. The client must exist and be owned by the requester
	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	if err := authorize(userID, client.UserID); err != nil {
		return nil, err
	}

	// 3. Invoice number must be unused within the account
	exists, err := s.invoiceRepo.ExistsByNumber(ctx, userID, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrInvoiceAlreadyExists
	}

	currency := input.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}

	issued := input.IssuedDate
	if issued.IsZero() {
		issued = time.Now()
	}

	// 4. Build and persist; status is always draft on creation
	invoice := &models.Invoice{
		UserID:        userID,
		ClientID:      client.ID,
		InvoiceNumber: input.InvoiceNumber,
		ProjectName:   input.ProjectName,
		Status:        models.StatusDraft,
		Tax:           input.Tax,
		Currency:      currency,
		IssuedDate:    issued,
		DueDate:       input.DueDate,
		Items:         toItems(input.Items),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrInvoiceAlreadyExists
		}
		return nil, err
	}

	invoice.Client = client

	log.Printf("✅ Invoice created: %s (owner %d)", invoice.InvoiceNumber, userID)
	return invoice, nil
}

// GetByID gets an owned invoice with items and client
func (s *InvoiceService) GetByID(ctx context.Context, userID, invoiceID uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	if err := authorize(userID, invoice.UserID); err != nil {
		return nil, err
	}

	return invoice, nil
}

// Update updates an owned invoice; omitted fields keep their stored
// values. Changing the number re-checks per-account uniqueness;
// changing the client re-checks ownership of the new client. Status is
// left as is.
func (s *InvoiceService) Update(ctx context.Context, userID, invoiceID uint, input *UpdateInvoiceInput) (*models.Invoice, error) {
	if input.Tax != nil && *input.Tax < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Items != nil {
		if err := validateItems(input.Items); err != nil {
			return nil, err
		}
	}

	invoice, err := s.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if input.InvoiceNumber != "" && input.InvoiceNumber != invoice.InvoiceNumber {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, userID, input.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrInvoiceAlreadyExists
		}
		invoice.InvoiceNumber = input.InvoiceNumber
	}

	if input.ClientID != 0 && input.ClientID != invoice.ClientID {
		client, err := s.clientRepo.GetByID(ctx, input.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrClientNotFound
			}
			return nil, err
		}
		if err := authorize(userID, client.UserID); err != nil {
			return nil, err
		}
		invoice.ClientID = client.ID
		invoice.Client = client
	}

	if input.ProjectName != "" {
		invoice.ProjectName = input.ProjectName
	}
	if input.Currency != "" {
		invoice.Currency = input.Currency
	}
	if !input.IssuedDate.IsZero() {
		invoice.IssuedDate = input.IssuedDate
	}
	if !input.DueDate.IsZero() {
		invoice.DueDate = input.DueDate
	}
	if input.Tax != nil {
		invoice.Tax = *input.Tax
	}
	if input.Items != nil {
		invoice.Items = toItems(input.Items)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrInvoiceAlreadyExists
		}
		return nil, err
	}

	return invoice, nil
}

// UpdateStatus moves an owned invoice through the status machine. Only
// members of the closed status set are accepted; the listing sentinel
// "all" is not a settable status.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, invoiceID uint, status string) error {
	if !models.IsValidStatus(status) {
		return domain.ErrInvalidStatus
	}

	invoice, err := s.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, status); err != nil {
		return err
	}

	log.Printf("✅ Invoice %s status: %s → %s", invoice.InvoiceNumber, invoice.Status, status)
	return nil
}

// Delete deletes an owned invoice
func (s *InvoiceService) Delete(ctx context.Context, userID, invoiceID uint) error {
	invoice, err := s.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, invoice.ID); err != nil {
		return err
	}

	log.Printf("✅ Invoice deleted: %s (owner %d)", invoice.InvoiceNumber, userID)
	return nil
}

// List lists the account's invoices newest first. The status filter
// accepts the closed set plus the sentinel "all" (no filter).
func (s *InvoiceService) List(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Invoice, int64, error) {
	if status == "" {
		status = models.StatusFilterAll
	}
	if !models.IsValidStatusFilter(status) {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.invoiceRepo.List(ctx, userID, status, offset, limit)
}

// SendByMail mails an owned invoice's summary to its client
func (s *InvoiceService) SendByMail(ctx context.Context, userID, invoiceID uint) error {
	invoice, err := s.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Client == nil {
		return domain.ErrClientNotFound
	}

	subject := fmt.Sprintf("Invoice %s for %s", invoice.InvoiceNumber, invoice.ProjectName)
	body := fmt.Sprintf(
		"Hello %s,\n\nInvoice %s for %s totals %s %s and is due on %s.\n\nThank you!",
		invoice.Client.Name,
		invoice.InvoiceNumber,
		invoice.ProjectName,
		invoice.Currency,
		money.ToDecimal(invoice.Total()),
		invoice.DueDate.Format("02 Jan 2006"),
	)

	if err := s.notifier.Send(invoice.Client.Email, subject, body); err != nil {
		log.Printf("❌ Failed to mail invoice %s to %s: %v", invoice.InvoiceNumber, invoice.Client.Email, err)
		return domain.ErrInternalServer
	}

	log.Printf("✅ Invoice %s mailed to %s", invoice.InvoiceNumber, invoice.Client.Email)
	return nil
}

// SendReminder mails a payment reminder for an owned unpaid invoice
func (s *InvoiceService) SendReminder(ctx context.Context, userID, invoiceID uint) error {
	invoice, err := s.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != models.StatusUnpaid {
		return domain.ErrInvalidStatus
	}
	if invoice.Client == nil {
		return domain.ErrClientNotFound
	}

	if err := s.notifier.Send(invoice.Client.Email, reminderSubject(invoice), reminderBody(invoice)); err != nil {
		log.Printf("❌ Failed to mail reminder for %s to %s: %v", invoice.InvoiceNumber, invoice.Client.Email, err)
		return domain.ErrInternalServer
	}

	log.Printf("✅ Reminder for %s mailed to %s", invoice.InvoiceNumber, invoice.Client.Email)
	return nil
}

// reminderSubject and reminderBody are shared with the daily job.
func reminderSubject(invoice *models.Invoice) string {
	return fmt.Sprintf("Reminder: Invoice for %s", invoice.ProjectName)
}

func reminderBody(invoice *models.Invoice) string {
	days := int(time.Until(invoice.DueDate).Hours() / 24)
	due := fmt.Sprintf("is due in %d days", days)
	if days < 0 {
		due = fmt.Sprintf("was due %d days ago", -days)
	} else if days == 0 {
		due = "is due today"
	}

	name := ""
	if invoice.Client != nil {
		name = invoice.Client.Name
	}

	return fmt.Sprintf(
		"Hello %s! This is a reminder that your invoice %s for %s with total amount of %s %s %s. Please pay it as soon as possible. Thank you!",
		name,
		invoice.InvoiceNumber,
		invoice.ProjectName,
		invoice.Currency,
		money.ToDecimal(invoice.Total()),
		due,
	)
}

// toItems converts input line items to models
func toItems(inputs []InvoiceItemInput) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			Price:       in.Price,
		})
	}
	return items
}
