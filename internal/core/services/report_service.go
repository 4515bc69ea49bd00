package services

import (
	"context"
	"errors"

	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/core/domain"

	"gorm.io/gorm"
)

// ReportService produces per-status invoice counts, always scoped to
// the requesting account
type ReportService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
}

// NewReportService creates a new report service
func NewReportService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// InvoiceReport represents aggregate invoice counts
type InvoiceReport struct {
	Total          int64 `json:"total_invoice"`
	TotalDraft     int64 `json:"total_draft"`
	TotalUnpaid    int64 `json:"total_unpaid"`
	TotalPaid      int64 `json:"total_paid"`
	TotalOverdue   int64 `json:"total_overdue"`
	TotalCancelled int64 `json:"total_cancelled"`
}

// InvoiceReport counts the account's invoices per status
func (s *ReportService) InvoiceReport(ctx context.Context, userID uint) (*InvoiceReport, error) {
	return s.countByStatus(ctx, userID, 0)
}

// ClientInvoiceReport counts one owned client's invoices per status
func (s *ReportService) ClientInvoiceReport(ctx context.Context, userID, clientID uint) (*InvoiceReport, error) {
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

	return s.countByStatus(ctx, userID, client.ID)
}

func (s *ReportService) countByStatus(ctx context.Context, userID, clientID uint) (*InvoiceReport, error) {
	report := &InvoiceReport{}

	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &report.Total},
		{"draft", &report.TotalDraft},
		{"unpaid", &report.TotalUnpaid},
		{"paid", &report.TotalPaid},
		{"overdue", &report.TotalOverdue},
		{"cancelled", &report.TotalCancelled},
	}

	for _, c := range counts {
		count, err := s.invoiceRepo.Count(ctx, userID, clientID, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = count
	}

	return report, nil
}
