package services

import (
	"context"
	"log"
	"time"

	"simple-invoice/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// reminderWindow is how far ahead of the due date reminders go out.
const reminderWindow = 3 * 24 * time.Hour

// ReminderService runs the daily scan over the invoice ledger. Its
// lifecycle is independent of the HTTP server.
type ReminderService struct {
	invoiceRepo repositories.InvoiceRepository
	notifier    Notifier
	cron        *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(invoiceRepo repositories.InvoiceRepository, notifier Notifier) *ReminderService {
	return &ReminderService{
		invoiceRepo: invoiceRepo,
		notifier:    notifier,
		cron:        cron.New(),
	}
}

// Start schedules the daily run at 08:30
func (s *ReminderService) Start() {
	if _, err := s.cron.AddFunc("30 8 * * *", s.Run); err != nil {
		log.Printf("❌ Failed to schedule reminder job: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily at 08:30)")
}

// Stop stops the scheduler. Running jobs are left to finish.
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("🛑 ReminderService stopped")
}

// Run scans unpaid invoices due within the reminder window (or already
// past due) and mails one reminder per invoice. Each send is isolated:
// a failure is logged and skipped, never fatal to the batch, and not
// retried until the next run. Zero eligible invoices is a no-op.
func (s *ReminderService) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	invoices, err := s.invoiceRepo.FindUnpaidDueBefore(ctx, time.Now().Add(reminderWindow))
	if err != nil {
		log.Printf("❌ Reminder scan failed: %v", err)
		return
	}
	if len(invoices) == 0 {
		return
	}

	sent, failed, skipped := 0, 0, 0
	for _, invoice := range invoices {
		if invoice.Client == nil {
			skipped++
			continue
		}

		if err := s.notifier.Send(invoice.Client.Email, reminderSubject(invoice), reminderBody(invoice)); err != nil {
			log.Printf("❌ Reminder for invoice %s to %s failed: %v",
				invoice.InvoiceNumber, invoice.Client.Email, err)
			failed++
			continue
		}
		sent++
	}

	log.Printf("📅 Reminder run: %d eligible, %d sent, %d failed, %d skipped",
		len(invoices), sent, failed, skipped)
}
