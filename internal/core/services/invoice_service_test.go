package services

import (
	"context"
	"testing"
	"time"

	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc         *InvoiceService
	invoiceRepo *fakeInvoiceRepo
	clientRepo  *fakeClientRepo
	notifier    *fakeNotifier
	ownerID     uint
	clientID    uint
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	invoiceRepo := newFakeInvoiceRepo()
	clientRepo := newFakeClientRepo()
	notifier := newFakeNotifier()

	client := &models.Client{UserID: 1, Name: "Acme", Email: "billing@acme.test"}
	require.NoError(t, clientRepo.Create(context.Background(), client))

	return &invoiceFixture{
		svc:         NewInvoiceService(invoiceRepo, clientRepo, notifier, testConfig()),
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		notifier:    notifier,
		ownerID:     1,
		clientID:    client.ID,
	}
}

func (f *invoiceFixture) createInput() *CreateInvoiceInput {
	return &CreateInvoiceInput{
		ClientID:      f.clientID,
		InvoiceNumber: "INV-001",
		ProjectName:   "Website",
		Items: []InvoiceItemInput{
			{Description: "Design", Quantity: 2, Price: 1000},
			{Description: "Hosting", Quantity: 1, Price: 500},
		},
		Tax:     250,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	}
}

func TestCreateInvoiceAlwaysDraft(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, invoice.Status)
	assert.Equal(t, int64(2500), invoice.Subtotal())
	assert.Equal(t, int64(2750), invoice.Total())
	assert.Equal(t, "NGN", invoice.Currency)
	assert.False(t, invoice.IssuedDate.IsZero())
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.ownerID, f.createInput())
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyExists)
}

func TestCreateInvoiceNumberScopedToAccount(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	// Another account can reuse the number, but only against its own client
	otherClient := &models.Client{UserID: 2, Name: "Beta", Email: "beta@acme.test"}
	require.NoError(t, f.clientRepo.Create(context.Background(), otherClient))

	input := f.createInput()
	input.ClientID = otherClient.ID
	_, err = f.svc.Create(context.Background(), 2, input)
	assert.NoError(t, err)
}

func TestCreateInvoiceForeignClient(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.Create(context.Background(), 99, f.createInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Nothing was persisted
	assert.Empty(t, f.invoiceRepo.invoices)
}

func TestCreateInvoiceUnknownClient(t *testing.T) {
	f := newInvoiceFixture(t)

	input := f.createInput()
	input.ClientID = 999
	_, err := f.svc.Create(context.Background(), f.ownerID, input)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestCreateInvoiceInvalidItems(t *testing.T) {
	f := newInvoiceFixture(t)

	cases := []struct {
		name  string
		items []InvoiceItemInput
		tax   int64
	}{
		{"negative quantity", []InvoiceItemInput{{Description: "x", Quantity: -1, Price: 100}}, 0},
		{"negative price", []InvoiceItemInput{{Description: "x", Quantity: 1, Price: -100}}, 0},
		{"empty description", []InvoiceItemInput{{Description: "", Quantity: 1, Price: 100}}, 0},
		{"negative tax", []InvoiceItemInput{{Description: "x", Quantity: 1, Price: 100}}, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := f.createInput()
			input.Items = tc.items
			input.Tax = tc.tax
			_, err := f.svc.Create(context.Background(), f.ownerID, input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetInvoiceOwnership(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), f.ownerID, invoice.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), 2, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.GetByID(context.Background(), f.ownerID, 999)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestUpdateInvoiceReplacesItemsKeepsStatus(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, models.StatusUnpaid))

	noTax := int64(0)
	updated, err := f.svc.Update(context.Background(), f.ownerID, invoice.ID, &UpdateInvoiceInput{
		Items: []InvoiceItemInput{{Description: "Consulting", Quantity: 1, Price: 9000}},
		Tax:   &noTax,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUnpaid, updated.Status)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(9000), updated.Total())
}

func TestUpdateInvoiceRenameOnlyPreservesItemsAndTax(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), f.ownerID, invoice.ID, &UpdateInvoiceInput{
		ProjectName: "Renamed project",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed project", updated.ProjectName)
	assert.Equal(t, "INV-001", updated.InvoiceNumber)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, int64(250), updated.Tax)
	assert.Equal(t, int64(2750), updated.Total())
}

func TestUpdateInvoiceEmptyItemsClears(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	// An explicit empty slice clears the line items; nil leaves them alone
	updated, err := f.svc.Update(context.Background(), f.ownerID, invoice.ID, &UpdateInvoiceInput{
		Items: []InvoiceItemInput{},
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.Equal(t, int64(250), updated.Total())
}

func TestUpdateInvoiceNegativeTax(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	badTax := int64(-1)
	_, err = f.svc.Update(context.Background(), f.ownerID, invoice.ID, &UpdateInvoiceInput{
		Tax: &badTax,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(250), f.invoiceRepo.invoices[invoice.ID].Tax)
}

func TestUpdateInvoiceDuplicateNumber(t *testing.T) {
	f := newInvoiceFixture(t)

	first, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	second := f.createInput()
	second.InvoiceNumber = "INV-002"
	created, err := f.svc.Create(context.Background(), f.ownerID, second)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.ownerID, created.ID, &UpdateInvoiceInput{
		InvoiceNumber: first.InvoiceNumber,
	})
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyExists)
}

func TestUpdateInvoiceForeignNewClient(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	foreign := &models.Client{UserID: 2, Name: "Other", Email: "other@acme.test"}
	require.NoError(t, f.clientRepo.Create(context.Background(), foreign))

	_, err = f.svc.Update(context.Background(), f.ownerID, invoice.ID, &UpdateInvoiceInput{
		ClientID: foreign.ID,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	for _, status := range models.Statuses {
		assert.NoError(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, status))
		assert.Equal(t, status, f.invoiceRepo.invoices[invoice.ID].Status)
	}
}

func TestUpdateStatusRejectsInvalid(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	// "all" is a filter sentinel, never a settable status
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, "all"), domain.ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, "pending"), domain.ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, ""), domain.ErrInvalidStatus)

	assert.Equal(t, models.StatusDraft, f.invoiceRepo.invoices[invoice.ID].Status)
}

func TestUpdateStatusOwnership(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), 2, invoice.ID, models.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListInvoicesStatusFilter(t *testing.T) {
	f := newInvoiceFixture(t)

	first, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	second := f.createInput()
	second.InvoiceNumber = "INV-002"
	_, err = f.svc.Create(context.Background(), f.ownerID, second)
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), f.ownerID, first.ID, models.StatusPaid))

	all, total, err := f.svc.List(context.Background(), f.ownerID, "all", 0, 15)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)

	paid, total, err := f.svc.List(context.Background(), f.ownerID, models.StatusPaid, 0, 15)
	require.NoError(t, err)
	assert.Len(t, paid, 1)
	assert.Equal(t, int64(1), total)

	// Empty status defaults to "all"
	defaulted, _, err := f.svc.List(context.Background(), f.ownerID, "", 0, 15)
	require.NoError(t, err)
	assert.Len(t, defaulted, 2)

	_, _, err = f.svc.List(context.Background(), f.ownerID, "pending", 0, 15)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), 2, invoice.ID), domain.ErrForbidden)
	assert.NoError(t, f.svc.Delete(context.Background(), f.ownerID, invoice.ID))

	_, err = f.svc.GetByID(context.Background(), f.ownerID, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestSendByMail(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.SendByMail(context.Background(), f.ownerID, invoice.ID))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "billing@acme.test", f.notifier.sent[0].To)
	assert.Contains(t, f.notifier.sent[0].Subject, "INV-001")
	assert.Contains(t, f.notifier.sent[0].Body, "27.50")
}

func TestSendReminderOnlyUnpaid(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.Create(context.Background(), f.ownerID, f.createInput())
	require.NoError(t, err)

	// Draft invoices have no reminder
	err = f.svc.SendReminder(context.Background(), f.ownerID, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), f.ownerID, invoice.ID, models.StatusUnpaid))
	require.NoError(t, f.svc.SendReminder(context.Background(), f.ownerID, invoice.ID))

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].Subject, "Reminder")
	assert.Contains(t, f.notifier.sent[0].Body, "INV-001")
}
