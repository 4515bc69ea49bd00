package services

import (
	"context"
	"errors"
	"time"

	"simple-invoice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the GORM implementations: gorm.ErrRecordNotFound on a
// miss, account-scoped uniqueness checks, newest-first not enforced.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

type fakeClientRepo struct {
	clients map[uint]*models.Client
	nextID  uint
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uint]*models.Client), nextID: 1}
}

func (r *fakeClientRepo) Create(_ context.Context, client *models.Client) error {
	for _, c := range r.clients {
		if c.UserID == client.UserID && c.Email == client.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	client.ID = r.nextID
	r.nextID++
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id uint) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *models.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id uint) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) List(_ context.Context, userID uint, _ string, offset, limit int) ([]*models.Client, int64, error) {
	var owned []*models.Client
	for _, c := range r.clients {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (r *fakeClientRepo) ExistsByEmail(_ context.Context, userID uint, email string) (bool, error) {
	for _, c := range r.clients {
		if c.UserID == userID && c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClientRepo) ExistsByPhone(_ context.Context, userID uint, phone string) (bool, error) {
	for _, c := range r.clients {
		if c.UserID == userID && c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

type fakeInvoiceRepo struct {
	invoices map[uint]*models.Invoice
	nextID   uint
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uint]*models.Invoice), nextID: 1}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	for _, i := range r.invoices {
		if i.UserID == invoice.UserID && i.InvoiceNumber == invoice.InvoiceNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	invoice.ID = r.nextID
	r.nextID++
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uint) (*models.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return invoice, nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *models.Invoice) error {
	if _, ok := r.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	invoice, ok := r.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	invoice.Status = status
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uint) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, userID uint, status string, offset, limit int) ([]*models.Invoice, int64, error) {
	var owned []*models.Invoice
	for _, i := range r.invoices {
		if i.UserID != userID {
			continue
		}
		if status != models.StatusFilterAll && i.Status != status {
			continue
		}
		owned = append(owned, i)
	}
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (r *fakeInvoiceRepo) ExistsByNumber(_ context.Context, userID uint, number string) (bool, error) {
	for _, i := range r.invoices {
		if i.UserID == userID && i.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) Count(_ context.Context, userID uint, clientID uint, status string) (int64, error) {
	var count int64
	for _, i := range r.invoices {
		if i.UserID != userID {
			continue
		}
		if clientID != 0 && i.ClientID != clientID {
			continue
		}
		if status != "" && i.Status != status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeInvoiceRepo) FindUnpaidDueBefore(_ context.Context, due time.Time) ([]*models.Invoice, error) {
	var found []*models.Invoice
	for _, i := range r.invoices {
		if i.Status == models.StatusUnpaid && i.DueDate.Before(due) {
			found = append(found, i)
		}
	}
	return found, nil
}

// fakeNotifier records sent mail, optionally failing specific recipients.
type fakeNotifier struct {
	sent   []sentMail
	failTo map[string]bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failTo: make(map[string]bool)}
}

func (n *fakeNotifier) Send(to, subject, body string) error {
	if n.failTo[to] {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
