package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range Statuses {
		assert.True(t, IsValidStatus(status), status)
	}

	assert.False(t, IsValidStatus("all"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("PAID"))
	assert.False(t, IsValidStatus("pending"))
}

func TestIsValidStatusFilter(t *testing.T) {
	assert.True(t, IsValidStatusFilter(StatusFilterAll))
	for _, status := range Statuses {
		assert.True(t, IsValidStatusFilter(status), status)
	}

	assert.False(t, IsValidStatusFilter(""))
	assert.False(t, IsValidStatusFilter("pending"))
}

func TestInvoiceTotals(t *testing.T) {
	invoice := &Invoice{
		Tax: 250,
		Items: []InvoiceItem{
			{Description: "Design", Quantity: 2, Price: 1000},
			{Description: "Hosting", Quantity: 1, Price: 500},
		},
	}

	assert.Equal(t, int64(2500), invoice.Subtotal())
	assert.Equal(t, int64(2750), invoice.Total())
}

func TestInvoiceTotalsNoItems(t *testing.T) {
	invoice := &Invoice{Tax: 100}

	assert.Equal(t, int64(0), invoice.Subtotal())
	assert.Equal(t, int64(100), invoice.Total())
}

func TestInvoiceToResponse(t *testing.T) {
	invoice := &Invoice{
		ID:            3,
		ClientID:      9,
		InvoiceNumber: "INV-001",
		ProjectName:   "Website",
		Status:        StatusUnpaid,
		Tax:           250,
		Currency:      "NGN",
		Items: []InvoiceItem{
			{Description: "Design", Quantity: 2, Price: 1000},
			{Description: "Hosting", Quantity: 1, Price: 500},
		},
		Client: &Client{Name: "Acme", Email: "billing@acme.test"},
	}

	resp := invoice.ToResponse()

	assert.Equal(t, int64(2500), resp.Subtotal)
	assert.Equal(t, int64(2750), resp.Total)
	assert.Equal(t, "Acme", resp.ClientName)
	assert.Equal(t, "billing@acme.test", resp.ClientEmail)
	assert.Equal(t, StatusUnpaid, resp.Status)
}

func TestInvoiceToResponseWithoutClient(t *testing.T) {
	resp := (&Invoice{ID: 1}).ToResponse()

	assert.Empty(t, resp.ClientName)
	assert.Empty(t, resp.ClientEmail)
}

func TestUserToResponseHidesSecrets(t *testing.T) {
	code := "123456"
	user := &User{
		ID:         1,
		Name:       "Ada",
		Email:      "ada@example.com",
		Phone:      "08030000000",
		Password:   "hashed",
		IsVerified: true,
		VerifyCode: &code,
	}

	resp := user.ToResponse()

	assert.Equal(t, "Ada", resp.Name)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.True(t, resp.IsVerified)
}
