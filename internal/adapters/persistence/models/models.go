package models

import (
	"time"

	"gorm.io/gorm"

	"simple-invoice/internal/pkg/money"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone      string     `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password   string     `gorm:"size:255;not null" json:"-"`
	IsVerified bool       `gorm:"default:false" json:"is_verified"`

	// Single-use codes. A code is valid only if present, matching and unexpired.
	VerifyCode       *string    `gorm:"size:10" json:"-"`
	VerifyCodeExpiry *time.Time `json:"-"`
	ResetCode        *string    `gorm:"size:10" json:"-"`
	ResetCodeExpiry  *time.Time `json:"-"`

	// SHA256 fingerprint of the one active refresh token.
	// Overwritten on every login, so older sessions die.
	RefreshTokenHash *string `gorm:"size:64" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// ============================================================
// Clients
// ============================================================

// Client represents clients table. Email is unique per owning
// account, not globally.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_clients_owner_email" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:100;not null;uniqueIndex:idx_clients_owner_email" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}

// ============================================================
// Invoices
// ============================================================

// Invoice statuses. "all" is a listing filter sentinel only and is
// never a settable status.
const (
	StatusDraft     = "draft"
	StatusUnpaid    = "unpaid"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"

	StatusFilterAll = "all"
)

// Statuses is the closed set of settable invoice statuses.
var Statuses = []string{StatusDraft, StatusUnpaid, StatusPaid, StatusOverdue, StatusCancelled}

// IsValidStatus reports whether s is a settable status.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidStatusFilter reports whether s may be used as a listing filter.
func IsValidStatusFilter(s string) bool {
	return s == StatusFilterAll || IsValidStatus(s)
}

// Invoice represents invoices table. The invoice number is unique
// within the owning account's invoices, not globally. Subtotal and
// total are derived and never stored.
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index;uniqueIndex:idx_invoices_owner_number" json:"user_id"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	InvoiceNumber string         `gorm:"size:50;not null;uniqueIndex:idx_invoices_owner_number" json:"invoice_number"`
	ProjectName   string         `gorm:"size:200;not null" json:"project_name"`
	Status        string         `gorm:"size:20;not null;default:'draft'" json:"status"`
	Tax           int64          `gorm:"not null;default:0" json:"tax"`
	Currency      string         `gorm:"size:3;not null;default:'NGN'" json:"currency"`
	IssuedDate    time.Time      `gorm:"not null" json:"issued_date"`
	DueDate       time.Time      `gorm:"not null" json:"due_date"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items  []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Client *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents invoice_items table. Quantity and price are
// non-negative; price is in minor currency units.
type InvoiceItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	InvoiceID   uint   `gorm:"not null;index" json:"invoice_id"`
	Description string `gorm:"size:200;not null" json:"description"`
	Quantity    int64  `gorm:"not null" json:"quantity"`
	Price       int64  `gorm:"not null" json:"price"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Lines converts the invoice's items for money calculations.
func (i *Invoice) Lines() []money.Line {
	lines := make([]money.Line, 0, len(i.Items))
	for _, item := range i.Items {
		lines = append(lines, money.Line{Quantity: item.Quantity, Price: item.Price})
	}
	return lines
}

// Subtotal recomputes the sum of quantity*price across line items.
func (i *Invoice) Subtotal() int64 {
	return money.Subtotal(i.Lines())
}

// Total recomputes subtotal plus tax.
func (i *Invoice) Total() int64 {
	return money.Total(i.Lines(), i.Tax)
}

// InvoiceResponse DTO with derived totals attached.
type InvoiceResponse struct {
	ID            uint          `json:"id"`
	ClientID      uint          `json:"client_id"`
	ClientName    string        `json:"client_name,omitempty"`
	ClientEmail   string        `json:"client_email,omitempty"`
	InvoiceNumber string        `json:"invoice_number"`
	ProjectName   string        `json:"project_name"`
	Status        string        `json:"status"`
	Items         []InvoiceItem `json:"items"`
	Tax           int64         `json:"tax"`
	Subtotal      int64         `json:"subtotal"`
	Total         int64         `json:"total"`
	Currency      string        `json:"currency"`
	IssuedDate    time.Time     `json:"issued_date"`
	DueDate       time.Time     `json:"due_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (i *Invoice) ToResponse() *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            i.ID,
		ClientID:      i.ClientID,
		InvoiceNumber: i.InvoiceNumber,
		ProjectName:   i.ProjectName,
		Status:        i.Status,
		Items:         i.Items,
		Tax:           i.Tax,
		Subtotal:      i.Subtotal(),
		Total:         i.Total(),
		Currency:      i.Currency,
		IssuedDate:    i.IssuedDate,
		DueDate:       i.DueDate,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}

	if i.Client != nil {
		resp.ClientName = i.Client.Name
		resp.ClientEmail = i.Client.Email
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Invoice{},
		&InvoiceItem{},
	)
}
