package handlers

import (
	"errors"
	"strings"
	"time"

	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/core/services"
	"simple-invoice/internal/pkg/pagination"
	"simple-invoice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InvoiceHandler handles invoice ledger endpoints
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceItemRequest represents one line item in a request body
type InvoiceItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
}

// InvoiceRequest represents invoice create/update request body. Prices
// and tax are in minor currency units.
type InvoiceRequest struct {
	ClientID      uint                 `json:"client_id"`
	InvoiceNumber string               `json:"invoice_number"`
	ProjectName   string               `json:"project_name"`
	Items         []InvoiceItemRequest `json:"items"`
	Tax           int64                `json:"tax"`
	Currency      string               `json:"currency"`
	IssuedDate    time.Time            `json:"issued_date"`
	DueDate       time.Time            `json:"due_date"`
}

// UpdateInvoiceRequest represents invoice update request body. Omitted
// fields leave the invoice unchanged; an omitted tax stays distinct
// from an explicit zero.
type UpdateInvoiceRequest struct {
	ClientID      uint                 `json:"client_id"`
	InvoiceNumber string               `json:"invoice_number"`
	ProjectName   string               `json:"project_name"`
	Items         []InvoiceItemRequest `json:"items"`
	Tax           *int64               `json:"tax"`
	Currency      string               `json:"currency"`
	IssuedDate    time.Time            `json:"issued_date"`
	DueDate       time.Time            `json:"due_date"`
}

// UpdateStatusRequest represents status update request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// toItemInputs converts request items, preserving nil (absent) versus
// empty (clear all items).
func toItemInputs(items []InvoiceItemRequest) []services.InvoiceItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]services.InvoiceItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, services.InvoiceItemInput{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return inputs
}

// Create creates an invoice in draft status
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InvoiceRequest true "Invoice data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ClientID == 0 {
		return response.BadRequest(c, "Client ID is required")
	}
	if req.InvoiceNumber == "" {
		return response.BadRequest(c, "Invoice number is required")
	}
	if req.DueDate.IsZero() {
		return response.BadRequest(c, "Due date is required")
	}

	input := &services.CreateInvoiceInput{
		ClientID:      req.ClientID,
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		ProjectName:   strings.TrimSpace(req.ProjectName),
		Items:         toItemInputs(req.Items),
		Tax:           req.Tax,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		IssuedDate:    req.IssuedDate,
		DueDate:       req.DueDate,
	}

	invoice, err := h.invoiceService.Create(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Items must have a description, non-negative quantity and price")
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this client")
		case errors.Is(err, domain.ErrInvoiceAlreadyExists):
			return response.Conflict(c, "Invoice number already exists")
		default:
			return response.InternalServerError(c, "Failed to create invoice")
		}
	}

	return response.Created(c, "Invoice created successfully", invoice.ToResponse())
}

// Get gets one owned invoice with items, client and derived totals
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	invoice, err := h.invoiceService.GetByID(c.Context(), userID, invoiceID)
	if err != nil {
		return h.mapInvoiceError(c, err, "Failed to get invoice")
	}

	return response.Success(c, "Invoice retrieved successfully", invoice.ToResponse())
}

// Update updates one owned invoice; omitted fields are left unchanged
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Param body body UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	var req UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateInvoiceInput{
		ClientID:      req.ClientID,
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		ProjectName:   strings.TrimSpace(req.ProjectName),
		Items:         toItemInputs(req.Items),
		Tax:           req.Tax,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		IssuedDate:    req.IssuedDate,
		DueDate:       req.DueDate,
	}

	invoice, err := h.invoiceService.Update(c.Context(), userID, invoiceID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Items must have a description, non-negative quantity and price")
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrInvoiceAlreadyExists):
			return response.Conflict(c, "Invoice number already exists")
		default:
			return h.mapInvoiceError(c, err, "Failed to update invoice")
		}
	}

	return response.Success(c, "Invoice updated successfully", invoice.ToResponse())
}

// UpdateStatus moves one owned invoice through the status machine
// @Summary Update invoice status
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))

	if err := h.invoiceService.UpdateStatus(c.Context(), userID, invoiceID, status); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return response.BadRequest(c,
				"Status must be one of: "+strings.Join(models.Statuses, ", "))
		}
		return h.mapInvoiceError(c, err, "Failed to update invoice status")
	}

	return response.Success(c, "Invoice status updated successfully", fiber.Map{
		"status": status,
	})
}

// Delete deletes one owned invoice
// @Summary Delete invoice
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	if err := h.invoiceService.Delete(c.Context(), userID, invoiceID); err != nil {
		return h.mapInvoiceError(c, err, "Failed to delete invoice")
	}

	return response.Success(c, "Invoice deleted successfully", nil)
}

// List lists the account's invoices newest first, filtered by status
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param status query string false "Status filter (draft, unpaid, paid, overdue, cancelled or all)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	status := strings.ToLower(strings.TrimSpace(c.Query("status", models.StatusFilterAll)))

	invoices, total, err := h.invoiceService.List(c.Context(), userID, status, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return response.BadRequest(c,
				"Status filter must be one of: "+strings.Join(models.Statuses, ", ")+" or all")
		}
		return response.InternalServerError(c, "Failed to list invoices")
	}

	responses := make([]*models.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responses = append(responses, invoice.ToResponse())
	}

	return response.Paginated(c, "Invoices retrieved successfully", responses, pagination.GetMeta(params, total))
}

// Send mails one owned invoice to its client
// @Summary Send invoice by mail
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	if err := h.invoiceService.SendByMail(c.Context(), userID, invoiceID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return response.NotFound(c, "Invoice has no client to mail")
		}
		return h.mapInvoiceError(c, err, "Failed to send invoice")
	}

	return response.Success(c, "Invoice sent successfully", nil)
}

// Remind mails a payment reminder for one owned unpaid invoice
// @Summary Send payment reminder
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /invoices/{id}/remind [post]
func (h *InvoiceHandler) Remind(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice ID")
	}

	if err := h.invoiceService.SendReminder(c.Context(), userID, invoiceID); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Reminders can only be sent for unpaid invoices")
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Invoice has no client to mail")
		default:
			return h.mapInvoiceError(c, err, "Failed to send reminder")
		}
	}

	return response.Success(c, "Reminder sent successfully", nil)
}

// mapInvoiceError maps the shared invoice error cases
func (h *InvoiceHandler) mapInvoiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return response.NotFound(c, "Invoice not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You do not own this invoice")
	default:
		return response.InternalServerError(c, fallback)
	}
}
