package handlers

import (
	"errors"

	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/core/services"
	"simple-invoice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Invoices returns per-status invoice counts for the account
// @Summary Invoice report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/invoices [get]
func (h *ReportHandler) Invoices(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	report, err := h.reportService.InvoiceReport(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate report")
	}

	return response.Success(c, "Invoice report generated successfully", report)
}

// Client returns per-status invoice counts for one owned client
// @Summary Client invoice report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/clients/{id} [get]
func (h *ReportHandler) Client(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	report, err := h.reportService.ClientInvoiceReport(c.Context(), userID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this client")
		default:
			return response.InternalServerError(c, "Failed to generate report")
		}
	}

	return response.Success(c, "Client invoice report generated successfully", report)
}
