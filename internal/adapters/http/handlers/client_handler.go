package handlers

import (
	"errors"
	"strconv"
	"strings"

	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/core/services"
	"simple-invoice/internal/pkg/pagination"
	"simple-invoice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles client directory endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ClientRequest represents client create/update request body
type ClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Create creates a client
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ClientRequest true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	input := &services.ClientInput{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}

	client, err := h.clientService.Create(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrClientAlreadyExists) {
			return response.Conflict(c, "Client with email address or phone already exists")
		}
		return response.InternalServerError(c, "Failed to create client")
	}

	return response.Created(c, "Client created successfully", client)
}

// Get gets one owned client
// @Summary Get client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	client, err := h.clientService.GetByID(c.Context(), userID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this client")
		default:
			return response.InternalServerError(c, "Failed to get client")
		}
	}

	return response.Success(c, "Client retrieved successfully", client)
}

// Update updates one owned client
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param body body ClientRequest true "Client data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.ClientInput{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}

	client, err := h.clientService.Update(c.Context(), userID, clientID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this client")
		case errors.Is(err, domain.ErrClientAlreadyExists):
			return response.Conflict(c, "Client with email address already exists")
		default:
			return response.InternalServerError(c, "Failed to update client")
		}
	}

	return response.Success(c, "Client updated successfully", client)
}

// Delete deletes one owned client
// @Summary Delete client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	if err := h.clientService.Delete(c.Context(), userID, clientID); err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not own this client")
		default:
			return response.InternalServerError(c, "Failed to delete client")
		}
	}

	return response.Success(c, "Client deleted successfully", nil)
}

// List lists the account's clients newest first
// @Summary List clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param search query string false "Case-insensitive match on name or email"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	search := strings.TrimSpace(c.Query("search"))

	clients, total, err := h.clientService.List(c.Context(), userID, search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Paginated(c, "Clients retrieved successfully", clients, pagination.GetMeta(params, total))
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
