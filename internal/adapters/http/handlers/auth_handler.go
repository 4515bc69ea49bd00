package handlers

import (
	"errors"
	"strings"
	"time"

	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/config"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/core/services"
	"simple-invoice/internal/pkg/password"
	"simple-invoice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest represents email verification request body
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// RefreshRequest represents refresh request body (tokens may also come
// from cookies)
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles account registration
// @Summary Register new account
// @Description Register a new account and send a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone is required")
	}
	if !password.ValidatePassword(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists),
			errors.Is(err, domain.ErrPhoneAlreadyExists):
			return response.Conflict(c, "Email address or phone already exists")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User created successfully", user)
}

// VerifyEmail handles email verification
// @Summary Verify email address
// @Description Consume a verification code and mark the account verified
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyRequest true "Verification data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	err := h.authService.VerifyEmail(c.Context(), strings.TrimSpace(req.Email), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User with email address not found")
		case errors.Is(err, domain.ErrAlreadyVerified):
			return response.BadRequest(c, "User already verified")
		case errors.Is(err, domain.ErrInvalidCode):
			return response.BadRequest(c, "Invalid verification code")
		case errors.Is(err, domain.ErrCodeExpired):
			return response.BadRequest(c, "Verification code has expired")
		default:
			return response.InternalServerError(c, "Failed to verify user")
		}
	}

	return response.Success(c, "User verified successfully", nil)
}

// ResendVerificationCode handles verification code resend
// @Summary Resend verification code
// @Description Issue a fresh verification code to an unverified account
// @Tags Auth
// @Accept json
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/resend-code/{email} [post]
func (h *AuthHandler) ResendVerificationCode(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return response.BadRequest(c, "Email is required")
	}

	err := h.authService.ResendVerificationCode(c.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User with email address not found")
		case errors.Is(err, domain.ErrAlreadyVerified):
			return response.BadRequest(c, "User already verified")
		default:
			return response.InternalServerError(c, "Failed to resend verification code")
		}
	}

	return response.Success(c, "Verification code resent successfully", nil)
}

// Login handles login
// @Summary Login
// @Description Authenticate an account and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email address or password")
		case errors.Is(err, domain.ErrUserNotVerified):
			return response.Unauthorized(c, "Email address is not verified")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "User logged in successfully", result)
}

// Refresh handles access token refresh
// @Summary Refresh access token
// @Description Exchange a valid refresh token for a new access token. The presented access token may be expired; only its signature is checked.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	accessToken := middleware.ExtractToken(c)
	if accessToken == "" {
		return response.Unauthorized(c, "Access token required")
	}

	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	newAccessToken, err := h.authService.Refresh(c.Context(), accessToken, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenMismatch):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token does not match active session")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid token")
		case errors.Is(err, domain.ErrUserNotVerified):
			return response.Unauthorized(c, "Email address is not verified")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.Unauthorized(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAccessCookie(c, newAccessToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": newAccessToken,
	})
}

// ForgotPassword handles password reset initiation
// @Summary Forgot password
// @Description Send a password reset code to a verified account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account email"
// @Success 202 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	err := h.authService.ForgotPassword(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User with email address not found")
		case errors.Is(err, domain.ErrUserNotVerified):
			return response.BadRequest(c, "Email address is not verified")
		default:
			return response.InternalServerError(c, "Failed to send reset code")
		}
	}

	return response.Accepted(c, "Password reset code sent to email address")
}

// ResetPassword handles password reset completion
// @Summary Reset password
// @Description Consume a reset code and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}
	if !password.ValidatePassword(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	err := h.authService.ResetPassword(c.Context(), strings.TrimSpace(req.Email), req.Code, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User with email address not found")
		case errors.Is(err, domain.ErrInvalidCode):
			return response.BadRequest(c, "Invalid password reset code")
		case errors.Is(err, domain.ErrCodeExpired):
			return response.BadRequest(c, "Password reset code has expired")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// Logout handles logout
// @Summary Logout
// @Description Clear the active session and cookies
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if userID, ok := middleware.UserID(c); ok {
		_ = h.authService.Logout(c.Context(), userID)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// setAccessCookie sets the access token cookie only
func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
