package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email address already exists")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	ErrInvalidCredentials = errors.New("invalid email address or password")
	ErrUserNotVerified    = errors.New("user not verified")
	ErrAlreadyVerified    = errors.New("user already verified")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeExpired        = errors.New("code has expired")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenMismatch      = errors.New("token does not match active session")
)

// Client errors
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client already exists")
)

// Invoice errors
var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceAlreadyExists = errors.New("invoice with same number already exists")
	ErrInvalidStatus        = errors.New("invalid invoice status")
)
