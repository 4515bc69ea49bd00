package services

import (
	"context"
	"errors"
	"log"
	"time"

	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/config"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/pkg/jwt"
	"simple-invoice/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeTTL bounds how long verification and reset codes stay valid.
const codeTTL = 15 * time.Minute

// AuthService handles registration, verification and the token lifecycle
type AuthService struct {
	userRepo repositories.UserRepository
	notifier Notifier
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, notifier Notifier, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new account, unverified, and mails a
// verification code. The email check runs before the phone check so
// duplicate errors stay deterministic.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	// 1. Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	// 2. Check if phone already exists
	exists, err = s.userRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrPhoneAlreadyExists
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Generate verification code
	code, err := password.GenerateCode(password.CodeLength)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(codeTTL)

	// 5. Create user (still unverified)
	user := &models.User{
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		Password:         hashedPassword,
		IsVerified:       false,
		VerifyCode:       &code,
		VerifyCodeExpiry: &expiry,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two registrations racing on the same email or phone: the
		// unique index wins, we report the same conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	// 6. Send verification code
	if err := s.notifier.Send(user.Email, "Verify your email address",
		"Your Simple Invoice verification code is "+code); err != nil {
		log.Printf("⚠️ Failed to send verification mail to %s: %v", user.Email, err)
	}

	log.Printf("✅ User registered: %s", user.Email)
	return user.ToResponse(), nil
}

// VerifyEmail consumes a verification code. A stale or already-consumed
// code always fails cleanly.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if user.VerifyCode == nil || *user.VerifyCode != code {
		return domain.ErrInvalidCode
	}
	if user.VerifyCodeExpiry != nil && time.Now().After(*user.VerifyCodeExpiry) {
		return domain.ErrCodeExpired
	}

	user.IsVerified = true
	user.VerifyCode = nil
	user.VerifyCodeExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.notifier.Send(user.Email, "Welcome to Simple Invoice",
		"Your email address has been verified. Welcome aboard!"); err != nil {
		log.Printf("⚠️ Failed to send welcome mail to %s: %v", user.Email, err)
	}

	log.Printf("✅ User verified: %s", user.Email)
	return nil
}

// ResendVerificationCode issues a fresh code, invalidating the old one
func (s *AuthService) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := password.GenerateCode(password.CodeLength)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(codeTTL)

	user.VerifyCode = &code
	user.VerifyCodeExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.notifier.Send(user.Email, "Re: Verify your email address",
		"Your Simple Invoice verification code is "+code); err != nil {
		log.Printf("⚠️ Failed to resend verification mail to %s: %v", user.Email, err)
	}

	return nil
}

// Login authenticates an account and issues both tokens. The refresh
// token's fingerprint overwrites whatever was stored before, so only
// one session stays active per account.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check verification
	if !user.IsVerified {
		return nil, domain.ErrUserNotVerified
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Generate tokens
	accessToken, refreshToken, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 5. Store refresh token fingerprint
	tokenHash := password.HashToken(refreshToken)
	user.RefreshTokenHash = &tokenHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// presented access token only proves prior identity, so its expiry is
// deliberately ignored here; its signature is not. The stored refresh
// token is left untouched.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (string, error) {
	// 1. Signature check on the (possibly expired) access token
	claims, err := jwt.ParseAccessTokenAllowExpired(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	// 2. Full validation of the refresh token
	refreshClaims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	// 3. Both tokens must belong to the same account
	if claims.UserID != refreshClaims.UserID {
		return "", domain.ErrTokenInvalid
	}

	// 4. Load the account
	user, err := s.userRepo.GetByID(ctx, refreshClaims.UserID)
	if err != nil {
		return "", domain.ErrUserNotFound
	}

	if !user.IsVerified {
		return "", domain.ErrUserNotVerified
	}

	// 5. The presented refresh token must be the one currently stored.
	// A rotated-out token is invalid even if its signature still checks out.
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != password.HashToken(refreshToken) {
		return "", domain.ErrTokenMismatch
	}

	// 6. Mint a new access token only
	newAccessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Name, user.Email, user.IsVerified,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)
	return newAccessToken, nil
}

// ForgotPassword issues a reset code to a verified account
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !user.IsVerified {
		return domain.ErrUserNotVerified
	}

	code, err := password.GenerateCode(password.CodeLength)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(codeTTL)

	user.ResetCode = &code
	user.ResetCodeExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.notifier.Send(user.Email, "Reset your password",
		"Your Simple Invoice password reset code is "+code); err != nil {
		log.Printf("⚠️ Failed to send reset mail to %s: %v", user.Email, err)
	}

	return nil
}

// ResetPassword consumes a reset code and sets a new password. The
// stored refresh token fingerprint is cleared so old sessions die.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.ResetCode == nil || *user.ResetCode != code {
		return domain.ErrInvalidCode
	}
	if user.ResetCodeExpiry != nil && time.Now().After(*user.ResetCodeExpiry) {
		return domain.ErrCodeExpired
	}

	hashedPassword, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	user.ResetCode = nil
	user.ResetCodeExpiry = nil
	user.RefreshTokenHash = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password reset for user: %s", user.Email)
	return nil
}

// Logout clears the stored refresh token fingerprint
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.RefreshTokenHash = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ User logged out: %s", user.Email)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (string, string, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Name, user.Email, user.IsVerified,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, uuid.New().String(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
