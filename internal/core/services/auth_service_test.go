package services

import (
	"context"
	"testing"
	"time"

	"simple-invoice/internal/config"
	"simple-invoice/internal/core/domain"
	"simple-invoice/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode:  "dev",
		Currency: "NGN",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  5,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeNotifier) {
	userRepo := newFakeUserRepo()
	notifier := newFakeNotifier()
	return NewAuthService(userRepo, notifier, testConfig()), userRepo, notifier
}

func registerInput() *RegisterInput {
	return &RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Phone:    "08030000000",
		Password: "password123",
	}
}

func TestRegisterCreatesUnverifiedUserWithCode(t *testing.T) {
	svc, userRepo, notifier := newAuthFixture()

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.False(t, resp.IsVerified)

	user := userRepo.users[resp.ID]
	require.NotNil(t, user)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerifyCode)
	assert.Len(t, *user.VerifyCode, password.CodeLength)
	assert.NotEqual(t, "password123", user.Password)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ada@example.com", notifier.sent[0].To)
	assert.Contains(t, notifier.sent[0].Body, *user.VerifyCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Phone = "08031111111"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, _, notifier := newAuthFixture()
	notifier.failTo["ada@example.com"] = true

	_, err := svc.Register(context.Background(), registerInput())
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	code := *userRepo.users[resp.ID].VerifyCode

	require.NoError(t, svc.VerifyEmail(context.Background(), "ada@example.com", code))

	user := userRepo.users[resp.ID]
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerifyCode)
	assert.Nil(t, user.VerifyCodeExpiry)

	// A consumed code cannot be replayed
	err = svc.VerifyEmail(context.Background(), "ada@example.com", code)
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	err = svc.VerifyEmail(context.Background(), "ada@example.com", "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user := userRepo.users[resp.ID]
	stale := time.Now().Add(-time.Minute)
	user.VerifyCodeExpiry = &stale

	err = svc.VerifyEmail(context.Background(), "ada@example.com", *user.VerifyCode)
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestVerifyEmailUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture()

	err := svc.VerifyEmail(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResendVerificationCodeReplacesCode(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	oldCode := *userRepo.users[resp.ID].VerifyCode

	require.NoError(t, svc.ResendVerificationCode(context.Background(), "ada@example.com"))

	newCode := *userRepo.users[resp.ID].VerifyCode
	// The old code is invalid once a new one is issued
	if oldCode != newCode {
		err = svc.VerifyEmail(context.Background(), "ada@example.com", oldCode)
		assert.ErrorIs(t, err, domain.ErrInvalidCode)
	}
	assert.NoError(t, svc.VerifyEmail(context.Background(), "ada@example.com", newCode))
}

func registerAndVerify(t *testing.T, svc *AuthService, userRepo *fakeUserRepo) uint {
	t.Helper()
	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	code := *userRepo.users[resp.ID].VerifyCode
	require.NoError(t, svc.VerifyEmail(context.Background(), "ada@example.com", code))
	return resp.ID
}

func TestLogin(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userID := registerAndVerify(t, svc, userRepo)

	result, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, userID, result.User.ID)

	// The session fingerprint is stored
	user := userRepo.users[userID]
	require.NotNil(t, user.RefreshTokenHash)
	assert.Equal(t, password.HashToken(result.RefreshToken), *user.RefreshTokenHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	registerAndVerify(t, svc, userRepo)

	_, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	// Unknown email and wrong password are indistinguishable
	_, err := svc.Login(context.Background(), &LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnverified(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotVerified)
}

func TestLoginSupersedesOldSession(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	registerAndVerify(t, svc, userRepo)

	first, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	// Only the second session's refresh token still works
	_, err = svc.Refresh(context.Background(), first.AccessToken, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenMismatch)

	newAccess, err := svc.Refresh(context.Background(), second.AccessToken, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
}

func TestRefresh(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	registerAndVerify(t, svc, userRepo)

	result, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	newAccess, err := svc.Refresh(context.Background(), result.AccessToken, result.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)

	// The stored refresh token is untouched; a second exchange still works
	_, err = svc.Refresh(context.Background(), newAccess, result.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbageTokens(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	registerAndVerify(t, svc, userRepo)

	result, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), "not-a-jwt", result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.Refresh(context.Background(), result.AccessToken, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userID := registerAndVerify(t, svc, userRepo)

	result, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), userID))

	_, err = svc.Refresh(context.Background(), result.AccessToken, result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenMismatch)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, userRepo, notifier := newAuthFixture()
	userID := registerAndVerify(t, svc, userRepo)

	// Login so a session exists; reset must kill it
	result, err := svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	user := userRepo.users[userID]
	require.NotNil(t, user.ResetCode)
	assert.Contains(t, notifier.sent[len(notifier.sent)-1].Body, *user.ResetCode)

	require.NoError(t, svc.ResetPassword(context.Background(), "ada@example.com", *user.ResetCode, "new-password-1"))

	// Old password is dead, new one works
	_, err = svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &LoginInput{Email: "ada@example.com", Password: "new-password-1"})
	assert.NoError(t, err)

	// The pre-reset session is invalidated
	_, err = svc.Refresh(context.Background(), result.AccessToken, result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenMismatch)
}

func TestForgotPasswordUnverified(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotVerified)
}

func TestResetPasswordWrongCode(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	registerAndVerify(t, svc, userRepo)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))

	err := svc.ResetPassword(context.Background(), "ada@example.com", "000000", "new-password-1")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestResetPasswordExpiredCode(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userID := registerAndVerify(t, svc, userRepo)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ada@example.com"))
	user := userRepo.users[userID]
	stale := time.Now().Add(-time.Minute)
	user.ResetCodeExpiry = &stale

	err := svc.ResetPassword(context.Background(), "ada@example.com", *user.ResetCode, "new-password-1")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}
