package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsinyu-lin/classroom_booking/models"
	"github.com/hsinyu-lin/classroom_booking/store"
)

var testSecret = []byte("test-secret")

func newTestService() (*AuthService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewAuthService(st, testSecret), st
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "test@example.com", "password123", "測試使用者")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "test@example.com", user.Email)
	require.NotNil(t, user.Name)
	assert.Equal(t, "測試使用者", *user.Name)
	assert.Equal(t, models.ProviderPassword, user.Provider)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, loginToken, err := svc.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "test@example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "test@example.com", "password456", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Test@Example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "test@example.com", "password456", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Login through a differently cased spelling still works.
	_, _, err = svc.Login(ctx, "TEST@EXAMPLE.COM", "password123")
	assert.NoError(t, err)
}

func TestRegisterMissingCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "password123", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, _, err = svc.Register(ctx, "test@example.com", "", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginWrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "login@example.com", "password123", "")
	require.NoError(t, err)

	_, _, wrongPassErr := svc.Login(ctx, "login@example.com", "wrongpassword")
	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

func TestVerifyToken(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "verify@example.com", "password123", "")
	require.NoError(t, err)

	verified, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, err = svc.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrTokenMissing)

	_, err = svc.VerifyToken(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Deleting the account kills the still-unexpired token.
	require.NoError(t, st.DeleteUser(ctx, user.ID))
	_, err = svc.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyTokenExpired(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	user := models.User{Email: "expired@example.com", PasswordHash: "x"}
	require.NoError(t, st.CreateUser(ctx, &user))

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     time.Now().Add(-48 * time.Hour).Unix(),
		"exp":     time.Now().Add(-24 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenWrongSignature(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "sig@example.com", "password123", "")
	require.NoError(t, err)

	other := NewAuthService(store.NewMemoryStore(), []byte("other-secret"))
	_, err = other.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolveFederatedIdentity(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	user, token, err := svc.ResolveFederatedIdentity(ctx, "oauth@example.com", "OAuth 使用者")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.ProviderGoogle, user.Provider)
	assert.Contains(t, user.PasswordHash, "GOOGLE_AUTH_")

	// Idempotent: a second resolve reuses the account.
	again, token2, err := svc.ResolveFederatedIdentity(ctx, "oauth@example.com", "OAuth 使用者")
	require.NoError(t, err)
	assert.NotEmpty(t, token2)
	assert.Equal(t, user.ID, again.ID)

	// An existing password account is reused without touching its hash.
	registered, _, err := svc.Register(ctx, "mixed@example.com", "password123", "")
	require.NoError(t, err)
	resolved, _, err := svc.ResolveFederatedIdentity(ctx, "mixed@example.com", "Mixed")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resolved.ID)

	stored, err := st.FindUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.PasswordHash, stored.PasswordHash)
	assert.Equal(t, models.ProviderPassword, stored.Provider)
}
