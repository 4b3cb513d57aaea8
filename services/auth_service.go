package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hsinyu-lin/classroom_booking/models"
	"github.com/hsinyu-lin/classroom_booking/store"
)

const TokenTTL = 24 * time.Hour

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrTokenMissing       = errors.New("no token provided")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("token subject no longer exists")
)

// AuthService hashes and verifies passwords, mints and verifies bearer
// tokens, and resolves federated identities to local accounts. Tokens are
// stateless HS256 JWTs; there is no revocation list, but VerifyToken checks
// that the subject still exists so deleting an account kills its tokens.
type AuthService struct {
	users  store.Store
	secret []byte
}

func NewAuthService(users store.Store, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Register creates a password account and returns it with a fresh token.
// Emails are lowercased before storage and lookup, so uniqueness is
// effectively case-insensitive.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hashed),
		Provider:     models.ProviderPassword,
	}
	if name != "" {
		user.Name = &name
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}

	token, err := s.mintToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies a password against the stored hash. An unknown email and a
// wrong password both yield ErrInvalidCredentials so callers cannot probe
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken validates signature and expiry, then checks that the subject
// still exists. Token validity is tied to account existence, not just the
// signature.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ResolveFederatedIdentity upserts a local account for an OAuth profile.
// Creation on demand means federated login never fails on "account not
// found". An existing password account is reused as-is; its hash is never
// overwritten.
func (s *AuthService) ResolveFederatedIdentity(ctx context.Context, providerEmail, providerDisplayName string) (*models.User, string, error) {
	if providerEmail == "" {
		return nil, "", ErrMissingCredentials
	}
	email := normalizeEmail(providerEmail)

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// The password column stays mandatory; federated accounts hold a
		// sentinel marker that can never match a bcrypt comparison.
		created := models.User{
			Email:        email,
			PasswordHash: fmt.Sprintf("GOOGLE_AUTH_%d", time.Now().Unix()),
			Provider:     models.ProviderGoogle,
		}
		if providerDisplayName != "" {
			created.Name = &providerDisplayName
		}
		if err := s.users.CreateUser(ctx, &created); err != nil {
			return nil, "", err
		}
		user = &created
	} else if err != nil {
		return nil, "", err
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) mintToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
