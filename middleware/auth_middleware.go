package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Protected gates a route behind a bearer token. A missing or malformed
// header yields 401; a token that fails signature or expiry checks yields
// 403 — the client only learns that it must re-authenticate.
func Protected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   secret,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "未提供 Token"})
	}
	return c.Status(fiber.StatusForbidden).
		JSON(fiber.Map{"message": "Token 無效或已過期"})
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present and proceeds anonymously otherwise. Reservation creation uses it
// so authenticated bookings carry an owner while legacy anonymous bookings
// keep working.
func OptionalAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}
		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		})
		if err == nil && token.Valid {
			c.Locals("user", token)
		}
		return c.Next()
	}
}

// TokenClaims returns the parsed JWT claims attached by Protected or
// OptionalAuth, if any.
func TokenClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// CurrentUserID extracts the authenticated user's id from the request
// context.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	claims, ok := TokenClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
