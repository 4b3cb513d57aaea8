package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hsinyu-lin/classroom_booking/models"
	"github.com/hsinyu-lin/classroom_booking/services"
)

var validate = validator.New()

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterResponse struct {
	UserResponse
	Token string `json:"token"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
	}

	user, token, err := h.auth.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
		case errors.Is(err, services.ErrDuplicateEmail):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "此 Email 已經被註冊"})
		default:
			log.Printf("[ERROR] register: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器內部錯誤"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		UserResponse: newUserResponse(user),
		Token:        token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
	}

	user, token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email 和密碼為必填"})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Email 或密碼錯誤"})
		default:
			log.Printf("[ERROR] login: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "登入時發生錯誤"})
		}
	}

	// Flat structure: token and the public user fields at the same level.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
		"id":    user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
	})
}

// Me re-verifies the presented token against live storage, so a token whose
// account has been deleted is rejected even though its signature is fine.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")

	user, err := h.auth.VerifyToken(c.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenMissing):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "未提供 Token"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "找不到使用者"})
		case errors.Is(err, services.ErrTokenExpired), errors.Is(err, services.ErrTokenInvalid):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Token 無效或已過期"})
		default:
			log.Printf("[ERROR] verify token: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器內部錯誤"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(newUserResponse(user))
}
