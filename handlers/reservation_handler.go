package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hsinyu-lin/classroom_booking/middleware"
	"github.com/hsinyu-lin/classroom_booking/models"
	"github.com/hsinyu-lin/classroom_booking/store"
)

type ReservationHandler struct {
	store store.Store
}

func NewReservationHandler(st store.Store) *ReservationHandler {
	return &ReservationHandler{store: st}
}

type CreateReservationRequest struct {
	ClassroomID string `json:"classroomId" validate:"required"`
	UserName    string `json:"userName" validate:"required"`
	Purpose     string `json:"purpose" validate:"required"`
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"timeSlot" validate:"required"`
}

func (h *ReservationHandler) List(c *fiber.Ctx) error {
	reservations, err := h.store.ListReservations(c.Context())
	if err != nil {
		log.Printf("[ERROR] list reservations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "獲取預約資料失敗"})
	}
	return c.Status(fiber.StatusOK).JSON(reservations)
}

func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "缺少必要的欄位"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "缺少必要的欄位"})
	}

	date, err := parseReservationDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "日期格式錯誤"})
	}

	reservation := models.Reservation{
		ClassroomID: req.ClassroomID,
		UserName:    req.UserName,
		Purpose:     req.Purpose,
		Date:        date,
		TimeSlot:    req.TimeSlot,
	}
	// Authenticated bookings carry an owning reference; anonymous bookings
	// keep a nil UserID.
	if userID, ok := middleware.CurrentUserID(c); ok {
		reservation.UserID = &userID
	}

	if err := h.store.CreateReservation(c.Context(), &reservation); err != nil {
		switch {
		case errors.Is(err, store.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "缺少必要的欄位"})
		case errors.Is(err, store.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "該時段已被預約"})
		default:
			log.Printf("[ERROR] create reservation: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "建立預約失敗"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(reservation)
}

// parseReservationDate accepts both the full ISO-8601 instant the web client
// sends and the bare calendar-date form used by scripts and tests.
func parseReservationDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
