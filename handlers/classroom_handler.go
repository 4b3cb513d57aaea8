package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/hsinyu-lin/classroom_booking/store"
)

type ClassroomHandler struct {
	store store.Store
}

func NewClassroomHandler(st store.Store) *ClassroomHandler {
	return &ClassroomHandler{store: st}
}

func (h *ClassroomHandler) List(c *fiber.Ctx) error {
	classrooms, err := h.store.ListClassrooms(c.Context())
	if err != nil {
		log.Printf("[ERROR] list classrooms: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "獲取教室資料失敗"})
	}
	return c.Status(fiber.StatusOK).JSON(classrooms)
}
