package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hsinyu-lin/classroom_booking/handlers"
	"github.com/hsinyu-lin/classroom_booking/middleware"
)

func PublicRoutes(app *fiber.App, ch *handlers.ClassroomHandler, rh *handlers.ReservationHandler, secret []byte) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "歡迎來到專科教室借用系統 API"})
	})

	api := app.Group("/api")
	api.Get("/classrooms", ch.List)
	api.Get("/reservations", rh.List)
	api.Post("/reservations", middleware.OptionalAuth(secret), rh.Create)
}
