package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hsinyu-lin/classroom_booking/handlers"
	"github.com/hsinyu-lin/classroom_booking/middleware"
)

func AuthRoutes(app *fiber.App, ah *handlers.AuthHandler, oh *handlers.OAuthHandler, secret []byte) {
	auth := app.Group("/api/auth")
	auth.Post("/register", ah.Register)
	auth.Post("/login", ah.Login)
	auth.Get("/me", middleware.Protected(secret), ah.Me)
	auth.Get("/google", oh.GoogleLogin)
	auth.Get("/google/callback", oh.GoogleCallback)
}
