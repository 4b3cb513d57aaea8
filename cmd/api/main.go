package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/hsinyu-lin/classroom_booking/configs"
	"github.com/hsinyu-lin/classroom_booking/database"
	"github.com/hsinyu-lin/classroom_booking/handlers"
	"github.com/hsinyu-lin/classroom_booking/jobs"
	"github.com/hsinyu-lin/classroom_booking/routes"
	"github.com/hsinyu-lin/classroom_booking/services"
	"github.com/hsinyu-lin/classroom_booking/store"
)

func main() {
	db := database.ConnectDB()
	database.Migrate(db)

	st := store.NewGormStore(db)
	database.SeedClassrooms(st)

	secret := []byte(config.Config("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("🔥 JWT_SECRET is not set")
	}

	authService := services.NewAuthService(st, secret)
	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService)
	classroomHandler := handlers.NewClassroomHandler(st)
	reservationHandler := handlers.NewReservationHandler(st)

	retentionDays, _ := strconv.Atoi(config.ConfigOr("RETENTION_DAYS", "180"))
	c := cron.New()
	c.AddFunc("0 3 * * *", jobs.SweepExpiredReservations(st, retentionDays))
	go c.Start()
	log.Println("✅ Cron job for reservation retention scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Classroom Booking",
		CaseSensitive: true,
		StrictRouting: false,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{"message": "伺服器內部錯誤"})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Taipei",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.PublicRoutes(app, classroomHandler, reservationHandler, secret)
	routes.AuthRoutes(app, authHandler, oauthHandler, secret)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := config.ConfigOr("PORT", "3001")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
