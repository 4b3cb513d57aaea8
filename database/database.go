package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/hsinyu-lin/classroom_booking/configs"
	"github.com/hsinyu-lin/classroom_booking/models"
	"github.com/hsinyu-lin/classroom_booking/store"
)

func ConnectDB() *gorm.DB {
	dsn := config.Config("DATABASE_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
	return db
}

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Classroom{},
		&models.Reservation{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedClassrooms upserts the fixed classroom set so re-running the server
// never duplicates seed data.
func SeedClassrooms(st store.Store) {
	if err := st.UpsertClassrooms(context.Background(), models.SeedClassrooms()); err != nil {
		log.Fatalf("🔥 Failed to seed classrooms: %v", err)
	}
	log.Println("✅ Classrooms seeded successfully")
}
