//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hsinyu-lin/classroom_booking/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=classroom password=classroom dbname=classroom_test sslmode=disable"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&models.User{}, &models.Classroom{}, &models.Reservation{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	st := NewGormStore(testDB)
	ctx := context.Background()
	require.NoError(t, st.ResetReservations(ctx))
	require.NoError(t, st.ResetUsers(ctx))
	require.NoError(t, st.UpsertClassrooms(ctx, models.SeedClassrooms()))
	return st
}

func TestGormSlotUniquenessEnforcedByDatabase(t *testing.T) {
	st := setupGormStore(t)
	ctx := context.Background()

	first := models.Reservation{
		ClassroomID: "c1",
		UserName:    "王老師",
		Purpose:     "程式設計課程",
		Date:        time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "第二節",
	}
	require.NoError(t, st.CreateReservation(ctx, &first))

	dup := first
	dup.ID = uuid.Nil
	dup.UserName = "李同學"
	assert.ErrorIs(t, st.CreateReservation(ctx, &dup), ErrSlotTaken)
}

func TestGormUserEmailUnique(t *testing.T) {
	st := setupGormStore(t)
	ctx := context.Background()

	u := models.User{Email: "test@example.com", PasswordHash: "hash"}
	require.NoError(t, st.CreateUser(ctx, &u))

	dup := models.User{Email: "test@example.com", PasswordHash: "hash2"}
	assert.ErrorIs(t, st.CreateUser(ctx, &dup), ErrDuplicateEmail)

	found, err := st.FindUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestGormListClassroomsSeedOrder(t *testing.T) {
	st := setupGormStore(t)

	classrooms, err := st.ListClassrooms(context.Background())
	require.NoError(t, err)
	require.Len(t, classrooms, 5)
	assert.Equal(t, "電腦教室 (A)", classrooms[0].Name)
}
