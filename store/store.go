package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hsinyu-lin/classroom_booking/models"
)

var (
	// ErrMissingFields is returned before any write is attempted when a
	// reservation lacks one of its required fields.
	ErrMissingFields = errors.New("missing required reservation fields")
	// ErrSlotTaken means the (classroom, date, time slot) triple already
	// holds a reservation.
	ErrSlotTaken = errors.New("slot already reserved")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store is the persistence port for classrooms, reservations and users.
// Handlers and services receive it by injection; nothing in the repo
// reaches for a package-level database handle.
type Store interface {
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	UpsertClassrooms(ctx context.Context, classrooms []models.Classroom) error

	ListReservations(ctx context.Context) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	DeleteReservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ResetReservations(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ResetUsers(ctx context.Context) error
}

// validateReservation enforces the required-field contract shared by every
// implementation: all five fields must be present before a write happens.
func validateReservation(r *models.Reservation) error {
	if r.ClassroomID == "" || r.UserName == "" || r.Purpose == "" || r.Date.IsZero() || r.TimeSlot == "" {
		return ErrMissingFields
	}
	return nil
}
