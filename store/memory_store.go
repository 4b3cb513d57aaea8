package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsinyu-lin/classroom_booking/models"
)

// MemoryStore is an in-memory Store used by tests and local experiments.
// It enforces the same uniqueness rules as the PostgreSQL implementation.
type MemoryStore struct {
	mu           sync.Mutex
	classrooms   []models.Classroom
	reservations []models.Reservation
	users        []models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Classroom, len(s.classrooms))
	copy(out, s.classrooms)
	return out, nil
}

func (s *MemoryStore) UpsertClassrooms(ctx context.Context, classrooms []models.Classroom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range classrooms {
		replaced := false
		for i := range s.classrooms {
			if s.classrooms[i].ID == c.ID {
				s.classrooms[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			s.classrooms = append(s.classrooms, c)
		}
	}
	return nil
}

func (s *MemoryStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out, nil
}

func (s *MemoryStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := validateReservation(r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Date = models.NormalizeDate(r.Date)
	for _, existing := range s.reservations {
		if existing.ClassroomID == r.ClassroomID &&
			existing.Date.Equal(r.Date) &&
			existing.TimeSlot == r.TimeSlot {
			return ErrSlotTaken
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.reservations = append(s.reservations, *r)
	return nil
}

func (s *MemoryStore) DeleteReservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff = models.NormalizeDate(cutoff)
	kept := s.reservations[:0]
	var deleted int64
	for _, r := range s.reservations {
		if r.Date.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.reservations = kept
	return deleted, nil
}

func (s *MemoryStore) ResetReservations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = nil
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	return nil
}

func (s *MemoryStore) ResetUsers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	return nil
}
