package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hsinyu-lin/classroom_booking/models"
)

// GormStore backs the Store port with PostgreSQL through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := s.db.WithContext(ctx).Order("id").Find(&classrooms).Error; err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (s *GormStore) UpsertClassrooms(ctx context.Context, classrooms []models.Classroom) error {
	if len(classrooms) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&classrooms).Error
}

func (s *GormStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := s.db.WithContext(ctx).Order("created_at").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := validateReservation(r); err != nil {
		return err
	}
	r.Date = models.NormalizeDate(r.Date)
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (s *GormStore) DeleteReservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("date < ?", models.NormalizeDate(cutoff)).
		Delete(&models.Reservation{})
	return result.RowsAffected, result.Error
}

func (s *GormStore) ResetReservations(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Reservation{}).Error
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (s *GormStore) ResetUsers(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.User{}).Error
}
