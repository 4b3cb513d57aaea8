package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is one booked slot. A classroom can hold at most one
// reservation per (date, time slot); the composite unique index is the
// final arbiter for double-booking attempts.
type Reservation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ClassroomID string     `gorm:"size:16;not null;uniqueIndex:idx_classroom_slot,priority:1" json:"classroomId"`
	UserID      *uuid.UUID `gorm:"type:uuid" json:"userId"`
	UserName    string     `gorm:"size:255;not null" json:"userName"`
	Purpose     string     `gorm:"type:text;not null" json:"purpose"`
	Date        time.Time  `gorm:"not null;uniqueIndex:idx_classroom_slot,priority:2" json:"date"`
	TimeSlot    string     `gorm:"size:32;not null;uniqueIndex:idx_classroom_slot,priority:3" json:"timeSlot"`

	Classroom Classroom `gorm:"foreignkey:ClassroomID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeDate truncates t to midnight UTC. Slots are named, not
// timestamped, so two inputs on the same calendar day must compare equal
// regardless of time-of-day or zone drift.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
