// Package booking holds the client-side half of the system: the slot
// selection planner (the state machine behind the calendar view), a REST
// client for the server surface, and durable token storage.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hsinyu-lin/classroom_booking/models"
)

var (
	ErrNoSelection = errors.New("no slots selected")
	ErrNoClassroom = errors.New("no classroom selected")
)

// API is the slice of the server surface the planner needs. The concrete
// implementation is Client; tests inject fakes.
type API interface {
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error)
}

type CreateReservationInput struct {
	ClassroomID string `json:"classroomId"`
	UserName    string `json:"userName"`
	Purpose     string `json:"purpose"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
}

// SelectedSlot is one cell the user has toggled on but not yet submitted.
// Each carries its own date so a selection can span multiple viewed days.
type SelectedSlot struct {
	Date     time.Time
	TimeSlot string
}

// BookingDetails is what the confirmation step collects before submit.
type BookingDetails struct {
	UserName string
	Purpose  string
}

// SlotError pairs a slot with the reason its creation call failed.
type SlotError struct {
	Slot SelectedSlot
	Err  error
}

// SubmitResult reports a settled submit batch. Failed is non-empty exactly
// when Submit also returned an error.
type SubmitResult struct {
	Created []models.Reservation
	Failed  []SlotError
}

// Planner tracks the viewed classroom and date, the known reservation
// snapshot, and the transient multi-select. It is not safe for concurrent
// use; drive it from a single goroutine the way a UI event loop would.
type Planner struct {
	api API

	classrooms   []models.Classroom
	reservations []models.Reservation
	classroomID  string
	currentDate  time.Time
	selection    []SelectedSlot
	confirmOpen  bool
}

func NewPlanner(api API) *Planner {
	return &Planner{
		api:         api,
		currentDate: models.NormalizeDate(time.Now()),
	}
}

// Load fetches classrooms and reservations concurrently. A failed fetch
// leaves the planner empty but usable; calling Load again retries cleanly.
// If no classroom is chosen yet, the first fetched one becomes active.
func (p *Planner) Load(ctx context.Context) error {
	var (
		wg           sync.WaitGroup
		classrooms   []models.Classroom
		reservations []models.Reservation
		cErr, rErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		classrooms, cErr = p.api.ListClassrooms(ctx)
	}()
	go func() {
		defer wg.Done()
		reservations, rErr = p.api.ListReservations(ctx)
	}()
	wg.Wait()

	if cErr != nil || rErr != nil {
		return errors.Join(cErr, rErr)
	}

	p.classrooms = classrooms
	p.reservations = reservations
	if p.classroomID == "" && len(classrooms) > 0 {
		p.classroomID = classrooms[0].ID
	}
	return nil
}

// SelectClassroom switches the active classroom and unconditionally clears
// the pending selection: unsubmitted intent never crosses classrooms.
func (p *Planner) SelectClassroom(id string) {
	p.classroomID = id
	p.selection = nil
	p.confirmOpen = false
}

// ChangeDate moves the viewed date. The pending selection survives, so the
// user can accumulate a multi-date booking for one classroom.
func (p *Planner) ChangeDate(date time.Time) {
	p.currentDate = models.NormalizeDate(date)
}

// ToggleSlot adds the (date, time slot) pair to the selection if absent and
// removes it if present. Dates compare by normalized midnight, so the same
// calendar day toggled with different times of day still round-trips.
func (p *Planner) ToggleSlot(date time.Time, timeSlot string) {
	day := models.NormalizeDate(date)
	for i, s := range p.selection {
		if s.Date.Equal(day) && s.TimeSlot == timeSlot {
			p.selection = append(p.selection[:i], p.selection[i+1:]...)
			return
		}
	}
	p.selection = append(p.selection, SelectedSlot{Date: day, TimeSlot: timeSlot})
}

func (p *Planner) ClearSelection() {
	p.selection = nil
}

// OpenConfirm shows the confirmation step. It is a no-op when nothing is
// selected and reports whether the step opened.
func (p *Planner) OpenConfirm() bool {
	if len(p.selection) == 0 {
		return false
	}
	p.confirmOpen = true
	return true
}

func (p *Planner) CloseConfirm() {
	p.confirmOpen = false
}

// Submit issues one independent creation call per selected slot, all
// concurrently, and waits for the whole batch to settle before touching any
// visible state. Succeeded creations are merged into the reservation
// snapshot and their slots leave the pending selection; failed slots stay
// pending so the user can retry, and the returned error names them. Only a
// fully successful batch clears the selection and closes the confirmation
// step.
func (p *Planner) Submit(ctx context.Context, details BookingDetails) (*SubmitResult, error) {
	if p.classroomID == "" {
		return nil, ErrNoClassroom
	}
	if len(p.selection) == 0 {
		return nil, ErrNoSelection
	}

	slots := make([]SelectedSlot, len(p.selection))
	copy(slots, p.selection)

	created := make([]*models.Reservation, len(slots))
	failures := make([]error, len(slots))

	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slot SelectedSlot) {
			defer wg.Done()
			created[i], failures[i] = p.api.CreateReservation(ctx, CreateReservationInput{
				ClassroomID: p.classroomID,
				UserName:    details.UserName,
				Purpose:     details.Purpose,
				Date:        slot.Date.Format(time.RFC3339),
				TimeSlot:    slot.TimeSlot,
			})
		}(i, slot)
	}
	wg.Wait()

	result := &SubmitResult{}
	var remaining []SelectedSlot
	for i, slot := range slots {
		if failures[i] != nil {
			result.Failed = append(result.Failed, SlotError{Slot: slot, Err: failures[i]})
			remaining = append(remaining, slot)
			continue
		}
		result.Created = append(result.Created, *created[i])
	}

	p.reservations = append(p.reservations, result.Created...)
	p.selection = remaining

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%d of %d slots failed: %s", len(result.Failed), len(slots), describeFailures(result.Failed))
	}

	p.confirmOpen = false
	return result, nil
}

func describeFailures(failed []SlotError) string {
	parts := make([]string, len(failed))
	for i, f := range failed {
		parts[i] = fmt.Sprintf("%s %s: %v", f.Slot.Date.Format("2006-01-02"), f.Slot.TimeSlot, f.Err)
	}
	return strings.Join(parts, "; ")
}

// ── Read accessors for rendering ──

func (p *Planner) Classrooms() []models.Classroom { return p.classrooms }

func (p *Planner) Reservations() []models.Reservation { return p.reservations }

func (p *Planner) ActiveClassroomID() string { return p.classroomID }

func (p *Planner) CurrentDate() time.Time { return p.currentDate }

func (p *Planner) Selection() []SelectedSlot { return p.selection }

func (p *Planner) ConfirmOpen() bool { return p.confirmOpen }

// IsSelected reports whether the pending selection contains the slot.
func (p *Planner) IsSelected(date time.Time, timeSlot string) bool {
	day := models.NormalizeDate(date)
	for _, s := range p.selection {
		if s.Date.Equal(day) && s.TimeSlot == timeSlot {
			return true
		}
	}
	return false
}

// IsReserved reports whether the active classroom already holds a
// reservation for the slot, per the local snapshot. The snapshot may be
// stale; the store remains the final arbiter at creation time.
func (p *Planner) IsReserved(date time.Time, timeSlot string) bool {
	day := models.NormalizeDate(date)
	for _, r := range p.reservations {
		if r.ClassroomID == p.classroomID &&
			models.NormalizeDate(r.Date).Equal(day) &&
			r.TimeSlot == timeSlot {
			return true
		}
	}
	return false
}
