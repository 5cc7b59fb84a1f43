package models

import "time"

type Event struct {
	ID          int       `json:"id" db:"id"`
	ClubID      int       `json:"club_id" db:"club_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Capacity    int       `json:"capacity" db:"capacity"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	EnrolledCount int   `json:"enrolled_count" db:"-"`
	Club          *Club `json:"club,omitempty" db:"-"`
	IsEnrolled    bool  `json:"is_enrolled" db:"-"`
}

// RemainingSeats never goes below zero.
func (e *Event) RemainingSeats() int {
	remaining := e.Capacity - e.EnrolledCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EventView adds the computed seat count for API responses.
type EventView struct {
	Event
	RemainingSeats int `json:"remaining_seats"`
}

func NewEventView(e *Event) EventView {
	return EventView{Event: *e, RemainingSeats: e.RemainingSeats()}
}
