package models

import "time"

type CalendarEntry struct {
	ID          int       `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"entry_date"`
	Description string    `json:"description" db:"description"`
	Kind        string    `json:"kind" db:"kind"`
}
