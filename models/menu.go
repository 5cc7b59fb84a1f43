package models

import "time"

type MenuEntry struct {
	ID         int       `json:"id" db:"id"`
	Date       time.Time `json:"date" db:"menu_date"`
	MainCourse string    `json:"main_course" db:"main_course"`
	Vegetarian string    `json:"vegetarian" db:"vegetarian"`
	SideDish   string    `json:"side_dish" db:"side_dish"`
	Salad      string    `json:"salad" db:"salad"`
	Dessert    string    `json:"dessert" db:"dessert"`
}

// WeekMenu is keyed by weekday with Monday = 0.
type WeekMenu struct {
	StartOfWeek time.Time          `json:"start_of_week"`
	Days        map[int]*MenuEntry `json:"days"`
}
