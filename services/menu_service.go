package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

type MenuService interface {
	// WeekMenu returns the cafeteria menu of the week containing today,
	// keyed by weekday with Monday = 0.
	WeekMenu(ctx context.Context, today time.Time) (*models.WeekMenu, error)
	Upsert(ctx context.Context, input MenuEntryInput) (*models.MenuEntry, error)
}

type MenuEntryInput struct {
	Date       time.Time `json:"date" validate:"required"`
	MainCourse string    `json:"main_course" validate:"required,notblank,max=200"`
	Vegetarian string    `json:"vegetarian" validate:"max=200"`
	SideDish   string    `json:"side_dish" validate:"max=200"`
	Salad      string    `json:"salad" validate:"max=200"`
	Dessert    string    `json:"dessert" validate:"max=200"`
}

type menuService struct {
	menuRepo repositories.MenuRepository
}

func NewMenuService(menuRepo repositories.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) WeekMenu(ctx context.Context, today time.Time) (*models.WeekMenu, error) {
	monday := StartOfWeek(today)
	nextMonday := monday.AddDate(0, 0, 7)

	entries, err := s.menuRepo.ListFrom(ctx, monday, 7)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu from %s: %w", monday.Format(time.DateOnly), err)
	}

	week := &models.WeekMenu{StartOfWeek: monday, Days: make(map[int]*models.MenuEntry, len(entries))}
	for i := range entries {
		entry := &entries[i]
		if !entry.Date.Before(nextMonday) {
			break
		}
		week.Days[WeekdayIndex(entry.Date)] = entry
	}
	return week, nil
}

func (s *menuService) Upsert(ctx context.Context, input MenuEntryInput) (*models.MenuEntry, error) {
	input.MainCourse = strings.TrimSpace(input.MainCourse)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	entry := &models.MenuEntry{
		Date:       dateOnly(input.Date),
		MainCourse: input.MainCourse,
		Vegetarian: input.Vegetarian,
		SideDish:   input.SideDish,
		Salad:      input.Salad,
		Dessert:    input.Dessert,
	}
	if err := s.menuRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save menu for %s: %w", entry.Date.Format(time.DateOnly), err)
	}
	return entry, nil
}

// StartOfWeek returns midnight UTC of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := dateOnly(t)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// WeekdayIndex maps Monday..Sunday to 0..6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
