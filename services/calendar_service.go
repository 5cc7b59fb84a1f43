package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

type CalendarService interface {
	// Upcoming returns academic calendar entries dated today or later.
	Upcoming(ctx context.Context, today time.Time) ([]models.CalendarEntry, error)
	Create(ctx context.Context, input CalendarEntryInput) (*models.CalendarEntry, error)
}

type CalendarEntryInput struct {
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required,notblank,max=200"`
	Kind        string    `json:"kind" validate:"required,notblank,max=50"`
}

type calendarService struct {
	calendarRepo repositories.CalendarRepository
}

func NewCalendarService(calendarRepo repositories.CalendarRepository) CalendarService {
	return &calendarService{calendarRepo: calendarRepo}
}

func (s *calendarService) Upcoming(ctx context.Context, today time.Time) ([]models.CalendarEntry, error) {
	entries, err := s.calendarRepo.ListFrom(ctx, dateOnly(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar entries: %w", err)
	}
	return entries, nil
}

func (s *calendarService) Create(ctx context.Context, input CalendarEntryInput) (*models.CalendarEntry, error) {
	input.Description = strings.TrimSpace(input.Description)
	input.Kind = strings.TrimSpace(input.Kind)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	entry := &models.CalendarEntry{
		Date:        dateOnly(input.Date),
		Description: input.Description,
		Kind:        input.Kind,
	}
	if err := s.calendarRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create calendar entry: %w", err)
	}
	return entry, nil
}
