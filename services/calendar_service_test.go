package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_UpcomingStartsToday(t *testing.T) {
	repo := &FakeCalendarRepository{}
	var from time.Time
	repo.ListFromFunc = func(ctx context.Context, f time.Time) ([]models.CalendarEntry, error) {
		from = f
		return []models.CalendarEntry{{Date: day(2025, 9, 12), Description: "Fim das inscrições"}}, nil
	}

	entries, err := NewCalendarService(repo).Upcoming(context.Background(), time.Date(2025, 9, 10, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, day(2025, 9, 10), from, "time of day is dropped")
}

func TestCalendarService_UpcomingWrapsErrors(t *testing.T) {
	repo := &FakeCalendarRepository{ListFromFunc: func(ctx context.Context, f time.Time) ([]models.CalendarEntry, error) {
		return nil, errors.New("boom")
	}}
	_, err := NewCalendarService(repo).Upcoming(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list calendar entries")
}

func TestCalendarService_Create(t *testing.T) {
	repo := &FakeCalendarRepository{}
	svc := NewCalendarService(repo)

	entry, err := svc.Create(context.Background(), CalendarEntryInput{
		Date:        time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC),
		Description: "  Fim do semestre ",
		Kind:        "Acadêmico",
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 12, 19), entry.Date)
	assert.Equal(t, "Fim do semestre", entry.Description)
	assert.Equal(t, []string{"Create"}, repo.Trace())

	_, err = svc.Create(context.Background(), CalendarEntryInput{Date: day(2025, 12, 19), Description: "   ", Kind: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "description")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
