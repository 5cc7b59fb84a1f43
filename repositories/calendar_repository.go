package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/clubhub/models"
)

type CalendarRepository interface {
	Create(ctx context.Context, entry *models.CalendarEntry) error
	ListFrom(ctx context.Context, from time.Time) ([]models.CalendarEntry, error)
}

type postgresCalendarRepository struct {
	db *sql.DB
}

func NewPostgresCalendarRepository(db *sql.DB) CalendarRepository {
	return &postgresCalendarRepository{db: db}
}

func (r *postgresCalendarRepository) Create(ctx context.Context, entry *models.CalendarEntry) error {
	query := `
		INSERT INTO calendar_entries (entry_date, description, kind)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, entry.Date, entry.Description, entry.Kind).Scan(&entry.ID); err != nil {
		return fmt.Errorf("failed to create calendar entry: %w", err)
	}
	return nil
}

func (r *postgresCalendarRepository) ListFrom(ctx context.Context, from time.Time) ([]models.CalendarEntry, error) {
	query := `
		SELECT id, entry_date, description, kind
		FROM calendar_entries
		WHERE entry_date >= $1
		ORDER BY entry_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.CalendarEntry, 0)
	for rows.Next() {
		var e models.CalendarEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan calendar row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
