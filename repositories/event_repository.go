package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventClubInvalid     = errors.New("event club conflict or invalid")
	ErrEventCapacityInvalid = errors.New("event capacity must be positive")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	// GetForUpdate locks the event row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
	ListByUser(ctx context.Context, userID int) ([]models.Event, error)
}

// EventFilter narrows List. Zero values mean "no restriction".
type EventFilter struct {
	ClubID *int
	From   *time.Time
	Before *time.Time
	Desc   bool
	Limit  int
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventSelect = `
	SELECT e.id, e.club_id, e.title, e.description, e.capacity, e.scheduled_at, e.created_at,
	       (SELECT COUNT(*) FROM event_enrollments ee WHERE ee.event_id = e.id) AS enrolled_count
	FROM events e`

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.Event) error {
	exec = executorOrDefault(exec, r.db)
	query := `
		INSERT INTO events (club_id, title, description, capacity, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		event.ClubID,
		event.Title,
		event.Description,
		event.Capacity,
		event.ScheduledAt,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok {
			switch {
			case code == pqForeignKeyViolation && constraint == "events_club_id_fkey":
				return ErrEventClubInvalid
			case code == pqCheckViolation && constraint == "events_capacity_check":
				return ErrEventCapacityInvalid
			}
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id), event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	exec = executorOrDefault(exec, r.db)
	query := `
		SELECT id, club_id, title, description, capacity, scheduled_at, created_at
		FROM events
		WHERE id = $1
		FOR UPDATE`

	event := &models.Event{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.ClubID,
		&event.Title,
		&event.Description,
		&event.Capacity,
		&event.ScheduledAt,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(eventSelect)

	args := []interface{}{}
	conditions := []string{}

	if filter.ClubID != nil {
		args = append(args, *filter.ClubID)
		conditions = append(conditions, fmt.Sprintf("e.club_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("e.scheduled_at >= $%d", len(args)))
	}
	if filter.Before != nil {
		args = append(args, *filter.Before)
		conditions = append(conditions, fmt.Sprintf("e.scheduled_at < $%d", len(args)))
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	if filter.Desc {
		queryBuilder.WriteString(" ORDER BY e.scheduled_at DESC, e.id DESC")
	} else {
		queryBuilder.WriteString(" ORDER BY e.scheduled_at ASC, e.id ASC")
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return r.list(ctx, queryBuilder.String(), args...)
}

func (r *postgresEventRepository) ListByUser(ctx context.Context, userID int) ([]models.Event, error) {
	query := eventSelect + `
		JOIN event_enrollments en ON en.event_id = e.id
		WHERE en.user_id = $1
		ORDER BY e.scheduled_at ASC`
	return r.list(ctx, query, userID)
}

func (r *postgresEventRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func scanEvent(row rowScanner, event *models.Event) error {
	return row.Scan(
		&event.ID,
		&event.ClubID,
		&event.Title,
		&event.Description,
		&event.Capacity,
		&event.ScheduledAt,
		&event.CreatedAt,
		&event.EnrolledCount,
	)
}
