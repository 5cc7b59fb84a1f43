package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var ErrNewsNotFound = errors.New("news not found")

type NewsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, news *models.News) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	// List returns the newest items first; limit <= 0 returns everything.
	List(ctx context.Context, limit int) ([]models.News, error)
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

func (r *postgresNewsRepository) Create(ctx context.Context, exec SQLExecutor, news *models.News) error {
	exec = executorOrDefault(exec, r.db)
	query := `
		INSERT INTO news (title, content, event_id)
		VALUES ($1, $2, $3)
		RETURNING id, published_at`

	if err := exec.QueryRowContext(ctx, query, news.Title, news.Content, news.EventID).
		Scan(&news.ID, &news.PublishedAt); err != nil {
		if code, _, ok := pqViolation(err); ok && code == pqForeignKeyViolation {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	n := &models.News{}
	var eventID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, published_at, event_id FROM news WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.PublishedAt, &eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news %d: %w", id, err)
	}
	if eventID.Valid {
		v := int(eventID.Int64)
		n.EventID = &v
	}
	return n, nil
}

func (r *postgresNewsRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	query := `SELECT id, title, content, published_at, event_id FROM news ORDER BY published_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	items := make([]models.News, 0)
	for rows.Next() {
		var n models.News
		var eventID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.PublishedAt, &eventID); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		if eventID.Valid {
			v := int(eventID.Int64)
			n.EventID = &v
		}
		items = append(items, n)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
