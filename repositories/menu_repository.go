package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/clubhub/models"
)

type MenuRepository interface {
	// Upsert replaces the entry for the same date.
	Upsert(ctx context.Context, entry *models.MenuEntry) error
	ListFrom(ctx context.Context, from time.Time, limit int) ([]models.MenuEntry, error)
}

type postgresMenuRepository struct {
	db *sql.DB
}

func NewPostgresMenuRepository(db *sql.DB) MenuRepository {
	return &postgresMenuRepository{db: db}
}

func (r *postgresMenuRepository) Upsert(ctx context.Context, entry *models.MenuEntry) error {
	query := `
		INSERT INTO menu_entries (menu_date, main_course, vegetarian, side_dish, salad, dessert)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT menu_entries_menu_date_key DO UPDATE SET
			main_course = EXCLUDED.main_course,
			vegetarian = EXCLUDED.vegetarian,
			side_dish = EXCLUDED.side_dish,
			salad = EXCLUDED.salad,
			dessert = EXCLUDED.dessert
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.Date,
		entry.MainCourse,
		entry.Vegetarian,
		entry.SideDish,
		entry.Salad,
		entry.Dessert,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert menu for %s: %w", entry.Date.Format("2006-01-02"), err)
	}
	return nil
}

func (r *postgresMenuRepository) ListFrom(ctx context.Context, from time.Time, limit int) ([]models.MenuEntry, error) {
	query := `
		SELECT id, menu_date, main_course, vegetarian, side_dish, salad, dessert
		FROM menu_entries
		WHERE menu_date >= $1
		ORDER BY menu_date ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.MenuEntry, 0, limit)
	for rows.Next() {
		var e models.MenuEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.MainCourse, &e.Vegetarian, &e.SideDish, &e.Salad, &e.Dessert); err != nil {
			return nil, fmt.Errorf("failed to scan menu row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
