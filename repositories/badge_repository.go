package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var ErrBadgeNotFound = errors.New("badge not found")

type BadgeRepository interface {
	GetByName(ctx context.Context, name string) (*models.Badge, error)
	List(ctx context.Context) ([]models.Badge, error)
	ListForUser(ctx context.Context, userID int) ([]models.Badge, error)
	HasBadge(ctx context.Context, userID int, name string) (bool, error)
	// Award attaches the named badge to the user. It reports false when the
	// user already holds it or no badge has that name.
	Award(ctx context.Context, userID int, name string) (bool, error)
	Upsert(ctx context.Context, badge *models.Badge) error
}

type postgresBadgeRepository struct {
	db *sql.DB
}

func NewPostgresBadgeRepository(db *sql.DB) BadgeRepository {
	return &postgresBadgeRepository{db: db}
}

func (r *postgresBadgeRepository) GetByName(ctx context.Context, name string) (*models.Badge, error) {
	badge := &models.Badge{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, icon_class FROM badges WHERE name = $1`, name).
		Scan(&badge.ID, &badge.Name, &badge.Description, &badge.IconClass)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to get badge %q: %w", name, err)
	}
	return badge, nil
}

func (r *postgresBadgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, icon_class FROM badges ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	badges := make([]models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IconClass); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		badges = append(badges, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *postgresBadgeRepository) ListForUser(ctx context.Context, userID int) ([]models.Badge, error) {
	query := `
		SELECT b.id, b.name, b.description, b.icon_class, ub.awarded_at
		FROM badges b
		JOIN user_badges ub ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at ASC, b.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for user %d: %w", userID, err)
	}
	defer rows.Close()

	badges := make([]models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		var awardedAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IconClass, &awardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user badge row: %w", err)
		}
		if awardedAt.Valid {
			b.AwardedAt = &awardedAt.Time
		}
		badges = append(badges, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *postgresBadgeRepository) HasBadge(ctx context.Context, userID int, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_badges ub
			JOIN badges b ON b.id = ub.badge_id
			WHERE ub.user_id = $1 AND b.name = $2
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check badge %q for user %d: %w", name, userID, err)
	}
	return exists, nil
}

func (r *postgresBadgeRepository) Award(ctx context.Context, userID int, name string) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id)
		SELECT $1, b.id FROM badges b WHERE b.name = $2
		ON CONFLICT (user_id, badge_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, name)
	if err != nil {
		if code, _, ok := pqViolation(err); ok && code == pqForeignKeyViolation {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to award badge %q to user %d: %w", name, userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresBadgeRepository) Upsert(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (name, description, icon_class)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			icon_class = EXCLUDED.icon_class
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, badge.Name, badge.Description, badge.IconClass).Scan(&badge.ID); err != nil {
		return fmt.Errorf("failed to upsert badge %q: %w", badge.Name, err)
	}
	return nil
}
