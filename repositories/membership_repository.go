package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var (
	ErrMembershipClubInvalid = errors.New("membership club conflict or invalid")
	ErrMembershipUserInvalid = errors.New("membership user conflict or invalid")
)

// MembershipRepository owns the club_members join table.
type MembershipRepository interface {
	// Add reports false when the membership already existed.
	Add(ctx context.Context, exec SQLExecutor, userID, clubID int) (bool, error)
	// Remove reports false when there was nothing to remove.
	Remove(ctx context.Context, userID, clubID int) (bool, error)
	Contains(ctx context.Context, userID, clubID int) (bool, error)
	CountForUser(ctx context.Context, userID int) (int, error)
	ListMembers(ctx context.Context, clubID int) ([]models.User, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) Add(ctx context.Context, exec SQLExecutor, userID, clubID int) (bool, error) {
	exec = executorOrDefault(exec, r.db)
	query := `
		INSERT INTO club_members (user_id, club_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, club_id) DO NOTHING`

	result, err := exec.ExecContext(ctx, query, userID, clubID)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok && code == pqForeignKeyViolation {
			switch constraint {
			case "club_members_club_id_fkey":
				return false, ErrMembershipClubInvalid
			case "club_members_user_id_fkey":
				return false, ErrMembershipUserInvalid
			}
		}
		return false, fmt.Errorf("failed to add membership (user %d, club %d): %w", userID, clubID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresMembershipRepository) Remove(ctx context.Context, userID, clubID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM club_members WHERE user_id = $1 AND club_id = $2`, userID, clubID)
	if err != nil {
		return false, fmt.Errorf("failed to remove membership (user %d, club %d): %w", userID, clubID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresMembershipRepository) Contains(ctx context.Context, userID, clubID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM club_members WHERE user_id = $1 AND club_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, clubID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func (r *postgresMembershipRepository) CountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM club_members WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count memberships for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *postgresMembershipRepository) ListMembers(ctx context.Context, clubID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.avatar_key, u.created_at
		FROM users u
		JOIN club_members cm ON cm.user_id = u.id
		WHERE cm.club_id = $1
		ORDER BY cm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of club %d: %w", clubID, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.AvatarKey, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
