package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrEnrollmentConflict     = errors.New("user is already enrolled in this event")
	ErrEnrollmentEventInvalid = errors.New("enrollment event conflict or invalid")
)

// EnrollmentRepository owns the event_enrollments join table.
type EnrollmentRepository interface {
	Add(ctx context.Context, exec SQLExecutor, userID, eventID int) error
	Contains(ctx context.Context, exec SQLExecutor, userID, eventID int) (bool, error)
	CountForEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	CountForUser(ctx context.Context, userID int) (int, error)
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) Add(ctx context.Context, exec SQLExecutor, userID, eventID int) error {
	exec = executorOrDefault(exec, r.db)
	_, err := exec.ExecContext(ctx, `INSERT INTO event_enrollments (user_id, event_id) VALUES ($1, $2)`, userID, eventID)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "event_enrollments_pkey":
				return ErrEnrollmentConflict
			case code == pqForeignKeyViolation && constraint == "event_enrollments_event_id_fkey":
				return ErrEnrollmentEventInvalid
			}
		}
		return fmt.Errorf("failed to enroll user %d in event %d: %w", userID, eventID, err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) Contains(ctx context.Context, exec SQLExecutor, userID, eventID int) (bool, error) {
	exec = executorOrDefault(exec, r.db)
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_enrollments WHERE user_id = $1 AND event_id = $2)`
	if err := exec.QueryRowContext(ctx, query, userID, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}

func (r *postgresEnrollmentRepository) CountForEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	exec = executorOrDefault(exec, r.db)
	var count int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_enrollments WHERE event_id = $1`, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enrollments for event %d: %w", eventID, err)
	}
	return count, nil
}

func (r *postgresEnrollmentRepository) CountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_enrollments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enrollments for user %d: %w", userID, err)
	}
	return count, nil
}
