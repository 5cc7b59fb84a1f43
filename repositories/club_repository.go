package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var (
	ErrClubNotFound      = errors.New("club not found")
	ErrClubNameConflict  = errors.New("club name conflict")
	ErrClubLeaderInvalid = errors.New("club leader conflict or invalid")
)

type ClubRepository interface {
	Create(ctx context.Context, exec SQLExecutor, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	GetByName(ctx context.Context, name string) (*models.Club, error)
	List(ctx context.Context) ([]models.Club, error)
	ListRanking(ctx context.Context) ([]models.Club, error)
	ListByMember(ctx context.Context, userID int) ([]models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id int) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

// member_count is computed on read; club_members is the source of truth.
const clubSelect = `
	SELECT c.id, c.name, c.description, c.category, c.leader_id, c.created_at,
	       (SELECT COUNT(*) FROM club_members m WHERE m.club_id = c.id) AS member_count
	FROM clubs c`

func (r *postgresClubRepository) Create(ctx context.Context, exec SQLExecutor, club *models.Club) error {
	exec = executorOrDefault(exec, r.db)
	query := `
		INSERT INTO clubs (name, description, category, leader_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		club.Name,
		club.Description,
		club.Category,
		club.LeaderID,
	).Scan(&club.ID, &club.CreatedAt)
	if err != nil {
		return r.handleClubError(err)
	}
	return nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	return r.getOne(ctx, clubSelect+` WHERE c.id = $1`, id)
}

func (r *postgresClubRepository) GetByName(ctx context.Context, name string) (*models.Club, error) {
	return r.getOne(ctx, clubSelect+` WHERE c.name = $1`, name)
}

func (r *postgresClubRepository) List(ctx context.Context) ([]models.Club, error) {
	return r.list(ctx, clubSelect+` ORDER BY c.name ASC`)
}

func (r *postgresClubRepository) ListRanking(ctx context.Context) ([]models.Club, error) {
	return r.list(ctx, clubSelect+` ORDER BY member_count DESC, c.name ASC`)
}

func (r *postgresClubRepository) ListByMember(ctx context.Context, userID int) ([]models.Club, error) {
	query := clubSelect + `
		JOIN club_members cm ON cm.club_id = c.id
		WHERE cm.user_id = $1
		ORDER BY c.name ASC`
	return r.list(ctx, query, userID)
}

func (r *postgresClubRepository) Update(ctx context.Context, club *models.Club) error {
	query := `
		UPDATE clubs SET
			name = $1,
			description = $2,
			category = $3,
			leader_id = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		club.Name,
		club.Description,
		club.Category,
		club.LeaderID,
		club.ID,
	)
	if err != nil {
		return r.handleClubError(err)
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

// Delete removes the club; events (and their news and enrollments), forum
// topics (and posts), media rows and memberships cascade.
func (r *postgresClubRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete club %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Club, error) {
	club := &models.Club{}
	if err := scanClub(r.db.QueryRowContext(ctx, query, args...), club); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to scan club: %w", err)
	}
	return club, nil
}

func (r *postgresClubRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Club, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]models.Club, 0)
	for rows.Next() {
		var club models.Club
		if err := scanClub(rows, &club); err != nil {
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating club rows: %w", err)
	}
	return clubs, nil
}

func scanClub(row rowScanner, club *models.Club) error {
	var leaderID sql.NullInt64
	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.Description,
		&club.Category,
		&leaderID,
		&club.CreatedAt,
		&club.MemberCount,
	)
	if err != nil {
		return err
	}
	if leaderID.Valid {
		id := int(leaderID.Int64)
		club.LeaderID = &id
	}
	return nil
}

func (r *postgresClubRepository) handleClubError(err error) error {
	if code, constraint, ok := pqViolation(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "clubs_name_key":
			return ErrClubNameConflict
		case code == pqForeignKeyViolation && constraint == "clubs_leader_id_fkey":
			return ErrClubLeaderInvalid
		}
	}
	return fmt.Errorf("club query failed: %w", err)
}
