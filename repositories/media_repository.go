package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var (
	ErrMediaNotFound         = errors.New("media not found")
	ErrMediaFilenameConflict = errors.New("media filename conflict")
	ErrMediaClubInvalid      = errors.New("media club conflict or invalid")
)

type MediaRepository interface {
	Create(ctx context.Context, media *models.ClubMedia) error
	GetByID(ctx context.Context, id int) (*models.ClubMedia, error)
	ListByClub(ctx context.Context, clubID int) ([]models.ClubMedia, error)
	// ListFilenamesByClub and ListFilenamesByUploader return storage keys
	// that must be removed from the blob store before the owning row goes.
	ListFilenamesByClub(ctx context.Context, clubID int) ([]string, error)
	ListFilenamesByUploader(ctx context.Context, userID int) ([]string, error)
}

type postgresMediaRepository struct {
	db *sql.DB
}

func NewPostgresMediaRepository(db *sql.DB) MediaRepository {
	return &postgresMediaRepository{db: db}
}

const mediaColumns = `id, club_id, uploader_id, filename, description, content_type, uploaded_at`

func (r *postgresMediaRepository) Create(ctx context.Context, media *models.ClubMedia) error {
	query := `
		INSERT INTO club_media (club_id, uploader_id, filename, description, content_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at`

	err := r.db.QueryRowContext(ctx, query,
		media.ClubID,
		media.UploaderID,
		media.Filename,
		media.Description,
		media.ContentType,
	).Scan(&media.ID, &media.UploadedAt)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "club_media_filename_key":
				return ErrMediaFilenameConflict
			case code == pqForeignKeyViolation && constraint == "club_media_club_id_fkey":
				return ErrMediaClubInvalid
			case code == pqForeignKeyViolation && constraint == "club_media_uploader_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to create media record: %w", err)
	}
	return nil
}

func (r *postgresMediaRepository) GetByID(ctx context.Context, id int) (*models.ClubMedia, error) {
	m := &models.ClubMedia{}
	err := r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM club_media WHERE id = $1`, id).Scan(
		&m.ID, &m.ClubID, &m.UploaderID, &m.Filename, &m.Description, &m.ContentType, &m.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMediaRepository) ListByClub(ctx context.Context, clubID int) ([]models.ClubMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM club_media WHERE club_id = $1 ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media for club %d: %w", clubID, err)
	}
	defer rows.Close()

	items := make([]models.ClubMedia, 0)
	for rows.Next() {
		var m models.ClubMedia
		if err := rows.Scan(&m.ID, &m.ClubID, &m.UploaderID, &m.Filename, &m.Description, &m.ContentType, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresMediaRepository) ListFilenamesByClub(ctx context.Context, clubID int) ([]string, error) {
	return r.filenames(ctx, `SELECT filename FROM club_media WHERE club_id = $1`, clubID)
}

func (r *postgresMediaRepository) ListFilenamesByUploader(ctx context.Context, userID int) ([]string, error) {
	return r.filenames(ctx, `SELECT filename FROM club_media WHERE uploader_id = $1`, userID)
}

func (r *postgresMediaRepository) filenames(ctx context.Context, query string, id int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list media filenames: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan media filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
