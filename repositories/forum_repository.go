package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
)

var (
	ErrTopicNotFound     = errors.New("forum topic not found")
	ErrForumClubInvalid  = errors.New("forum club conflict or invalid")
	ErrForumTopicInvalid = errors.New("forum topic conflict or invalid")
)

type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *models.ForumTopic) error
	GetTopic(ctx context.Context, id int) (*models.ForumTopic, error)
	ListTopicsByClub(ctx context.Context, clubID int) ([]models.ForumTopic, error)
	CreatePost(ctx context.Context, post *models.ForumPost) error
	ListPostsByTopic(ctx context.Context, topicID int) ([]models.ForumPost, error)
}

type postgresForumRepository struct {
	db *sql.DB
}

func NewPostgresForumRepository(db *sql.DB) ForumRepository {
	return &postgresForumRepository{db: db}
}

func (r *postgresForumRepository) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	query := `
		INSERT INTO forum_topics (club_id, author_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, topic.ClubID, topic.AuthorID, topic.Title, topic.Content).
		Scan(&topic.ID, &topic.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok && code == pqForeignKeyViolation {
			switch constraint {
			case "forum_topics_club_id_fkey":
				return ErrForumClubInvalid
			case "forum_topics_author_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to create forum topic: %w", err)
	}
	return nil
}

func (r *postgresForumRepository) GetTopic(ctx context.Context, id int) (*models.ForumTopic, error) {
	query := `
		SELECT t.id, t.club_id, t.author_id, t.title, t.content, t.created_at, u.username,
		       (SELECT COUNT(*) FROM forum_posts p WHERE p.topic_id = t.id)
		FROM forum_topics t
		JOIN users u ON u.id = t.author_id
		WHERE t.id = $1`

	t := &models.ForumTopic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ClubID, &t.AuthorID, &t.Title, &t.Content, &t.CreatedAt, &t.AuthorUsername, &t.PostCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get forum topic %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresForumRepository) ListTopicsByClub(ctx context.Context, clubID int) ([]models.ForumTopic, error) {
	query := `
		SELECT t.id, t.club_id, t.author_id, t.title, t.content, t.created_at, u.username,
		       (SELECT COUNT(*) FROM forum_posts p WHERE p.topic_id = t.id)
		FROM forum_topics t
		JOIN users u ON u.id = t.author_id
		WHERE t.club_id = $1
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics for club %d: %w", clubID, err)
	}
	defer rows.Close()

	topics := make([]models.ForumTopic, 0)
	for rows.Next() {
		var t models.ForumTopic
		if err := rows.Scan(&t.ID, &t.ClubID, &t.AuthorID, &t.Title, &t.Content, &t.CreatedAt, &t.AuthorUsername, &t.PostCount); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *postgresForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	query := `
		INSERT INTO forum_posts (topic_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, post.TopicID, post.AuthorID, post.Content).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqViolation(err); ok && code == pqForeignKeyViolation {
			switch constraint {
			case "forum_posts_topic_id_fkey":
				return ErrForumTopicInvalid
			case "forum_posts_author_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to create forum post: %w", err)
	}
	return nil
}

func (r *postgresForumRepository) ListPostsByTopic(ctx context.Context, topicID int) ([]models.ForumPost, error) {
	query := `
		SELECT p.id, p.topic_id, p.author_id, p.content, p.created_at, u.username
		FROM forum_posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.topic_id = $1
		ORDER BY p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for topic %d: %w", topicID, err)
	}
	defer rows.Close()

	posts := make([]models.ForumPost, 0)
	for rows.Next() {
		var p models.ForumPost
		if err := rows.Scan(&p.ID, &p.TopicID, &p.AuthorID, &p.Content, &p.CreatedAt, &p.AuthorUsername); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
