package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

// ForumService is the per-club discussion board. Every operation requires
// club membership, and a topic is only visible through its own club.
type ForumService interface {
	ListTopics(ctx context.Context, identity *models.Identity, clubID int) ([]models.ForumTopic, error)
	CreateTopic(ctx context.Context, identity *models.Identity, clubID int, input TopicInput) (*models.ForumTopic, error)
	GetTopic(ctx context.Context, identity *models.Identity, clubID, topicID int) (*models.ForumTopic, error)
	CreatePost(ctx context.Context, identity *models.Identity, clubID, topicID int, input PostInput) (*models.ForumPost, error)
}

type TopicInput struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,notblank"`
}

type PostInput struct {
	Content string `json:"content" validate:"required,notblank"`
}

type forumService struct {
	forumRepo repositories.ForumRepository
	gate      AccessGate
	badges    BadgeService
	notifier  Notifier
	logger    *slog.Logger
}

func NewForumService(
	forumRepo repositories.ForumRepository,
	gate AccessGate,
	badges BadgeService,
	notifier Notifier,
	logger *slog.Logger,
) ForumService {
	return &forumService{
		forumRepo: forumRepo,
		gate:      gate,
		badges:    badges,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *forumService) ListTopics(ctx context.Context, identity *models.Identity, clubID int) ([]models.ForumTopic, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	topics, err := s.forumRepo.ListTopicsByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics of club %d: %w", clubID, err)
	}
	return topics, nil
}

func (s *forumService) CreateTopic(ctx context.Context, identity *models.Identity, clubID int, input TopicInput) (*models.ForumTopic, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	topic := &models.ForumTopic{
		ClubID:         clubID,
		AuthorID:       identity.UserID,
		Title:          input.Title,
		Content:        input.Content,
		AuthorUsername: identity.Username,
	}
	if err := s.forumRepo.CreateTopic(ctx, topic); err != nil {
		if errors.Is(err, repositories.ErrForumClubInvalid) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to create topic in club %d: %w", clubID, err)
	}

	s.badges.OnTopicCreated(ctx, identity.UserID)
	s.notifier.Publish(live.ClubRoom(clubID), live.TypeTopicCreated, topic)
	s.logger.InfoContext(ctx, "forum topic created", slog.Int("topic_id", topic.ID), slog.Int("club_id", clubID))
	return topic, nil
}

func (s *forumService) GetTopic(ctx context.Context, identity *models.Identity, clubID, topicID int) (*models.ForumTopic, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	topic, err := s.topicInClub(ctx, clubID, topicID)
	if err != nil {
		return nil, err
	}
	topic.Posts, err = s.forumRepo.ListPostsByTopic(ctx, topic.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of topic %d: %w", topic.ID, err)
	}
	return topic, nil
}

func (s *forumService) CreatePost(ctx context.Context, identity *models.Identity, clubID, topicID int, input PostInput) (*models.ForumPost, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	topic, err := s.topicInClub(ctx, clubID, topicID)
	if err != nil {
		return nil, err
	}

	post := &models.ForumPost{
		TopicID:        topic.ID,
		AuthorID:       identity.UserID,
		Content:        input.Content,
		AuthorUsername: identity.Username,
	}
	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrForumTopicInvalid) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to create post in topic %d: %w", topic.ID, err)
	}

	s.notifier.Publish(live.ClubRoom(clubID), live.TypePostCreated, post)
	return post, nil
}

// topicInClub hides topics of other clubs behind NotFound.
func (s *forumService) topicInClub(ctx context.Context, clubID, topicID int) (*models.ForumTopic, error) {
	topic, err := s.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, repositories.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic %d: %w", topicID, err)
	}
	if topic.ClubID != clubID {
		return nil, ErrTopicNotFound
	}
	return topic, nil
}
