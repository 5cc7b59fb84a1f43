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

type NewsService interface {
	// List returns the newest news first; limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]models.News, error)
	Get(ctx context.Context, id int) (*models.News, error)
	// Create publishes news about an event. Only the leader of the event's
	// club may do it; institution-wide news comes from seed data.
	Create(ctx context.Context, identity *models.Identity, input NewsInput) (*models.News, error)
}

type NewsInput struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content" validate:"required,notblank"`
	EventID *int   `json:"event_id"`
}

type newsService struct {
	newsRepo  repositories.NewsRepository
	eventRepo repositories.EventRepository
	gate      AccessGate
	notifier  Notifier
	logger    *slog.Logger
}

func NewNewsService(
	newsRepo repositories.NewsRepository,
	eventRepo repositories.EventRepository,
	gate AccessGate,
	notifier Notifier,
	logger *slog.Logger,
) NewsService {
	return &newsService{
		newsRepo:  newsRepo,
		eventRepo: eventRepo,
		gate:      gate,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *newsService) List(ctx context.Context, limit int) ([]models.News, error) {
	news, err := s.newsRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return news, nil
}

func (s *newsService) Get(ctx context.Context, id int) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news %d: %w", id, err)
	}
	return news, nil
}

func (s *newsService) Create(ctx context.Context, identity *models.Identity, input NewsInput) (*models.News, error) {
	if err := s.gate.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.EventID == nil {
		return nil, ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, *input.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", *input.EventID, err)
	}
	if _, err := s.gate.RequireClubLeader(ctx, identity, event.ClubID); err != nil {
		return nil, err
	}

	news := &models.News{
		Title:   input.Title,
		Content: input.Content,
		EventID: &event.ID,
	}
	if err := s.newsRepo.Create(ctx, nil, news); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	s.notifier.Publish(live.ClubRoom(event.ClubID), live.TypeNewsPublished, news)
	s.logger.InfoContext(ctx, "news published", slog.Int("news_id", news.ID), slog.Int("event_id", event.ID))
	return news, nil
}
