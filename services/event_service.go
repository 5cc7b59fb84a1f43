package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

const eventNewsDateLayout = "02/01/2006 às 15:04"

type EventService interface {
	List(ctx context.Context) ([]models.EventView, error)
	ListByClub(ctx context.Context, clubID int) ([]models.EventView, error)
	// Upcoming returns the next events from now, soonest first.
	Upcoming(ctx context.Context, limit int) ([]models.EventView, error)
	Get(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error)
	// Create also publishes an announcement news item in the same transaction.
	Create(ctx context.Context, identity *models.Identity, clubID int, input EventInput) (*models.EventView, error)
	Enroll(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error)
}

type EventInput struct {
	Title       string    `json:"title" validate:"required,notblank,max=150"`
	Description string    `json:"description" validate:"required,notblank,max=5000"`
	Capacity    int       `json:"capacity"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

type eventService struct {
	eventRepo      repositories.EventRepository
	enrollmentRepo repositories.EnrollmentRepository
	newsRepo       repositories.NewsRepository
	clubRepo       repositories.ClubRepository
	tx             repositories.Transactor
	gate           AccessGate
	badges         BadgeService
	notifier       Notifier
	metrics        Metrics
	logger         *slog.Logger
	now            func() time.Time
}

func NewEventService(
	eventRepo repositories.EventRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	newsRepo repositories.NewsRepository,
	clubRepo repositories.ClubRepository,
	tx repositories.Transactor,
	gate AccessGate,
	badges BadgeService,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		newsRepo:       newsRepo,
		clubRepo:       clubRepo,
		tx:             tx,
		gate:           gate,
		badges:         badges,
		notifier:       notifier,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *eventService) List(ctx context.Context) ([]models.EventView, error) {
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return eventViews(events), nil
}

func (s *eventService) ListByClub(ctx context.Context, clubID int) ([]models.EventView, error) {
	if _, err := getClub(ctx, s.clubRepo, clubID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{ClubID: &clubID})
	if err != nil {
		return nil, fmt.Errorf("failed to list events of club %d: %w", clubID, err)
	}
	return eventViews(events), nil
}

func (s *eventService) Upcoming(ctx context.Context, limit int) ([]models.EventView, error) {
	now := s.now().UTC()
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{From: &now, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return eventViews(events), nil
}

func (s *eventService) Get(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	club, err := getClub(ctx, s.clubRepo, event.ClubID)
	if err != nil {
		return nil, err
	}
	event.Club = club

	if identity != nil {
		event.IsEnrolled, err = s.enrollmentRepo.Contains(ctx, nil, identity.UserID, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment in event %d: %w", event.ID, err)
		}
	}

	view := models.NewEventView(event)
	return &view, nil
}

func (s *eventService) Create(ctx context.Context, identity *models.Identity, clubID int, input EventInput) (*models.EventView, error) {
	club, err := s.gate.RequireClubLeader(ctx, identity, clubID)
	if err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Capacity <= 0 {
		return nil, ErrInvalidEventCapacity
	}

	event := &models.Event{
		ClubID:      club.ID,
		Title:       input.Title,
		Description: input.Description,
		Capacity:    input.Capacity,
		ScheduledAt: input.ScheduledAt.UTC(),
	}
	news := &models.News{
		Title:   fmt.Sprintf("Novo Evento: %s", event.Title),
		Content: announcementContent(club.Name, event),
	}

	err = s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return err
		}
		news.EventID = &event.ID
		return s.newsRepo.Create(ctx, tx, news)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventCapacityInvalid):
			return nil, ErrInvalidEventCapacity
		case errors.Is(err, repositories.ErrEventClubInvalid):
			return nil, ErrClubNotFound
		default:
			return nil, fmt.Errorf("failed to create event for club %d: %w", club.ID, err)
		}
	}

	s.badges.OnEventCreated(ctx, identity.UserID)

	room := live.ClubRoom(club.ID)
	s.notifier.Publish(room, live.TypeEventCreated, event)
	s.notifier.Publish(room, live.TypeNewsPublished, news)
	s.logger.InfoContext(ctx, "event created",
		slog.Int("event_id", event.ID),
		slog.Int("club_id", club.ID),
		slog.Int("news_id", news.ID),
	)

	event.Club = club
	view := models.NewEventView(event)
	return &view, nil
}

// Enroll checks capacity and inserts the enrollment while holding the event
// row lock, so concurrent enrollments cannot oversubscribe an event.
func (s *eventService) Enroll(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error) {
	if err := s.gate.RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	var event *models.Event
	err := s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		var err error
		event, err = s.eventRepo.GetForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		enrolled, err := s.enrollmentRepo.Contains(ctx, tx, identity.UserID, event.ID)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}

		count, err := s.enrollmentRepo.CountForEvent(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		event.EnrolledCount = count
		if event.RemainingSeats() <= 0 {
			return ErrCapacityExceeded
		}

		if err := s.enrollmentRepo.Add(ctx, tx, identity.UserID, event.ID); err != nil {
			return err
		}
		event.EnrolledCount++
		event.IsEnrolled = true
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyEnrolled), errors.Is(err, repositories.ErrEnrollmentConflict):
			s.metrics.EnrollmentAttempt(EnrollmentOutcomeAlreadyEnrolled)
			return nil, ErrAlreadyEnrolled
		case errors.Is(err, ErrCapacityExceeded):
			s.metrics.EnrollmentAttempt(EnrollmentOutcomeCapacityExceeded)
			return nil, ErrCapacityExceeded
		case errors.Is(err, repositories.ErrEventNotFound), errors.Is(err, repositories.ErrEnrollmentEventInvalid):
			return nil, ErrEventNotFound
		default:
			return nil, fmt.Errorf("failed to enroll user %d in event %d: %w", identity.UserID, eventID, err)
		}
	}

	s.metrics.EnrollmentAttempt(EnrollmentOutcomeOK)
	s.badges.OnEnrolled(ctx, identity.UserID)
	s.logger.InfoContext(ctx, "enrolled in event",
		slog.Int("event_id", event.ID),
		slog.Int("user_id", identity.UserID),
		slog.Int("remaining_seats", event.RemainingSeats()),
	)

	view := models.NewEventView(event)
	return &view, nil
}

func (s *eventService) getEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return event, nil
}

func announcementContent(clubName string, event *models.Event) string {
	content := fmt.Sprintf("O %s anunciou um novo evento para %s.", clubName, event.ScheduledAt.Format(eventNewsDateLayout))
	if event.Description != "" {
		content += " " + event.Description
	}
	return content
}
