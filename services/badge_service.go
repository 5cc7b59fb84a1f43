package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

// foundingMemberLimit is the inclusive user count up to which new
// registrations earn Founding Member.
const foundingMemberLimit = 10

// BadgeService is the badge rule engine. The On* hooks run after the
// triggering mutation has committed; they log failures instead of returning
// them, so a badge problem never undoes the action that triggered it.
type BadgeService interface {
	AwardIfEligible(ctx context.Context, userID int, badgeName string) (bool, error)

	OnRegistered(ctx context.Context, userID int)
	OnEnrolled(ctx context.Context, userID int)
	OnClubJoined(ctx context.Context, userID int)
	OnEventCreated(ctx context.Context, userID int)
	OnTopicCreated(ctx context.Context, userID int)

	ListBadges(ctx context.Context) ([]models.Badge, error)
	ListUserBadges(ctx context.Context, userID int) ([]models.Badge, error)
}

type badgeService struct {
	badgeRepo      repositories.BadgeRepository
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	enrollmentRepo repositories.EnrollmentRepository
	notifier       Notifier
	metrics        Metrics
	logger         *slog.Logger
}

func NewBadgeService(
	badgeRepo repositories.BadgeRepository,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) BadgeService {
	return &badgeService{
		badgeRepo:      badgeRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		metrics:        metrics,
		logger:         logger,
	}
}

func (s *badgeService) AwardIfEligible(ctx context.Context, userID int, badgeName string) (bool, error) {
	awarded, err := s.badgeRepo.Award(ctx, userID, badgeName)
	if err != nil {
		return false, fmt.Errorf("failed to award badge %q to user %d: %w", badgeName, userID, err)
	}
	if !awarded {
		return false, nil
	}

	s.metrics.BadgeAwarded(badgeName)
	s.notifier.Publish(live.UserRoom(userID), live.TypeBadgeAwarded, map[string]interface{}{
		"user_id": userID,
		"badge":   badgeName,
	})
	s.logger.InfoContext(ctx, "badge awarded", slog.Int("user_id", userID), slog.String("badge", badgeName))
	return true, nil
}

func (s *badgeService) OnRegistered(ctx context.Context, userID int) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		s.hookFailed(ctx, "registration", userID, err)
		return
	}
	if total <= foundingMemberLimit {
		s.award(ctx, "registration", userID, models.BadgeFoundingMember)
	}
}

func (s *badgeService) OnEnrolled(ctx context.Context, userID int) {
	count, err := s.enrollmentRepo.CountForUser(ctx, userID)
	if err != nil {
		s.hookFailed(ctx, "enrollment", userID, err)
		return
	}
	switch count {
	case 1:
		s.award(ctx, "enrollment", userID, models.BadgeActiveParticipant)
	case 5:
		s.award(ctx, "enrollment", userID, models.BadgeEventEnthusiast)
	}
}

func (s *badgeService) OnClubJoined(ctx context.Context, userID int) {
	count, err := s.membershipRepo.CountForUser(ctx, userID)
	if err != nil {
		s.hookFailed(ctx, "club_join", userID, err)
		return
	}
	switch count {
	case 1:
		s.award(ctx, "club_join", userID, models.BadgeClubExplorer)
	case 3:
		s.award(ctx, "club_join", userID, models.BadgeCampusSocialite)
	}
}

func (s *badgeService) OnEventCreated(ctx context.Context, userID int) {
	s.award(ctx, "event_created", userID, models.BadgeEventOrganizer)
}

func (s *badgeService) OnTopicCreated(ctx context.Context, userID int) {
	s.award(ctx, "topic_created", userID, models.BadgeForumPioneer)
}

func (s *badgeService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	badges, err := s.badgeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

func (s *badgeService) ListUserBadges(ctx context.Context, userID int) ([]models.Badge, error) {
	badges, err := s.badgeRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for user %d: %w", userID, err)
	}
	return badges, nil
}

func (s *badgeService) award(ctx context.Context, trigger string, userID int, badgeName string) {
	if _, err := s.AwardIfEligible(ctx, userID, badgeName); err != nil {
		s.hookFailed(ctx, trigger, userID, err)
	}
}

func (s *badgeService) hookFailed(ctx context.Context, trigger string, userID int, err error) {
	s.logger.ErrorContext(ctx, "badge hook failed",
		slog.String("trigger", trigger),
		slog.Int("user_id", userID),
		slog.Any("error", err),
	)
}
