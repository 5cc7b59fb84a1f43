package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

// MembershipService joins and leaves clubs. Both operations are idempotent.
type MembershipService interface {
	// Join reports whether a new membership was created.
	Join(ctx context.Context, identity *models.Identity, clubID int) (bool, error)
	// Leave keeps leadership: a leader who leaves still leads the club.
	Leave(ctx context.Context, identity *models.Identity, clubID int) (bool, error)
}

type membershipService struct {
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
	gate           AccessGate
	badges         BadgeService
	notifier       Notifier
	logger         *slog.Logger
}

func NewMembershipService(
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	gate AccessGate,
	badges BadgeService,
	notifier Notifier,
	logger *slog.Logger,
) MembershipService {
	return &membershipService{
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		gate:           gate,
		badges:         badges,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *membershipService) Join(ctx context.Context, identity *models.Identity, clubID int) (bool, error) {
	if err := s.gate.RequireAuthenticated(identity); err != nil {
		return false, err
	}
	club, err := getClub(ctx, s.clubRepo, clubID)
	if err != nil {
		return false, err
	}

	added, err := s.membershipRepo.Add(ctx, nil, identity.UserID, club.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipClubInvalid):
			return false, ErrClubNotFound
		case errors.Is(err, repositories.ErrMembershipUserInvalid):
			return false, ErrUserNotFound
		default:
			return false, fmt.Errorf("failed to add user %d to club %d: %w", identity.UserID, club.ID, err)
		}
	}
	if !added {
		return false, nil
	}

	s.badges.OnClubJoined(ctx, identity.UserID)
	s.notifier.Publish(live.ClubRoom(club.ID), live.TypeMemberJoined, map[string]interface{}{
		"club_id":  club.ID,
		"user_id":  identity.UserID,
		"username": identity.Username,
	})
	s.logger.InfoContext(ctx, "club joined", slog.Int("club_id", club.ID), slog.Int("user_id", identity.UserID))
	return true, nil
}

func (s *membershipService) Leave(ctx context.Context, identity *models.Identity, clubID int) (bool, error) {
	if err := s.gate.RequireAuthenticated(identity); err != nil {
		return false, err
	}
	club, err := getClub(ctx, s.clubRepo, clubID)
	if err != nil {
		return false, err
	}

	removed, err := s.membershipRepo.Remove(ctx, identity.UserID, club.ID)
	if err != nil {
		return false, fmt.Errorf("failed to remove user %d from club %d: %w", identity.UserID, club.ID, err)
	}
	if removed {
		s.logger.InfoContext(ctx, "club left", slog.Int("club_id", club.ID), slog.Int("user_id", identity.UserID))
	}
	return removed, nil
}
