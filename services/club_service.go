package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/storage"
)

type ClubService interface {
	List(ctx context.Context) ([]models.Club, error)
	Ranking(ctx context.Context) ([]models.Club, error)
	// Get returns the club page; identity may be nil for guests.
	Get(ctx context.Context, identity *models.Identity, clubID int) (*models.ClubDetail, error)
	Members(ctx context.Context, clubID int) ([]models.User, error)
	Create(ctx context.Context, identity *models.Identity, input ClubInput) (*models.Club, error)
	Update(ctx context.Context, identity *models.Identity, clubID int, input ClubInput) (*models.Club, error)
	Delete(ctx context.Context, identity *models.Identity, clubID int) error
}

type ClubInput struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,notblank,max=50"`
}

type clubService struct {
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
	eventRepo      repositories.EventRepository
	mediaRepo      repositories.MediaRepository
	userRepo       repositories.UserRepository
	tx             repositories.Transactor
	gate           AccessGate
	badges         BadgeService
	uploader       storage.FileUploader
	logger         *slog.Logger
	now            func() time.Time
}

func NewClubService(
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	eventRepo repositories.EventRepository,
	mediaRepo repositories.MediaRepository,
	userRepo repositories.UserRepository,
	tx repositories.Transactor,
	gate AccessGate,
	badges BadgeService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ClubService {
	return &clubService{
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		mediaRepo:      mediaRepo,
		userRepo:       userRepo,
		tx:             tx,
		gate:           gate,
		badges:         badges,
		uploader:       uploader,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *clubService) List(ctx context.Context) ([]models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

func (s *clubService) Ranking(ctx context.Context) ([]models.Club, error) {
	clubs, err := s.clubRepo.ListRanking(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to rank clubs: %w", err)
	}
	return clubs, nil
}

func (s *clubService) Get(ctx context.Context, identity *models.Identity, clubID int) (*models.ClubDetail, error) {
	club, err := getClub(ctx, s.clubRepo, clubID)
	if err != nil {
		return nil, err
	}

	if club.LeaderID != nil {
		leader, err := s.userRepo.GetByID(ctx, *club.LeaderID)
		switch {
		case err == nil:
			populateUserDetails(leader, s.uploader)
			club.Leader = leader
		case errors.Is(err, repositories.ErrUserNotFound):
		default:
			s.logger.WarnContext(ctx, "failed to load club leader", slog.Int("club_id", club.ID), slog.Any("error", err))
		}
	}

	now := s.now().UTC()
	upcoming, err := s.eventRepo.List(ctx, repositories.EventFilter{ClubID: &club.ID, From: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events of club %d: %w", club.ID, err)
	}
	past, err := s.eventRepo.List(ctx, repositories.EventFilter{ClubID: &club.ID, Before: &now, Desc: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list past events of club %d: %w", club.ID, err)
	}

	detail := &models.ClubDetail{
		Club:           club,
		UpcomingEvents: upcoming,
		PastEvents:     past,
	}
	if identity != nil {
		detail.IsLeader = club.IsLedBy(identity.UserID)
		detail.IsMember, err = s.membershipRepo.Contains(ctx, identity.UserID, club.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership in club %d: %w", club.ID, err)
		}
	}
	return detail, nil
}

func (s *clubService) Members(ctx context.Context, clubID int) ([]models.User, error) {
	if _, err := getClub(ctx, s.clubRepo, clubID); err != nil {
		return nil, err
	}
	members, err := s.membershipRepo.ListMembers(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of club %d: %w", clubID, err)
	}
	for i := range members {
		populateUserDetails(&members[i], s.uploader)
	}
	return members, nil
}

// Create makes the caller the leader and first member of the new club.
func (s *clubService) Create(ctx context.Context, identity *models.Identity, input ClubInput) (*models.Club, error) {
	if err := s.gate.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	input = normalizeClubInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	leaderID := identity.UserID
	club := &models.Club{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		LeaderID:    &leaderID,
	}

	err := s.tx.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.clubRepo.Create(ctx, tx, club); err != nil {
			return err
		}
		_, err := s.membershipRepo.Add(ctx, tx, identity.UserID, club.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNameConflict):
			return nil, ErrClubNameConflict
		case errors.Is(err, repositories.ErrClubLeaderInvalid), errors.Is(err, repositories.ErrMembershipUserInvalid):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to create club: %w", err)
		}
	}

	club.MemberCount = 1
	s.badges.OnClubJoined(ctx, identity.UserID)
	s.logger.InfoContext(ctx, "club created", slog.Int("club_id", club.ID), slog.Int("leader_id", identity.UserID))
	return club, nil
}

func (s *clubService) Update(ctx context.Context, identity *models.Identity, clubID int, input ClubInput) (*models.Club, error) {
	club, err := s.gate.RequireClubLeader(ctx, identity, clubID)
	if err != nil {
		return nil, err
	}
	input = normalizeClubInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	club.Name = input.Name
	club.Description = input.Description
	club.Category = input.Category

	if err := s.clubRepo.Update(ctx, club); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNameConflict):
			return nil, ErrClubNameConflict
		case errors.Is(err, repositories.ErrClubNotFound):
			return nil, ErrClubNotFound
		default:
			return nil, fmt.Errorf("failed to update club %d: %w", clubID, err)
		}
	}
	return club, nil
}

// Delete removes the club with its events, topics, posts and media rows.
// Stored media files are removed after the rows are gone.
func (s *clubService) Delete(ctx context.Context, identity *models.Identity, clubID int) error {
	if _, err := s.gate.RequireClubLeader(ctx, identity, clubID); err != nil {
		return err
	}

	blobKeys, err := s.mediaRepo.ListFilenamesByClub(ctx, clubID)
	if err != nil {
		return fmt.Errorf("failed to list media of club %d: %w", clubID, err)
	}

	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to delete club %d: %w", clubID, err)
	}

	deleteBlobs(ctx, s.uploader, s.logger, blobKeys)
	s.logger.InfoContext(ctx, "club deleted", slog.Int("club_id", clubID), slog.Int("blobs", len(blobKeys)))
	return nil
}

func normalizeClubInput(input ClubInput) ClubInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	return input
}
