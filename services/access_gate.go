package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
)

// AccessGate holds the guard predicates. Identity is always passed in; a nil
// identity is a guest.
type AccessGate interface {
	RequireAuthenticated(identity *models.Identity) error
	RequireClubLeader(ctx context.Context, identity *models.Identity, clubID int) (*models.Club, error)
	RequireClubMember(ctx context.Context, identity *models.Identity, clubID int) (*models.Club, error)
}

type accessGate struct {
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
}

func NewAccessGate(clubRepo repositories.ClubRepository, membershipRepo repositories.MembershipRepository) AccessGate {
	return &accessGate{clubRepo: clubRepo, membershipRepo: membershipRepo}
}

func (g *accessGate) RequireAuthenticated(identity *models.Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	return nil
}

func (g *accessGate) RequireClubLeader(ctx context.Context, identity *models.Identity, clubID int) (*models.Club, error) {
	if err := g.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	club, err := getClub(ctx, g.clubRepo, clubID)
	if err != nil {
		return nil, err
	}
	if !club.IsLedBy(identity.UserID) {
		return nil, ErrNotClubLeader
	}
	return club, nil
}

func (g *accessGate) RequireClubMember(ctx context.Context, identity *models.Identity, clubID int) (*models.Club, error) {
	if err := g.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	club, err := getClub(ctx, g.clubRepo, clubID)
	if err != nil {
		return nil, err
	}
	isMember, err := g.membershipRepo.Contains(ctx, identity.UserID, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership of user %d in club %d: %w", identity.UserID, clubID, err)
	}
	if !isMember {
		return nil, ErrNotClubMember
	}
	return club, nil
}

func getClub(ctx context.Context, clubRepo repositories.ClubRepository, clubID int) (*models.Club, error) {
	club, err := clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club %d: %w", clubID, err)
	}
	return club, nil
}
