package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	overviewEventLimit = 3
	overviewNewsLimit  = 5
)

// HubService builds the landing page. Its sections are loaded concurrently.
type HubService interface {
	Overview(ctx context.Context, identity *models.Identity) (*models.HubOverview, error)
}

type hubService struct {
	events   EventService
	news     NewsService
	menu     MenuService
	calendar CalendarService
	badges   BadgeService
	clubRepo repositories.ClubRepository
	now      func() time.Time
}

func NewHubService(
	events EventService,
	news NewsService,
	menu MenuService,
	calendar CalendarService,
	badges BadgeService,
	clubRepo repositories.ClubRepository,
) HubService {
	return &hubService{
		events:   events,
		news:     news,
		menu:     menu,
		calendar: calendar,
		badges:   badges,
		clubRepo: clubRepo,
		now:      time.Now,
	}
}

func (s *hubService) Overview(ctx context.Context, identity *models.Identity) (*models.HubOverview, error) {
	today := s.now().UTC()
	overview := &models.HubOverview{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.events.Upcoming(gctx, overviewEventLimit)
		overview.UpcomingEvents = events
		return err
	})
	g.Go(func() error {
		news, err := s.news.List(gctx, overviewNewsLimit)
		overview.LatestNews = news
		return err
	})
	g.Go(func() error {
		menu, err := s.menu.WeekMenu(gctx, today)
		overview.Menu = menu
		return err
	})
	g.Go(func() error {
		entries, err := s.calendar.Upcoming(gctx, today)
		overview.Calendar = entries
		return err
	})

	if identity != nil {
		g.Go(func() error {
			clubs, err := s.clubRepo.ListByMember(gctx, identity.UserID)
			if err != nil {
				return fmt.Errorf("failed to list clubs for user %d: %w", identity.UserID, err)
			}
			overview.MyClubs = clubs
			return nil
		})
		g.Go(func() error {
			badges, err := s.badges.ListUserBadges(gctx, identity.UserID)
			overview.MyBadges = badges
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}
