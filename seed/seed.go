// Package seed loads demo fixtures into an empty database. It writes through
// the repositories directly, so badge triggers do not run; the fixed awards
// listed in the fixtures are attached at the end instead.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Fixtures struct {
	Badges   []BadgeFixture `yaml:"badges"`
	Users    []UserFixture  `yaml:"users"`
	Clubs    []ClubFixture  `yaml:"clubs"`
	Events   []EventFixture `yaml:"events"`
	News     []NewsFixture  `yaml:"news"`
	Menu     MenuFixture    `yaml:"menu"`
	Calendar []DateFixture  `yaml:"calendar"`
	Awards   []AwardFixture `yaml:"awards"`
}

type BadgeFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	IconClass   string `yaml:"icon_class"`
}

type UserFixture struct {
	Key      string `yaml:"key"`
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ClubFixture struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Leader      string   `yaml:"leader"`
	Members     []string `yaml:"members"`
}

type EventFixture struct {
	Key         string `yaml:"key"`
	Club        string `yaml:"club"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Capacity    int    `yaml:"capacity"`
	InDays      int    `yaml:"in_days"`
	At          string `yaml:"at"`
}

type NewsFixture struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Event   string `yaml:"event"`
}

type MenuFixture struct {
	Days       int    `yaml:"days"`
	MainCourse string `yaml:"main_course"`
	Vegetarian string `yaml:"vegetarian"`
	SideDish   string `yaml:"side_dish"`
	Salad      string `yaml:"salad"`
	Dessert    string `yaml:"dessert"`
}

type DateFixture struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
}

type AwardFixture struct {
	User  string `yaml:"user"`
	Badge string `yaml:"badge"`
}

// Default returns the embedded fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultData)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixtures: %w", err)
	}
	return &f, nil
}

type Repositories struct {
	Users       repositories.UserRepository
	Clubs       repositories.ClubRepository
	Memberships repositories.MembershipRepository
	Events      repositories.EventRepository
	News        repositories.NewsRepository
	Badges      repositories.BadgeRepository
	Menu        repositories.MenuRepository
	Calendar    repositories.CalendarRepository
}

type Seeder struct {
	repos      Repositories
	logger     *slog.Logger
	bcryptCost int
}

func NewSeeder(repos Repositories, logger *slog.Logger) *Seeder {
	return &Seeder{repos: repos, logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// Run loads f into the database. A database that already has users is left
// untouched and Run reports false.
func (s *Seeder) Run(ctx context.Context, f *Fixtures, now time.Time) (bool, error) {
	count, err := s.repos.Users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "database already has users, skipping seed", slog.Int("users", count))
		return false, nil
	}

	for _, b := range f.Badges {
		badge := &models.Badge{Name: b.Name, Description: b.Description, IconClass: b.IconClass}
		if err := s.repos.Badges.Upsert(ctx, badge); err != nil {
			return false, fmt.Errorf("failed to seed badge %q: %w", b.Name, err)
		}
	}

	users, err := s.seedUsers(ctx, f.Users)
	if err != nil {
		return false, err
	}
	clubs, err := s.seedClubs(ctx, f.Clubs, users)
	if err != nil {
		return false, err
	}
	events, err := s.seedEvents(ctx, f.Events, clubs, now)
	if err != nil {
		return false, err
	}
	if err := s.seedNews(ctx, f.News, events); err != nil {
		return false, err
	}
	if err := s.seedMenu(ctx, f.Menu, now); err != nil {
		return false, err
	}
	if err := s.seedCalendar(ctx, f.Calendar); err != nil {
		return false, err
	}

	for _, a := range f.Awards {
		userID, ok := users[a.User]
		if !ok {
			return false, fmt.Errorf("award references unknown user %q", a.User)
		}
		if _, err := s.repos.Badges.Award(ctx, userID, a.Badge); err != nil {
			return false, fmt.Errorf("failed to award %q to %q: %w", a.Badge, a.User, err)
		}
	}

	s.logger.InfoContext(ctx, "seed completed",
		slog.Int("users", len(users)),
		slog.Int("clubs", len(clubs)),
		slog.Int("events", len(events)),
		slog.Int("news", len(f.News)),
	)
	return true, nil
}

func (s *Seeder) seedUsers(ctx context.Context, fixtures []UserFixture) (map[string]int, error) {
	ids := make(map[string]int, len(fixtures))
	for _, u := range fixtures {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %q: %w", u.Key, err)
		}
		user := &models.User{Email: u.Email, Username: u.Username, PasswordHash: string(hash)}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", u.Key, err)
		}
		ids[u.Key] = user.ID
	}
	return ids, nil
}

func (s *Seeder) seedClubs(ctx context.Context, fixtures []ClubFixture, users map[string]int) (map[string]*models.Club, error) {
	clubs := make(map[string]*models.Club, len(fixtures))
	for _, c := range fixtures {
		club := &models.Club{Name: c.Name, Description: c.Description, Category: c.Category}
		if c.Leader != "" {
			leaderID, ok := users[c.Leader]
			if !ok {
				return nil, fmt.Errorf("club %q references unknown leader %q", c.Key, c.Leader)
			}
			club.LeaderID = &leaderID
		}
		if err := s.repos.Clubs.Create(ctx, nil, club); err != nil {
			return nil, fmt.Errorf("failed to seed club %q: %w", c.Key, err)
		}
		for _, member := range c.Members {
			userID, ok := users[member]
			if !ok {
				return nil, fmt.Errorf("club %q references unknown member %q", c.Key, member)
			}
			if _, err := s.repos.Memberships.Add(ctx, nil, userID, club.ID); err != nil {
				return nil, fmt.Errorf("failed to add %q to club %q: %w", member, c.Key, err)
			}
		}
		clubs[c.Key] = club
	}
	return clubs, nil
}

func (s *Seeder) seedEvents(ctx context.Context, fixtures []EventFixture, clubs map[string]*models.Club, now time.Time) (map[string]int, error) {
	ids := make(map[string]int, len(fixtures))
	for _, e := range fixtures {
		club, ok := clubs[e.Club]
		if !ok {
			return nil, fmt.Errorf("event %q references unknown club %q", e.Key, e.Club)
		}
		scheduledAt, err := relativeTime(now, e.InDays, e.At)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Key, err)
		}
		event := &models.Event{
			ClubID:      club.ID,
			Title:       e.Title,
			Description: e.Description,
			Capacity:    e.Capacity,
			ScheduledAt: scheduledAt,
		}
		if err := s.repos.Events.Create(ctx, nil, event); err != nil {
			return nil, fmt.Errorf("failed to seed event %q: %w", e.Key, err)
		}
		ids[e.Key] = event.ID
	}
	return ids, nil
}

func (s *Seeder) seedNews(ctx context.Context, fixtures []NewsFixture, events map[string]int) error {
	for _, n := range fixtures {
		news := &models.News{Title: n.Title, Content: n.Content}
		if n.Event != "" {
			eventID, ok := events[n.Event]
			if !ok {
				return fmt.Errorf("news %q references unknown event %q", n.Title, n.Event)
			}
			news.EventID = &eventID
		}
		if err := s.repos.News.Create(ctx, nil, news); err != nil {
			return fmt.Errorf("failed to seed news %q: %w", n.Title, err)
		}
	}
	return nil
}

func (s *Seeder) seedMenu(ctx context.Context, f MenuFixture, now time.Time) error {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	for i := 0; i < f.Days; i++ {
		entry := &models.MenuEntry{
			Date:       monday.AddDate(0, 0, i),
			MainCourse: f.MainCourse,
			Vegetarian: f.Vegetarian,
			SideDish:   f.SideDish,
			Salad:      f.Salad,
			Dessert:    f.Dessert,
		}
		if err := s.repos.Menu.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed menu for %s: %w", entry.Date.Format(time.DateOnly), err)
		}
	}
	return nil
}

func (s *Seeder) seedCalendar(ctx context.Context, fixtures []DateFixture) error {
	for _, c := range fixtures {
		date, err := time.Parse(time.DateOnly, c.Date)
		if err != nil {
			return fmt.Errorf("calendar entry %q: invalid date %q: %w", c.Description, c.Date, err)
		}
		entry := &models.CalendarEntry{Date: date, Description: c.Description, Kind: c.Kind}
		if err := s.repos.Calendar.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed calendar entry %q: %w", c.Description, err)
		}
	}
	return nil
}

// relativeTime is the day now+days at the HH:MM clock time, in UTC.
func relativeTime(now time.Time, days int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	y, m, d := now.UTC().AddDate(0, 0, days).Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
