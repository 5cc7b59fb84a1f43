package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaultFixturesAreConsistent(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	require.NotEmpty(t, f.Users)
	require.NotEmpty(t, f.Clubs)
	assert.Len(t, f.Badges, 7)

	users := map[string]bool{}
	for _, u := range f.Users {
		users[u.Key] = true
	}
	clubs := map[string]bool{}
	for _, c := range f.Clubs {
		clubs[c.Key] = true
		if c.Leader != "" {
			assert.True(t, users[c.Leader], "club %s leader", c.Key)
		}
		for _, m := range c.Members {
			assert.True(t, users[m], "club %s member %s", c.Key, m)
		}
	}
	for _, e := range f.Events {
		assert.True(t, clubs[e.Club], "event %s club", e.Key)
		assert.Positive(t, e.Capacity, "event %s capacity", e.Key)
	}
	for _, c := range f.Calendar {
		_, err := time.Parse(time.DateOnly, c.Date)
		assert.NoError(t, err, c.Description)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("users: [unclosed"))
	assert.Error(t, err)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 9, 30, 22, 15, 0, 0, time.UTC)

	got, err := relativeTime(now, 2, "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 2, 14, 30, 0, 0, time.UTC), got)

	_, err = relativeTime(now, 1, "25:99")
	assert.Error(t, err)
}

// memoryRepos is a tiny in-memory store behind the repository interfaces
// the seeder writes through.
type memoryRepos struct {
	users    []*models.User
	clubs    []*models.Club
	members  [][2]int
	events   []*models.Event
	news     []*models.News
	badges   []string
	awards   [][2]interface{}
	menu     []*models.MenuEntry
	calendar []*models.CalendarEntry
}

type memUsers struct {
	repositories.UserRepository
	m *memoryRepos
}

func (r memUsers) Count(ctx context.Context) (int, error) { return len(r.m.users), nil }
func (r memUsers) Create(ctx context.Context, user *models.User) error {
	r.m.users = append(r.m.users, user)
	user.ID = len(r.m.users)
	return nil
}

type memClubs struct {
	repositories.ClubRepository
	m *memoryRepos
}

func (r memClubs) Create(ctx context.Context, exec repositories.SQLExecutor, club *models.Club) error {
	r.m.clubs = append(r.m.clubs, club)
	club.ID = len(r.m.clubs)
	return nil
}

type memMemberships struct {
	repositories.MembershipRepository
	m *memoryRepos
}

func (r memMemberships) Add(ctx context.Context, exec repositories.SQLExecutor, userID, clubID int) (bool, error) {
	r.m.members = append(r.m.members, [2]int{userID, clubID})
	return true, nil
}

type memEvents struct {
	repositories.EventRepository
	m *memoryRepos
}

func (r memEvents) Create(ctx context.Context, exec repositories.SQLExecutor, event *models.Event) error {
	r.m.events = append(r.m.events, event)
	event.ID = len(r.m.events)
	return nil
}

type memNews struct {
	repositories.NewsRepository
	m *memoryRepos
}

func (r memNews) Create(ctx context.Context, exec repositories.SQLExecutor, news *models.News) error {
	r.m.news = append(r.m.news, news)
	return nil
}

type memBadges struct {
	repositories.BadgeRepository
	m *memoryRepos
}

func (r memBadges) Upsert(ctx context.Context, badge *models.Badge) error {
	r.m.badges = append(r.m.badges, badge.Name)
	return nil
}

func (r memBadges) Award(ctx context.Context, userID int, badgeName string) (bool, error) {
	r.m.awards = append(r.m.awards, [2]interface{}{userID, badgeName})
	return true, nil
}

type memMenu struct {
	repositories.MenuRepository
	m *memoryRepos
}

func (r memMenu) Upsert(ctx context.Context, entry *models.MenuEntry) error {
	r.m.menu = append(r.m.menu, entry)
	return nil
}

type memCalendar struct {
	repositories.CalendarRepository
	m *memoryRepos
}

func (r memCalendar) Create(ctx context.Context, entry *models.CalendarEntry) error {
	r.m.calendar = append(r.m.calendar, entry)
	return nil
}

func newTestSeeder(m *memoryRepos) *Seeder {
	s := NewSeeder(Repositories{
		Users:       memUsers{m: m},
		Clubs:       memClubs{m: m},
		Memberships: memMemberships{m: m},
		Events:      memEvents{m: m},
		News:        memNews{m: m},
		Badges:      memBadges{m: m},
		Menu:        memMenu{m: m},
		Calendar:    memCalendar{m: m},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestSeeder_Run(t *testing.T) {
	m := &memoryRepos{}
	f, err := Default()
	require.NoError(t, err)
	now := time.Date(2025, 9, 10, 15, 0, 0, 0, time.UTC) // среда

	seeded, err := newTestSeeder(m).Run(context.Background(), f, now)
	require.NoError(t, err)
	require.True(t, seeded)

	assert.Len(t, m.users, len(f.Users))
	assert.Len(t, m.clubs, len(f.Clubs))
	assert.Len(t, m.events, len(f.Events))
	assert.Len(t, m.news, len(f.News))
	assert.Len(t, m.badges, len(f.Badges))
	assert.Len(t, m.awards, len(f.Awards))
	assert.Len(t, m.calendar, len(f.Calendar))

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.users[0].PasswordHash), []byte(f.Users[0].Password)))

	require.Len(t, m.menu, f.Menu.Days)
	assert.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), m.menu[0].Date, "menu starts on Monday")

	for i, e := range m.events {
		want, err := relativeTime(now, f.Events[i].InDays, f.Events[i].At)
		require.NoError(t, err)
		assert.Equal(t, want, e.ScheduledAt, e.Title)
	}
}

func TestSeeder_SkipsPopulatedDatabase(t *testing.T) {
	m := &memoryRepos{users: []*models.User{{ID: 1}}}
	f, err := Default()
	require.NoError(t, err)

	seeded, err := newTestSeeder(m).Run(context.Background(), f, time.Now())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Empty(t, m.clubs)
	assert.Empty(t, m.badges)
}

func TestSeeder_UnknownReference(t *testing.T) {
	f := &Fixtures{
		Users: []UserFixture{{Key: "a", Email: "a@x.test", Username: "a", Password: "p"}},
		Clubs: []ClubFixture{{Key: "c", Name: "C", Category: "X", Leader: "ghost"}},
	}
	_, err := newTestSeeder(&memoryRepos{}).Run(context.Background(), f, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown leader "ghost"`)
}
