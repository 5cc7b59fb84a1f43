package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type badgeFixture struct {
	badges      *FakeBadgeRepository
	users       *FakeUserRepository
	memberships *FakeMembershipRepository
	enrollments *FakeEnrollmentRepository
	notifier    *FakeNotifier
	metrics     *FakeMetrics
	svc         BadgeService
}

func newBadgeFixture() *badgeFixture {
	f := &badgeFixture{
		badges:      &FakeBadgeRepository{},
		users:       &FakeUserRepository{},
		memberships: &FakeMembershipRepository{},
		enrollments: &FakeEnrollmentRepository{},
		notifier:    &FakeNotifier{},
		metrics:     &FakeMetrics{},
	}
	f.svc = NewBadgeService(f.badges, f.users, f.memberships, f.enrollments, f.notifier, f.metrics, discardLogger())
	return f
}

// awarded returns the badge names passed to BadgeRepository.Award.
func (f *badgeFixture) awarded() []string {
	var out []string
	for _, step := range f.badges.Trace() {
		if name, ok := strings.CutPrefix(step, "Award:"); ok {
			out = append(out, name)
		}
	}
	return out
}

func TestBadgeService_OnRegistered(t *testing.T) {
	tests := []struct {
		users int
		want  []string
	}{
		{users: 1, want: []string{models.BadgeFoundingMember}},
		{users: 10, want: []string{models.BadgeFoundingMember}},
		{users: 11, want: nil},
	}
	for _, tt := range tests {
		f := newBadgeFixture()
		f.users.CountFunc = func(ctx context.Context) (int, error) { return tt.users, nil }

		f.svc.OnRegistered(context.Background(), 1)
		assert.Equal(t, tt.want, f.awarded(), "users=%d", tt.users)
	}
}

func TestBadgeService_OnClubJoined(t *testing.T) {
	tests := []struct {
		clubs int
		want  []string
	}{
		{clubs: 1, want: []string{models.BadgeClubExplorer}},
		{clubs: 2, want: nil},
		{clubs: 3, want: []string{models.BadgeCampusSocialite}},
		{clubs: 4, want: nil},
	}
	for _, tt := range tests {
		f := newBadgeFixture()
		f.memberships.CountForUserFunc = func(ctx context.Context, userID int) (int, error) { return tt.clubs, nil }

		f.svc.OnClubJoined(context.Background(), 1)
		assert.Equal(t, tt.want, f.awarded(), "clubs=%d", tt.clubs)
	}
}

func TestBadgeService_OnEnrolled(t *testing.T) {
	tests := []struct {
		events int
		want   []string
	}{
		{events: 1, want: []string{models.BadgeActiveParticipant}},
		{events: 3, want: nil},
		{events: 5, want: []string{models.BadgeEventEnthusiast}},
		{events: 6, want: nil},
	}
	for _, tt := range tests {
		f := newBadgeFixture()
		f.enrollments.CountForUserFunc = func(ctx context.Context, userID int) (int, error) { return tt.events, nil }

		f.svc.OnEnrolled(context.Background(), 1)
		assert.Equal(t, tt.want, f.awarded(), "events=%d", tt.events)
	}
}

func TestBadgeService_AwardNotifiesOnlyOnFirstGrant(t *testing.T) {
	f := newBadgeFixture()
	held := false
	f.badges.AwardFunc = func(ctx context.Context, userID int, name string) (bool, error) {
		if held {
			return false, nil
		}
		held = true
		return true, nil
	}

	f.svc.OnTopicCreated(context.Background(), 8)
	f.svc.OnTopicCreated(context.Background(), 8)

	assert.Equal(t, []string{live.UserRoom(8) + ":" + live.TypeBadgeAwarded}, f.notifier.Types())
	assert.Equal(t, []string{"badge:" + models.BadgeForumPioneer}, f.metrics.Trace())
}

func TestBadgeService_HookFailuresAreSwallowed(t *testing.T) {
	f := newBadgeFixture()
	f.enrollments.CountForUserFunc = func(ctx context.Context, userID int) (int, error) {
		return 0, errors.New("db down")
	}
	f.badges.AwardFunc = func(ctx context.Context, userID int, name string) (bool, error) {
		return false, errors.New("db down")
	}

	assert.NotPanics(t, func() {
		f.svc.OnEnrolled(context.Background(), 1)
		f.svc.OnEventCreated(context.Background(), 1)
	})
	assert.Empty(t, f.notifier.Types())

	_, err := f.svc.AwardIfEligible(context.Background(), 1, models.BadgeEventOrganizer)
	require.Error(t, err)
}
