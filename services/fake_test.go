package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tracer records the sequence of calls made to a fake.
type tracer struct {
	mu    sync.Mutex
	trace []string
}

func (t *tracer) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trace = append(t.trace, step)
}

// Trace returns a copy of the recorded calls.
func (t *tracer) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.trace))
	copy(out, t.trace)
	return out
}

// ------------------------
// Users
// ------------------------

type FakeUserRepository struct {
	tracer
	CreateFunc          func(ctx context.Context, user *models.User) error
	GetByIDFunc         func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordFunc  func(ctx context.Context, id int, passwordHash string) error
	UpdateAvatarKeyFunc func(ctx context.Context, id int, avatarKey *string) error
	DeleteFunc          func(ctx context.Context, id int) error
	CountFunc           func(ctx context.Context) (int, error)
}

func (f *FakeUserRepository) Create(ctx context.Context, user *models.User) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (f *FakeUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *FakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.record("GetByEmail")
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *FakeUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.record("GetByUsername")
	if f.GetByUsernameFunc != nil {
		return f.GetByUsernameFunc(ctx, username)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *FakeUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	f.record("UpdatePassword")
	if f.UpdatePasswordFunc != nil {
		return f.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (f *FakeUserRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	f.record("UpdateAvatarKey")
	if f.UpdateAvatarKeyFunc != nil {
		return f.UpdateAvatarKeyFunc(ctx, id, avatarKey)
	}
	return nil
}

func (f *FakeUserRepository) Delete(ctx context.Context, id int) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

func (f *FakeUserRepository) Count(ctx context.Context) (int, error) {
	f.record("Count")
	if f.CountFunc != nil {
		return f.CountFunc(ctx)
	}
	return 0, nil
}

// ------------------------
// Clubs and memberships
// ------------------------

type FakeClubRepository struct {
	tracer
	CreateFunc       func(ctx context.Context, exec repositories.SQLExecutor, club *models.Club) error
	GetByIDFunc      func(ctx context.Context, id int) (*models.Club, error)
	GetByNameFunc    func(ctx context.Context, name string) (*models.Club, error)
	ListFunc         func(ctx context.Context) ([]models.Club, error)
	ListRankingFunc  func(ctx context.Context) ([]models.Club, error)
	ListByMemberFunc func(ctx context.Context, userID int) ([]models.Club, error)
	UpdateFunc       func(ctx context.Context, club *models.Club) error
	DeleteFunc       func(ctx context.Context, id int) error
}

func (f *FakeClubRepository) Create(ctx context.Context, exec repositories.SQLExecutor, club *models.Club) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, club)
	}
	club.ID = 1
	return nil
}

func (f *FakeClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrClubNotFound
}

func (f *FakeClubRepository) GetByName(ctx context.Context, name string) (*models.Club, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, name)
	}
	return nil, repositories.ErrClubNotFound
}

func (f *FakeClubRepository) List(ctx context.Context) ([]models.Club, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *FakeClubRepository) ListRanking(ctx context.Context) ([]models.Club, error) {
	f.record("ListRanking")
	if f.ListRankingFunc != nil {
		return f.ListRankingFunc(ctx)
	}
	return nil, nil
}

func (f *FakeClubRepository) ListByMember(ctx context.Context, userID int) ([]models.Club, error) {
	f.record("ListByMember")
	if f.ListByMemberFunc != nil {
		return f.ListByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeClubRepository) Update(ctx context.Context, club *models.Club) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, club)
	}
	return nil
}

func (f *FakeClubRepository) Delete(ctx context.Context, id int) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

type FakeMembershipRepository struct {
	tracer
	AddFunc          func(ctx context.Context, exec repositories.SQLExecutor, userID, clubID int) (bool, error)
	RemoveFunc       func(ctx context.Context, userID, clubID int) (bool, error)
	ContainsFunc     func(ctx context.Context, userID, clubID int) (bool, error)
	CountForUserFunc func(ctx context.Context, userID int) (int, error)
	ListMembersFunc  func(ctx context.Context, clubID int) ([]models.User, error)
}

func (f *FakeMembershipRepository) Add(ctx context.Context, exec repositories.SQLExecutor, userID, clubID int) (bool, error) {
	f.record("Add")
	if f.AddFunc != nil {
		return f.AddFunc(ctx, exec, userID, clubID)
	}
	return true, nil
}

func (f *FakeMembershipRepository) Remove(ctx context.Context, userID, clubID int) (bool, error) {
	f.record("Remove")
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, userID, clubID)
	}
	return true, nil
}

func (f *FakeMembershipRepository) Contains(ctx context.Context, userID, clubID int) (bool, error) {
	f.record("Contains")
	if f.ContainsFunc != nil {
		return f.ContainsFunc(ctx, userID, clubID)
	}
	return false, nil
}

func (f *FakeMembershipRepository) CountForUser(ctx context.Context, userID int) (int, error) {
	f.record("CountForUser")
	if f.CountForUserFunc != nil {
		return f.CountForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (f *FakeMembershipRepository) ListMembers(ctx context.Context, clubID int) ([]models.User, error) {
	f.record("ListMembers")
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, clubID)
	}
	return nil, nil
}

// ------------------------
// Events, enrollments, news
// ------------------------

type FakeEventRepository struct {
	tracer
	CreateFunc       func(ctx context.Context, exec repositories.SQLExecutor, event *models.Event) error
	GetByIDFunc      func(ctx context.Context, id int) (*models.Event, error)
	GetForUpdateFunc func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error)
	ListFunc         func(ctx context.Context, filter repositories.EventFilter) ([]models.Event, error)
	ListByUserFunc   func(ctx context.Context, userID int) ([]models.Event, error)
}

func (f *FakeEventRepository) Create(ctx context.Context, exec repositories.SQLExecutor, event *models.Event) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, event)
	}
	event.ID = 1
	return nil
}

func (f *FakeEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrEventNotFound
}

func (f *FakeEventRepository) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, exec, id)
	}
	return nil, repositories.ErrEventNotFound
}

func (f *FakeEventRepository) List(ctx context.Context, filter repositories.EventFilter) ([]models.Event, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakeEventRepository) ListByUser(ctx context.Context, userID int) ([]models.Event, error) {
	f.record("ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

type FakeEnrollmentRepository struct {
	tracer
	AddFunc           func(ctx context.Context, exec repositories.SQLExecutor, userID, eventID int) error
	ContainsFunc      func(ctx context.Context, exec repositories.SQLExecutor, userID, eventID int) (bool, error)
	CountForEventFunc func(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int, error)
	CountForUserFunc  func(ctx context.Context, userID int) (int, error)
}

func (f *FakeEnrollmentRepository) Add(ctx context.Context, exec repositories.SQLExecutor, userID, eventID int) error {
	f.record("Add")
	if f.AddFunc != nil {
		return f.AddFunc(ctx, exec, userID, eventID)
	}
	return nil
}

func (f *FakeEnrollmentRepository) Contains(ctx context.Context, exec repositories.SQLExecutor, userID, eventID int) (bool, error) {
	f.record("Contains")
	if f.ContainsFunc != nil {
		return f.ContainsFunc(ctx, exec, userID, eventID)
	}
	return false, nil
}

func (f *FakeEnrollmentRepository) CountForEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int, error) {
	f.record("CountForEvent")
	if f.CountForEventFunc != nil {
		return f.CountForEventFunc(ctx, exec, eventID)
	}
	return 0, nil
}

func (f *FakeEnrollmentRepository) CountForUser(ctx context.Context, userID int) (int, error) {
	f.record("CountForUser")
	if f.CountForUserFunc != nil {
		return f.CountForUserFunc(ctx, userID)
	}
	return 0, nil
}

type FakeNewsRepository struct {
	tracer
	CreateFunc  func(ctx context.Context, exec repositories.SQLExecutor, news *models.News) error
	GetByIDFunc func(ctx context.Context, id int) (*models.News, error)
	ListFunc    func(ctx context.Context, limit int) ([]models.News, error)
}

func (f *FakeNewsRepository) Create(ctx context.Context, exec repositories.SQLExecutor, news *models.News) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, news)
	}
	news.ID = 1
	return nil
}

func (f *FakeNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNewsNotFound
}

func (f *FakeNewsRepository) List(ctx context.Context, limit int) ([]models.News, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit)
	}
	return nil, nil
}

// ------------------------
// Badges, forum, media, menu, calendar
// ------------------------

type FakeBadgeRepository struct {
	tracer
	GetByNameFunc   func(ctx context.Context, name string) (*models.Badge, error)
	ListFunc        func(ctx context.Context) ([]models.Badge, error)
	ListForUserFunc func(ctx context.Context, userID int) ([]models.Badge, error)
	HasBadgeFunc    func(ctx context.Context, userID int, name string) (bool, error)
	AwardFunc       func(ctx context.Context, userID int, name string) (bool, error)
	UpsertFunc      func(ctx context.Context, badge *models.Badge) error
}

func (f *FakeBadgeRepository) GetByName(ctx context.Context, name string) (*models.Badge, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, name)
	}
	return nil, repositories.ErrBadgeNotFound
}

func (f *FakeBadgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *FakeBadgeRepository) ListForUser(ctx context.Context, userID int) ([]models.Badge, error) {
	f.record("ListForUser")
	if f.ListForUserFunc != nil {
		return f.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (f *FakeBadgeRepository) HasBadge(ctx context.Context, userID int, name string) (bool, error) {
	f.record("HasBadge")
	if f.HasBadgeFunc != nil {
		return f.HasBadgeFunc(ctx, userID, name)
	}
	return false, nil
}

func (f *FakeBadgeRepository) Award(ctx context.Context, userID int, name string) (bool, error) {
	f.record("Award:" + name)
	if f.AwardFunc != nil {
		return f.AwardFunc(ctx, userID, name)
	}
	return true, nil
}

func (f *FakeBadgeRepository) Upsert(ctx context.Context, badge *models.Badge) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, badge)
	}
	return nil
}

type FakeForumRepository struct {
	tracer
	CreateTopicFunc      func(ctx context.Context, topic *models.ForumTopic) error
	GetTopicFunc         func(ctx context.Context, id int) (*models.ForumTopic, error)
	ListTopicsByClubFunc func(ctx context.Context, clubID int) ([]models.ForumTopic, error)
	CreatePostFunc       func(ctx context.Context, post *models.ForumPost) error
	ListPostsByTopicFunc func(ctx context.Context, topicID int) ([]models.ForumPost, error)
}

func (f *FakeForumRepository) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	f.record("CreateTopic")
	if f.CreateTopicFunc != nil {
		return f.CreateTopicFunc(ctx, topic)
	}
	topic.ID = 1
	return nil
}

func (f *FakeForumRepository) GetTopic(ctx context.Context, id int) (*models.ForumTopic, error) {
	f.record("GetTopic")
	if f.GetTopicFunc != nil {
		return f.GetTopicFunc(ctx, id)
	}
	return nil, repositories.ErrTopicNotFound
}

func (f *FakeForumRepository) ListTopicsByClub(ctx context.Context, clubID int) ([]models.ForumTopic, error) {
	f.record("ListTopicsByClub")
	if f.ListTopicsByClubFunc != nil {
		return f.ListTopicsByClubFunc(ctx, clubID)
	}
	return nil, nil
}

func (f *FakeForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	f.record("CreatePost")
	if f.CreatePostFunc != nil {
		return f.CreatePostFunc(ctx, post)
	}
	post.ID = 1
	return nil
}

func (f *FakeForumRepository) ListPostsByTopic(ctx context.Context, topicID int) ([]models.ForumPost, error) {
	f.record("ListPostsByTopic")
	if f.ListPostsByTopicFunc != nil {
		return f.ListPostsByTopicFunc(ctx, topicID)
	}
	return nil, nil
}

type FakeMediaRepository struct {
	tracer
	CreateFunc                  func(ctx context.Context, media *models.ClubMedia) error
	GetByIDFunc                 func(ctx context.Context, id int) (*models.ClubMedia, error)
	ListByClubFunc              func(ctx context.Context, clubID int) ([]models.ClubMedia, error)
	ListFilenamesByClubFunc     func(ctx context.Context, clubID int) ([]string, error)
	ListFilenamesByUploaderFunc func(ctx context.Context, userID int) ([]string, error)
}

func (f *FakeMediaRepository) Create(ctx context.Context, media *models.ClubMedia) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, media)
	}
	media.ID = 1
	return nil
}

func (f *FakeMediaRepository) GetByID(ctx context.Context, id int) (*models.ClubMedia, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrMediaNotFound
}

func (f *FakeMediaRepository) ListByClub(ctx context.Context, clubID int) ([]models.ClubMedia, error) {
	f.record("ListByClub")
	if f.ListByClubFunc != nil {
		return f.ListByClubFunc(ctx, clubID)
	}
	return nil, nil
}

func (f *FakeMediaRepository) ListFilenamesByClub(ctx context.Context, clubID int) ([]string, error) {
	f.record("ListFilenamesByClub")
	if f.ListFilenamesByClubFunc != nil {
		return f.ListFilenamesByClubFunc(ctx, clubID)
	}
	return nil, nil
}

func (f *FakeMediaRepository) ListFilenamesByUploader(ctx context.Context, userID int) ([]string, error) {
	f.record("ListFilenamesByUploader")
	if f.ListFilenamesByUploaderFunc != nil {
		return f.ListFilenamesByUploaderFunc(ctx, userID)
	}
	return nil, nil
}

type FakeMenuRepository struct {
	tracer
	UpsertFunc   func(ctx context.Context, entry *models.MenuEntry) error
	ListFromFunc func(ctx context.Context, from time.Time, limit int) ([]models.MenuEntry, error)
}

func (f *FakeMenuRepository) Upsert(ctx context.Context, entry *models.MenuEntry) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, entry)
	}
	return nil
}

func (f *FakeMenuRepository) ListFrom(ctx context.Context, from time.Time, limit int) ([]models.MenuEntry, error) {
	f.record("ListFrom")
	if f.ListFromFunc != nil {
		return f.ListFromFunc(ctx, from, limit)
	}
	return nil, nil
}

type FakeCalendarRepository struct {
	tracer
	CreateFunc   func(ctx context.Context, entry *models.CalendarEntry) error
	ListFromFunc func(ctx context.Context, from time.Time) ([]models.CalendarEntry, error)
}

func (f *FakeCalendarRepository) Create(ctx context.Context, entry *models.CalendarEntry) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, entry)
	}
	return nil
}

func (f *FakeCalendarRepository) ListFrom(ctx context.Context, from time.Time) ([]models.CalendarEntry, error) {
	f.record("ListFrom")
	if f.ListFromFunc != nil {
		return f.ListFromFunc(ctx, from)
	}
	return nil, nil
}

// FakeTransactor runs fn without a real transaction. Repositories accept a
// nil executor, so fakes never look at it.
type FakeTransactor struct {
	tracer
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(tx repositories.SQLExecutor) error) error {
	f.record("WithinTx")
	return fn(nil)
}

// ------------------------
// Side effects
// ------------------------

type FakeUploader struct {
	tracer
	UploadFunc func(ctx context.Context, key, contentType string, body []byte) (*storage.UploadResult, error)
	DeleteFunc func(ctx context.Context, key string) error

	mu      sync.Mutex
	deleted []string
}

func (f *FakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	f.record("Upload:" + key)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, contentType, buf.Bytes())
	}
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *FakeUploader) Delete(ctx context.Context, key string) error {
	f.record("Delete:" + key)
	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	f.mu.Unlock()
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, key)
	}
	return nil
}

func (f *FakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *FakeUploader) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type published struct {
	Room    string
	Type    string
	Payload interface{}
}

type FakeNotifier struct {
	mu       sync.Mutex
	messages []published
}

func (f *FakeNotifier) Publish(room, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{Room: room, Type: msgType, Payload: payload})
}

// Types returns "room:type" for every published message, in order.
func (f *FakeNotifier) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Room+":"+m.Type)
	}
	return out
}

type FakeMetrics struct {
	tracer
}

func (f *FakeMetrics) BadgeAwarded(badge string)        { f.record("badge:" + badge) }
func (f *FakeMetrics) EnrollmentAttempt(outcome string) { f.record("enroll:" + outcome) }
func (f *FakeMetrics) BlobRolledBack(kind string)       { f.record("rollback:" + kind) }

// FakeBadgeService records which hooks fired.
type FakeBadgeService struct {
	tracer
	ListBadgesFunc     func(ctx context.Context) ([]models.Badge, error)
	ListUserBadgesFunc func(ctx context.Context, userID int) ([]models.Badge, error)
}

func (f *FakeBadgeService) AwardIfEligible(ctx context.Context, userID int, badgeName string) (bool, error) {
	f.record("AwardIfEligible:" + badgeName)
	return true, nil
}

func (f *FakeBadgeService) OnRegistered(ctx context.Context, userID int)   { f.record("OnRegistered") }
func (f *FakeBadgeService) OnEnrolled(ctx context.Context, userID int)     { f.record("OnEnrolled") }
func (f *FakeBadgeService) OnClubJoined(ctx context.Context, userID int)   { f.record("OnClubJoined") }
func (f *FakeBadgeService) OnEventCreated(ctx context.Context, userID int) { f.record("OnEventCreated") }
func (f *FakeBadgeService) OnTopicCreated(ctx context.Context, userID int) { f.record("OnTopicCreated") }

func (f *FakeBadgeService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	f.record("ListBadges")
	if f.ListBadgesFunc != nil {
		return f.ListBadgesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeBadgeService) ListUserBadges(ctx context.Context, userID int) ([]models.Badge, error) {
	f.record("ListUserBadges")
	if f.ListUserBadgesFunc != nil {
		return f.ListUserBadgesFunc(ctx, userID)
	}
	return nil, nil
}

// ------------------------
// Fixtures
// ------------------------

func intPtr(v int) *int { return &v }

func ledClub(id, leaderID int) *models.Club {
	return &models.Club{ID: id, Name: "Clube de Programação", Category: "Tecnologia", LeaderID: intPtr(leaderID)}
}

// clubLookup serves the given clubs by ID.
func clubLookup(clubs ...*models.Club) func(ctx context.Context, id int) (*models.Club, error) {
	return func(ctx context.Context, id int) (*models.Club, error) {
		for _, c := range clubs {
			if c.ID == id {
				copied := *c
				return &copied, nil
			}
		}
		return nil, repositories.ErrClubNotFound
	}
}

// membersOf makes Contains report true for the listed (user, club) pairs.
func membersOf(pairs ...[2]int) func(ctx context.Context, userID, clubID int) (bool, error) {
	return func(ctx context.Context, userID, clubID int) (bool, error) {
		for _, p := range pairs {
			if p[0] == userID && p[1] == clubID {
				return true, nil
			}
		}
		return false, nil
	}
}
