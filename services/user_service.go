package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/storage"
)

// UploadFile is a multipart file handed over by a handler.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UserService interface {
	// Me returns the caller's profile with badges, clubs and enrolled events.
	Me(ctx context.Context, identity *models.Identity) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UploadAvatar(ctx context.Context, identity *models.Identity, file UploadFile) (*models.User, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	clubRepo  repositories.ClubRepository
	eventRepo repositories.EventRepository
	badgeRepo repositories.BadgeRepository
	uploader  storage.FileUploader
	metrics   Metrics
	logger    *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	clubRepo repositories.ClubRepository,
	eventRepo repositories.EventRepository,
	badgeRepo repositories.BadgeRepository,
	uploader storage.FileUploader,
	metrics Metrics,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		clubRepo:  clubRepo,
		eventRepo: eventRepo,
		badgeRepo: badgeRepo,
		uploader:  uploader,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *userService) Me(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if user.Badges, err = s.badgeRepo.ListForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to list badges for user %d: %w", user.ID, err)
	}
	if user.Clubs, err = s.clubRepo.ListByMember(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to list clubs for user %d: %w", user.ID, err)
	}
	if user.Events, err = s.eventRepo.ListByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to list events for user %d: %w", user.ID, err)
	}
	for i := range user.Events {
		user.Events[i].IsEnrolled = true
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	populateUserDetails(user, s.uploader)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, identity *models.Identity, file UploadFile) (*models.User, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if file.Size <= 0 || file.Body == nil {
		return nil, ErrEmptyFile
	}
	ext, ok := storage.Ext(file.Filename, storage.AvatarExtensions)
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", identity.UserID, err)
	}
	oldKey := derefString(user.AvatarKey)

	newKey := storage.AvatarKey(user.Username, ext)
	if _, err := s.uploader.Upload(ctx, newKey, storage.ContentTypeFor(ext, file.ContentType), file.Body); err != nil {
		return nil, fmt.Errorf("failed to upload avatar for user %d: %w", user.ID, err)
	}

	if err := s.userRepo.UpdateAvatarKey(ctx, user.ID, &newKey); err != nil {
		// Тот же ключ уже перезаписан, старого файла нет; удалять нечего.
		if newKey != oldKey {
			s.rollbackBlob(ctx, newKey)
		}
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to save avatar key for user %d: %w", user.ID, err)
	}

	if oldKey != "" && oldKey != newKey {
		deleteBlobs(ctx, s.uploader, s.logger, []string{oldKey})
	}

	user.AvatarKey = &newKey
	populateUserDetails(user, s.uploader)
	s.logger.InfoContext(ctx, "avatar updated", slog.Int("user_id", user.ID), slog.String("key", newKey))
	return user, nil
}

func (s *userService) rollbackBlob(ctx context.Context, key string) {
	s.metrics.BlobRolledBack("avatar")
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "failed to roll back avatar blob", slog.String("key", key), slog.Any("error", err))
	}
}
