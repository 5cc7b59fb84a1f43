package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/storage"
)

type MediaService interface {
	List(ctx context.Context, identity *models.Identity, clubID int) ([]models.ClubMedia, error)
	Get(ctx context.Context, identity *models.Identity, clubID, mediaID int) (*models.ClubMedia, error)
	// Upload stores the file first and then records it. If the record cannot
	// be saved the stored file is deleted again.
	Upload(ctx context.Context, identity *models.Identity, clubID int, file UploadFile, description string) (*models.ClubMedia, error)
}

type mediaService struct {
	mediaRepo repositories.MediaRepository
	gate      AccessGate
	uploader  storage.FileUploader
	notifier  Notifier
	metrics   Metrics
	logger    *slog.Logger
}

func NewMediaService(
	mediaRepo repositories.MediaRepository,
	gate AccessGate,
	uploader storage.FileUploader,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		gate:      gate,
		uploader:  uploader,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *mediaService) List(ctx context.Context, identity *models.Identity, clubID int) ([]models.ClubMedia, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media of club %d: %w", clubID, err)
	}
	for i := range media {
		populateMediaURL(&media[i], s.uploader)
	}
	return media, nil
}

func (s *mediaService) Get(ctx context.Context, identity *models.Identity, clubID, mediaID int) (*models.ClubMedia, error) {
	if _, err := s.gate.RequireClubMember(ctx, identity, clubID); err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repositories.ErrMediaNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media %d: %w", mediaID, err)
	}
	if media.ClubID != clubID {
		return nil, ErrMediaNotFound
	}
	populateMediaURL(media, s.uploader)
	return media, nil
}

func (s *mediaService) Upload(ctx context.Context, identity *models.Identity, clubID int, file UploadFile, description string) (*models.ClubMedia, error) {
	club, err := s.gate.RequireClubLeader(ctx, identity, clubID)
	if err != nil {
		return nil, err
	}
	if file.Size <= 0 || file.Body == nil {
		return nil, ErrEmptyFile
	}
	ext, ok := storage.Ext(file.Filename, storage.MediaExtensions)
	if !ok {
		return nil, ErrUnsupportedFileType
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return nil, newFieldError("description", "description must be a maximum of 500 characters in length")
	}

	key := storage.MediaKey(club.ID, ext)
	contentType := storage.ContentTypeFor(ext, file.ContentType)
	if _, err := s.uploader.Upload(ctx, key, contentType, file.Body); err != nil {
		return nil, fmt.Errorf("failed to store media for club %d: %w", club.ID, err)
	}

	media := &models.ClubMedia{
		ClubID:      club.ID,
		UploaderID:  identity.UserID,
		Filename:    key,
		ContentType: contentType,
	}
	if description != "" {
		media.Description = &description
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		s.rollbackBlob(ctx, key)
		if errors.Is(err, repositories.ErrMediaClubInvalid) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to record media for club %d: %w", club.ID, err)
	}

	populateMediaURL(media, s.uploader)
	s.notifier.Publish(live.ClubRoom(club.ID), live.TypeMediaUploaded, media)
	s.logger.InfoContext(ctx, "media uploaded",
		slog.Int("media_id", media.ID),
		slog.Int("club_id", club.ID),
		slog.String("key", key),
	)
	return media, nil
}

func (s *mediaService) rollbackBlob(ctx context.Context, key string) {
	s.metrics.BlobRolledBack("media")
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "failed to roll back media blob", slog.String("key", key), slog.Any("error", err))
	}
}
