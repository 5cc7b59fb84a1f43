package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateUserDetails(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.AvatarKey)
		if url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateMediaURL(media *models.ClubMedia, uploader storage.FileUploader) {
	if media == nil || uploader == nil || media.Filename == "" {
		return
	}
	url := uploader.GetPublicURL(media.Filename)
	if url != "" {
		media.URL = &url
	}
}

func eventViews(events []models.Event) []models.EventView {
	views := make([]models.EventView, 0, len(events))
	for i := range events {
		views = append(views, models.NewEventView(&events[i]))
	}
	return views
}

// deleteBlobs removes stored files after their rows are gone. Failures only
// leave orphaned blobs, so they are logged and skipped.
func deleteBlobs(ctx context.Context, uploader storage.FileUploader, logger *slog.Logger, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := uploader.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "failed to delete blob", slog.String("key", key), slog.Any("error", err))
		}
	}
}
