package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	AvatarExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}
	MediaExtensions  = []string{".png", ".jpg", ".jpeg", ".gif", ".pdf", ".mp4", ".mov", ".webp"}
)

// Ext returns the lower-cased extension of filename if it is in allowed.
func Ext(filename string, allowed []string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", false
	}
	for _, a := range allowed {
		if ext == a {
			return ext, true
		}
	}
	return "", false
}

func AvatarKey(username, ext string) string {
	return fmt.Sprintf("avatars/%s%s", username, ext)
}

// MediaKey builds a collision-free object name for a club upload.
func MediaKey(clubID int, ext string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("club_media/clube%d_%s%s", clubID, token, ext)
}

// ContentTypeFor falls back on the extension when the client sent nothing useful.
func ContentTypeFor(ext, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	}
	return "application/octet-stream"
}
