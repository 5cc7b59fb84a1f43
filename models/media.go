package models

import "time"

type ClubMedia struct {
	ID          int       `json:"id" db:"id"`
	ClubID      int       `json:"club_id" db:"club_id"`
	UploaderID  int       `json:"uploader_id" db:"uploader_id"`
	Filename    string    `json:"filename" db:"filename"`
	Description *string   `json:"description,omitempty" db:"description"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`

	URL *string `json:"url,omitempty" db:"-"`
}
