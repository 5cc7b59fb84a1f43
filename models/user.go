package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Ключ аватара в хранилище; публичный URL заполняется сервисом.
	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`

	Badges []Badge `json:"badges,omitempty" db:"-"`
	Clubs  []Club  `json:"clubs,omitempty" db:"-"`
	Events []Event `json:"events,omitempty" db:"-"`
}

// Identity is the resolved caller of a request. A nil *Identity means a guest.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}
