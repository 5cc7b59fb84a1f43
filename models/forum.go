package models

import "time"

type ForumTopic struct {
	ID        int       `json:"id" db:"id"`
	ClubID    int       `json:"club_id" db:"club_id"`
	AuthorID  int       `json:"author_id" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorUsername string      `json:"author_username,omitempty" db:"-"`
	PostCount      int         `json:"post_count" db:"-"`
	Posts          []ForumPost `json:"posts,omitempty" db:"-"`
}

type ForumPost struct {
	ID        int       `json:"id" db:"id"`
	TopicID   int       `json:"topic_id" db:"topic_id"`
	AuthorID  int       `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorUsername string `json:"author_username,omitempty" db:"-"`
}
