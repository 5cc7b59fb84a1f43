package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS forum_topics (
					id         SERIAL PRIMARY KEY,
					club_id    INTEGER      NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
					author_id  INTEGER      NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					title      VARCHAR(200) NOT NULL,
					content    TEXT         NOT NULL,
					created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_forum_topics_club_created ON forum_topics(club_id, created_at DESC);

				CREATE TABLE IF NOT EXISTS forum_posts (
					id         SERIAL PRIMARY KEY,
					topic_id   INTEGER     NOT NULL REFERENCES forum_topics(id) ON DELETE CASCADE,
					author_id  INTEGER     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					content    TEXT        NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_forum_posts_topic_created ON forum_posts(topic_id, created_at);
			`); err != nil {
				return fmt.Errorf("failed to create forum tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS club_media (
					id           SERIAL PRIMARY KEY,
					club_id      INTEGER      NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
					uploader_id  INTEGER      NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					filename     VARCHAR(200) NOT NULL,
					description  VARCHAR(200),
					content_type VARCHAR(100) NOT NULL DEFAULT 'application/octet-stream',
					uploaded_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
					CONSTRAINT club_media_filename_key UNIQUE (filename)
				);
				CREATE INDEX IF NOT EXISTS idx_club_media_club_uploaded ON club_media(club_id, uploaded_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create club_media table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS menu_entries (
					id          SERIAL PRIMARY KEY,
					menu_date   DATE         NOT NULL,
					main_course VARCHAR(100) NOT NULL,
					vegetarian  VARCHAR(100) NOT NULL,
					side_dish   VARCHAR(100) NOT NULL,
					salad       VARCHAR(100) NOT NULL,
					dessert     VARCHAR(100) NOT NULL,
					CONSTRAINT menu_entries_menu_date_key UNIQUE (menu_date)
				);

				CREATE TABLE IF NOT EXISTS calendar_entries (
					id          SERIAL PRIMARY KEY,
					entry_date  DATE         NOT NULL,
					description VARCHAR(200) NOT NULL,
					kind        VARCHAR(50)  NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_calendar_entries_date ON calendar_entries(entry_date);
			`); err != nil {
				return fmt.Errorf("failed to create menu/calendar tables: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS calendar_entries;
				DROP TABLE IF EXISTS menu_entries;
				DROP TABLE IF EXISTS club_media;
				DROP TABLE IF EXISTS forum_posts;
				DROP TABLE IF EXISTS forum_topics;
			`); err != nil {
				return fmt.Errorf("failed to drop forum/media tables: %w", err)
			}
			return nil
		})
	})
}
