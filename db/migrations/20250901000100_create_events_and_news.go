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
				CREATE TABLE IF NOT EXISTS events (
					id           SERIAL PRIMARY KEY,
					club_id      INTEGER      NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
					title        VARCHAR(150) NOT NULL,
					description  TEXT         NOT NULL,
					capacity     INTEGER      NOT NULL,
					scheduled_at TIMESTAMPTZ  NOT NULL,
					created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
					CONSTRAINT events_capacity_check CHECK (capacity > 0)
				);
				CREATE INDEX IF NOT EXISTS idx_events_club_scheduled ON events(club_id, scheduled_at);
				CREATE INDEX IF NOT EXISTS idx_events_scheduled ON events(scheduled_at);

				CREATE TABLE IF NOT EXISTS event_enrollments (
					user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					event_id    INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, event_id)
				);
				CREATE INDEX IF NOT EXISTS idx_event_enrollments_event_id ON event_enrollments(event_id);
			`); err != nil {
				return fmt.Errorf("failed to create event tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS news (
					id           SERIAL PRIMARY KEY,
					title        VARCHAR(200) NOT NULL,
					content      TEXT         NOT NULL,
					published_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
					event_id     INTEGER REFERENCES events(id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create news table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS news;
				DROP TABLE IF EXISTS event_enrollments;
				DROP TABLE IF EXISTS events;
			`); err != nil {
				return fmt.Errorf("failed to drop event tables: %w", err)
			}
			return nil
		})
	})
}
