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
				CREATE TABLE IF NOT EXISTS users (
					id            SERIAL PRIMARY KEY,
					email         VARCHAR(120) NOT NULL,
					username      VARCHAR(12)  NOT NULL,
					password_hash TEXT         NOT NULL,
					avatar_key    TEXT,
					created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
					CONSTRAINT users_email_key UNIQUE (email),
					CONSTRAINT users_username_key UNIQUE (username)
				);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clubs (
					id          SERIAL PRIMARY KEY,
					name        VARCHAR(100) NOT NULL,
					description TEXT         NOT NULL DEFAULT '',
					category    VARCHAR(50)  NOT NULL DEFAULT '',
					leader_id   INTEGER REFERENCES users(id) ON DELETE SET NULL,
					created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
					CONSTRAINT clubs_name_key UNIQUE (name)
				);

				CREATE TABLE IF NOT EXISTS club_members (
					user_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					club_id   INTEGER NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, club_id)
				);
				CREATE INDEX IF NOT EXISTS idx_club_members_club_id ON club_members(club_id);
			`); err != nil {
				return fmt.Errorf("failed to create club tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS badges (
					id          SERIAL PRIMARY KEY,
					name        VARCHAR(50)  NOT NULL,
					description VARCHAR(200) NOT NULL DEFAULT '',
					icon_class  VARCHAR(50)  NOT NULL DEFAULT '',
					CONSTRAINT badges_name_key UNIQUE (name)
				);

				CREATE TABLE IF NOT EXISTS user_badges (
					user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					badge_id   INTEGER NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
					awarded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, badge_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create badge tables: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS user_badges;
				DROP TABLE IF EXISTS badges;
				DROP TABLE IF EXISTS club_members;
				DROP TABLE IF EXISTS clubs;
				DROP TABLE IF EXISTS users;
			`); err != nil {
				return fmt.Errorf("failed to drop account tables: %w", err)
			}
			return nil
		})
	})
}
