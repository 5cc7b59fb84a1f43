// @title           ClubHub API
// @version         1.0
// @description     Портал студенческих клубов.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dosada05/clubhub/config"
	"github.com/Dosada05/clubhub/db"
	_ "github.com/Dosada05/clubhub/docs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "clubhub",
		Usage: "student club portal",
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
		},
		// Без подкоманды запускаем сервер.
		Action: serveAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// bootstrap loads the configuration, installs the JSON logger as the default
// and opens the database.
func bootstrap() (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout)
	defer cancel()
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")
	return cfg, logger, dbConn, nil
}

func closeDB(dbConn *sql.DB, logger *slog.Logger) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					_, logger, dbConn, err := bootstrap()
					if err != nil {
						return err
					}
					defer closeDB(dbConn, logger)
					return db.NewMigrator(dbConn).Init(c.Context)
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					_, logger, dbConn, err := bootstrap()
					if err != nil {
						return err
					}
					defer closeDB(dbConn, logger)

					group, err := db.MigrateUp(c.Context, dbConn)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("no new migrations to run")
						return nil
					}
					fmt.Printf("migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					_, logger, dbConn, err := bootstrap()
					if err != nil {
						return err
					}
					defer closeDB(dbConn, logger)

					group, err := db.MigrateRollback(c.Context, dbConn)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("no groups to roll back")
						return nil
					}
					fmt.Printf("rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					_, logger, dbConn, err := bootstrap()
					if err != nil {
						return err
					}
					defer closeDB(dbConn, logger)

					ms, err := db.MigrationStatus(c.Context, dbConn)
					if err != nil {
						return err
					}
					fmt.Printf("migrations: %s\n", ms)
					fmt.Printf("applied: %s\n", ms.Applied())
					fmt.Printf("unapplied: %s\n", ms.Unapplied())
					return nil
				},
			},
		},
	}
}
