package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/seed"
	"github.com/urfave/cli/v2"
)

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load demo data into an empty database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "fixtures YAML file; the built-in set is used when empty",
			},
		},
		Action: func(c *cli.Context) error {
			fixtures, err := loadFixtures(c.String("file"))
			if err != nil {
				return err
			}

			_, logger, dbConn, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(dbConn, logger)

			seeder := seed.NewSeeder(seed.Repositories{
				Users:       repositories.NewPostgresUserRepository(dbConn),
				Clubs:       repositories.NewPostgresClubRepository(dbConn),
				Memberships: repositories.NewPostgresMembershipRepository(dbConn),
				Events:      repositories.NewPostgresEventRepository(dbConn),
				News:        repositories.NewPostgresNewsRepository(dbConn),
				Badges:      repositories.NewPostgresBadgeRepository(dbConn),
				Menu:        repositories.NewPostgresMenuRepository(dbConn),
				Calendar:    repositories.NewPostgresCalendarRepository(dbConn),
			}, logger)

			seeded, err := seeder.Run(c.Context, fixtures, time.Now())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Println("database is not empty, nothing seeded")
			}
			return nil
		},
	}
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}
	return seed.Parse(data)
}
