// backend-go/cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/shelfwise/backend-go/internal/cache"
	"github.com/shelfwise/backend-go/internal/config"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Bootstrap the schema and load fixture data",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create the database schema if it does not exist",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return runMigrate(c.Context, db)
				},
			},
			{
				Name:  "fixtures",
				Usage: "Load demo inventory, suppliers, and sales from CSV files",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing fixture CSV files",
						Value:   "./data/fixtures",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:    "user-id",
						Usage:   "User id to attach fixture rows to",
						Value:   "demo-user",
						EnvVars: []string{"SEED_USER_ID"},
					},
				},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return runFixtures(c.Context, db, c.String("data-dir"), c.String("user-id"))
				},
			},
			{
				Name:  "flush-cache",
				Usage: "Drop all cached cleanup reports after loading data behind the API's back",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if !cfg.Cache.Enabled {
						log.Print("cache is disabled; nothing to flush")
						return nil
					}

					reportCache, err := cache.NewCleanupReportCache(cfg.Cache)
					if err != nil {
						return fmt.Errorf("connect to cache: %w", err)
					}
					if err := reportCache.InvalidateAll(c.Context); err != nil {
						return fmt.Errorf("flush cleanup report cache: %w", err)
					}

					log.Print("cleanup report cache flushed")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
