// Command ecotrackctl runs maintenance tasks against an EcoTrack database.
package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dukerupert/ecotrack/internal/catalog"
	"github.com/dukerupert/ecotrack/internal/database"
	"github.com/dukerupert/ecotrack/internal/logging"
	"github.com/dukerupert/ecotrack/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "ecotrackctl",
		Usage: "manage the EcoTrack database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the SQLite database",
				Value:   "ecotrack.db",
				EnvVars: []string{"ECOTRACK_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"ECOTRACK_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				EnvVars: []string{"ECOTRACK_LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: migrateCmd,
			},
			{
				Name:  "seed",
				Usage: "upsert the challenge catalog from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "catalog file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "prune",
						Usage: "delete challenges missing from the file",
					},
				},
				Action: seedCmd,
			},
			{
				Name:  "recompute-points",
				Usage: "rebuild the cached points ledger",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "user",
						Usage: "only this user id",
					},
				},
				Action: recomputeCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// openDB opens the database; Open applies migrations.
func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := database.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func migrateCmd(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	v, err := database.Version(db)
	if err != nil {
		return err
	}
	slog.Info("database migrated", "path", c.String("db"), "version", v)
	return nil
}

func seedCmd(c *cli.Context) error {
	f, err := catalog.LoadFile(c.String("file"))
	if err != nil {
		return err
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cs := store.NewChallengeStore(db)
	res, err := catalog.Seed(cs, f)
	if err != nil {
		return err
	}
	slog.Info("catalog seeded", "file", c.String("file"), "created", res.Created, "updated", res.Updated)

	if c.Bool("prune") {
		n, err := catalog.Prune(cs, f)
		if err != nil {
			return err
		}
		slog.Info("catalog pruned", "deleted", n)
	}
	return nil
}

func recomputeCmd(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	points := store.NewPointsStore(db)
	ids := []int64{c.Int64("user")}
	if !c.IsSet("user") {
		if ids, err = store.NewUserStore(db).ListIDs(); err != nil {
			return err
		}
	}

	for _, id := range ids {
		p, err := points.Recompute(id)
		if err != nil {
			return err
		}
		slog.Info("points recomputed", "user_id", id, "total", p.TotalPoints)
	}
	return nil
}
