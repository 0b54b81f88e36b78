// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/database"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/server"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/auth"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
)

var errUsage = errors.New("wrong number of arguments")

// withDB opens the configured database for a one-shot command.
func withDB(cmd *cli.Command, fn func(db *sqlx.DB) error) error {
	cfg := config.NewFromCLI(cmd)
	server.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}

func printVersion(db *sqlx.DB) error {
	v, err := database.MigrationVersion(db.DB)
	if err != nil {
		return err
	}
	slog.Info("schema version", "version", v)
	return nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply pending migrations",
				Action: func(_ context.Context, cmd *cli.Command) error {
					// opening the database applies pending migrations
					return withDB(cmd, printVersion)
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return withDB(cmd, func(db *sqlx.DB) error {
						if err := database.MigrateDown(db.DB); err != nil {
							return err
						}
						return printVersion(db)
					})
				},
			},
			{
				Name:  "reset",
				Usage: "Roll back every migration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return withDB(cmd, func(db *sqlx.DB) error {
						if err := database.MigrateReset(db.DB); err != nil {
							return err
						}
						return printVersion(db)
					})
				},
			},
		},
	}
}

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Manage administrators",
		Commands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Give an existing user the admin role",
				ArgsUsage: "<email>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errUsage
					}
					return withDB(cmd, func(db *sqlx.DB) error {
						svc := auth.NewService(repository.New(db), nil, "")
						if err := svc.GrantAdmin(ctx, cmd.Args().First()); err != nil {
							return err
						}
						slog.Info("admin role granted", "email", cmd.Args().First())
						return nil
					})
				},
			},
		},
	}
}

func secretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage server-side secrets such as API keys",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Create or replace a secret",
				ArgsUsage: "<name> <value>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return errUsage
					}
					return withDB(cmd, func(db *sqlx.DB) error {
						name := cmd.Args().Get(0)
						if err := secrets.NewService(repository.New(db)).Set(ctx, name, cmd.Args().Get(1)); err != nil {
							return err
						}
						slog.Info("secret stored", "name", name)
						return nil
					})
				},
			},
		},
	}
}
