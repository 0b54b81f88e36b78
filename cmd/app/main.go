// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/server"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:   "tappio",
		Usage:  "NFC profile cards and review plaques",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web application",
				Action: server.Run,
			},
			migrateCommand(),
			adminCommand(),
			secretCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
