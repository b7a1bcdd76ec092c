package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"manuals/internal/config"
	"manuals/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	cfg := config.Load()
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop tables in prod")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix, children first
	tables := postgres.NewTableNames(cfg.TablePrefix)
	for _, table := range tables.All() {
		if _, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			log.Fatalf("Failed to drop %s: %v", table, err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
