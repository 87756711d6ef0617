package main

import (
	"os"
	"time"

	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/db"
	"github.com/ferrante/taskhub/internal/observability"
)

// Seeds the demo account with two projects and their tasks. Safe to run
// repeatedly, it backs off when the demo user already exists.
func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	err = db.EnsureSchema(ctx, pool)

	if err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	err = db.SeedDemoData(ctx, pool, cfg)

	if err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	log.Info("demo data seeded", "email", cfg.SeedEmail)
}
