package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"kakeibo/internal/cli"
	"kakeibo/internal/recurring"
)

func main() {
	cfg, logger := cli.Bootstrap("recurring-worker")

	logger.Info("Starting recurring-worker")

	store := cli.OpenDraftStore(cfg, logger)
	defer store.Close()

	seeder := recurring.NewSeeder(store, cfg.Location(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run once at startup so a stopped worker catches up immediately.
	if seeded, err := seeder.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Startup seeding failed", "error", err)
	} else if seeded > 0 {
		logger.Info("Startup seeding complete", "seeded", seeded)
	}

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	logger.Info("Recurring seeder running", "interval", cfg.WorkerInterval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			return
		case <-ticker.C:
			if seeded, err := seeder.ProcessDue(ctx, time.Now()); err != nil {
				logger.Error("Seeding pass failed", "error", err)
			} else if seeded > 0 {
				logger.Info("Seeding pass complete", "seeded", seeded)
			}
		}
	}
}
