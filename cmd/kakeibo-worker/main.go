package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kakeibo/internal/amqp"
	"kakeibo/internal/backend"
	"kakeibo/internal/cache"
	"kakeibo/internal/cli"
	"kakeibo/internal/log"
	"kakeibo/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)

	logger.Info("Starting kakeibo-worker")

	store := cli.OpenDraftStore(cfg, logger)
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPIntakeQueue, cfg.AMQPSubmittedQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The submit target is built here so a misconfigured backend fails at
	// startup, not at the user's first submission.
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, cli.BackendConfig(cfg))
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "type", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	cacheManager := cache.NewManager()
	defer cacheManager.Stop()

	if result.Categories != nil {
		// Warm the category cache and prove connectivity.
		if cats, err := result.Categories.Categories(ctx); err != nil {
			logger.Warn("Category prefetch failed, submissions will retry", "error", err)
		} else {
			logger.Info("Categories prefetched", "count", len(cats))
		}

		if holder, ok := result.Categories.(interface{ CategoryCache() cache.Cleaner }); ok {
			cacheManager.Register(holder.CategoryCache())
			cacheManager.StartCleanup(time.Minute)
		}
	}

	intake := worker.NewIntakeWorker(store, cfg.WorkerBatchSize, logger)

	g, gctx := errgroup.WithContext(ctx)

	// OCR intake: scanned receipts become queued drafts. A lost broker
	// connection is redialed with backoff; anything else stops the worker.
	g.Go(func() error {
		for {
			err := amqpClient.ConsumeScans(gctx, intake.HandleScanMessage)
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if !amqp.IsConnectionError(err) {
				logger.Error("Scan consumption stopped", "error", err)
				return err
			}

			logger.Warn("AMQP connection lost, redialing", "error", err)
			if err := amqpClient.Redial(gctx, 10); err != nil {
				logger.Error("AMQP redial gave up", "error", err)
				return err
			}
		}
	})

	// Periodic visibility into drafts waiting for confirmation.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.WorkerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := intake.ReportPending(gctx); err != nil {
					logger.Error("Pending draft report failed", "error", err)
				}
			}
		}
	})

	logger.Info("Worker running",
		"backend", cfg.DataBackend,
		"intake_queue", cfg.AMQPIntakeQueue,
		"interval", cfg.WorkerInterval.String())

	if err := g.Wait(); err != nil {
		logger.Error("Worker exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
