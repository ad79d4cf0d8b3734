// kakeibo-submit sends one stored draft to the configured backend. It is the
// command-line counterpart of the form's submit button: useful for clearing
// queued drafts from scripts and for smoke-testing a backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kakeibo/internal/amqp"
	"kakeibo/internal/backend"
	"kakeibo/internal/cli"
	"kakeibo/internal/draft"
	"kakeibo/internal/submit"
)

func main() {
	key := flag.String("key", "", "draft slot key to submit (e.g. scan:receipt-42)")
	list := flag.Bool("list", false, "list stored draft keys and exit")
	flatten := flag.Bool("flatten-discount", false, "fold discounts into the unit price instead of sending them separately")
	flag.Parse()

	cfg, logger := cli.Bootstrap("kakeibo-submit")

	store := cli.OpenDraftStore(cfg, logger)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *list {
		keys, err := store.ListKeys(ctx)
		if err != nil {
			logger.Error("Failed to list drafts", "error", err)
			os.Exit(1)
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return
	}

	if *key == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Refuse to submit a slot that holds nothing; the workflow would only
	// report an empty-receipt validation failure, which reads like a bug.
	seed, err := store.Load(ctx, *key)
	if err != nil {
		logger.Error("Failed to load draft", "error", err, "key", *key)
		os.Exit(1)
	}
	if seed == nil {
		logger.Error("No draft stored under key", "key", *key)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, cli.BackendConfig(cfg))
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	mode := submit.SeparateDiscount
	if *flatten {
		mode = submit.FlattenDiscount
	}

	controller := draft.New(ctx, *key, store, cfg.Location(), seed)
	workflow := submit.New(controller, result.Backend, result.Categories, mode, cfg.Location())

	// The submitted-queue announcement is best effort: a broker outage must
	// not block clearing a draft the backend already accepted.
	if client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPIntakeQueue, cfg.AMQPSubmittedQueue); err != nil {
		logger.Warn("Broker unavailable, submitting without notification", "error", err)
	} else {
		defer client.Close()
		workflow = workflow.WithNotifier(client)
	}

	if err := workflow.Submit(ctx); err != nil {
		for field, msg := range workflow.FieldErrors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		if msg := workflow.Message(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		if errors.Is(err, submit.ErrFieldErrors) || errors.Is(err, submit.ErrNoItems) {
			os.Exit(2)
		}
		logger.Error("Submission failed", "error", err, "key", *key)
		os.Exit(1)
	}

	logger.Info("Draft submitted and cleared", "key", *key)
}
