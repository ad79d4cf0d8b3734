// Package worker consumes OCR-scanned receipts off the intake queue and
// turns them into queued drafts awaiting confirmation.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/draft"
)

// DraftSaver is the slice of the draft store the worker needs.
type DraftSaver interface {
	Save(ctx context.Context, key string, r core.Receipt) error
	Load(ctx context.Context, key string) (*core.Receipt, error)
	ListKeys(ctx context.Context) ([]string, error)
}

// IntakeWorker seeds drafts from scanned receipt messages. Each message
// lands in its own slot so several scans can queue up while the user
// confirms them one at a time.
type IntakeWorker struct {
	store     DraftSaver
	batchSize int
	logger    *slog.Logger
}

func NewIntakeWorker(store DraftSaver, batchSize int, logger *slog.Logger) *IntakeWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntakeWorker{store: store, batchSize: batchSize, logger: logger}
}

// ScanKey is the draft slot a scanned receipt is queued under.
func ScanKey(slot string) string {
	return "scan:" + slot
}

// HandleScanMessage coerces one scanned receipt into a draft and saves it.
// A scan that cannot be coerced at all (no readable purchase date) is logged
// and dropped rather than requeued: redelivery cannot fix it.
func (w *IntakeWorker) HandleScanMessage(ctx context.Context, msg *amqp.ScannedReceiptMessage) error {
	if msg.Slot == "" {
		w.logger.WarnContext(ctx, "Dropping scan message without slot")
		return nil
	}

	key := ScanKey(msg.Slot)

	existing, err := w.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("check slot %s: %w", key, err)
	}
	if existing != nil {
		// The user may already be editing this draft; a redelivered scan
		// must not overwrite their corrections.
		w.logger.InfoContext(ctx, "Slot already holds a draft, ignoring redelivered scan",
			"slot", msg.Slot)
		return nil
	}

	r, err := draft.FromScan(msg.Receipt)
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping unusable scan",
			"slot", msg.Slot, "shop", msg.Receipt.ShopName, "error", err)
		return nil
	}

	if err := w.store.Save(ctx, key, r); err != nil {
		return fmt.Errorf("save scanned draft %s: %w", key, err)
	}

	w.logger.InfoContext(ctx, "Queued scanned receipt as draft",
		"slot", msg.Slot, "shop", r.ShopName, "item_count", len(r.Items))
	return nil
}

// ReportPending logs a summary of queued drafts, up to batchSize of them.
// It is a visibility aid for the periodic tick, not a processing step.
func (w *IntakeWorker) ReportPending(ctx context.Context) error {
	keys, err := w.store.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("list pending drafts: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	scanned, recurring := 0, 0
	for _, key := range keys {
		switch {
		case strings.HasPrefix(key, "scan:"):
			scanned++
		case strings.HasPrefix(key, "recurring:"):
			recurring++
		}
	}

	oldest := keys
	if w.batchSize > 0 && len(oldest) > w.batchSize {
		oldest = oldest[:w.batchSize]
	}

	w.logger.InfoContext(ctx, "Pending drafts awaiting confirmation",
		"total", len(keys), "scanned", scanned, "recurring", recurring,
		"oldest", oldest)
	return nil
}
