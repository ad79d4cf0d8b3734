package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kakeibo/internal/core"
)

// TemplateStore is the slice of the draft store the seeder needs.
type TemplateStore interface {
	ActiveTemplates(ctx context.Context) ([]core.RecurringTemplate, error)
	MarkTemplateExecuted(ctx context.Context, id int64, when time.Time) error
	Save(ctx context.Context, key string, r core.Receipt) error
	Load(ctx context.Context, key string) (*core.Receipt, error)
}

// Seeder walks the active templates and saves a queued draft for each one
// that is due. The drafts go through the same confirmation flow as scanned
// receipts, so the amounts can be corrected before submission.
type Seeder struct {
	store  TemplateStore
	loc    *time.Location
	logger *slog.Logger
}

func NewSeeder(store TemplateStore, loc *time.Location, logger *slog.Logger) *Seeder {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, loc: loc, logger: logger}
}

// DraftKey is the slot a template's drafts are queued under. One key per
// template: a template that fires again before its previous draft was
// confirmed refreshes that draft instead of stacking a second one.
func DraftKey(templateID int64) string {
	return fmt.Sprintf("recurring:%d", templateID)
}

// ProcessDue seeds a draft for every active template that is due and returns
// how many were seeded. A single broken template is logged and skipped, it
// does not stop the rest.
func (s *Seeder) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	templates, err := s.store.ActiveTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active templates: %w", err)
	}

	now = now.In(s.loc)
	seeded := 0

	for _, t := range templates {
		checker, err := CheckerFor(t.Frequency)
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping template with unknown frequency",
				"template_id", t.ID, "frequency", t.Frequency)
			continue
		}
		if !checker.IsDue(t.LastExecution, now, t.StartDate) {
			continue
		}

		if err := s.seed(ctx, t, now); err != nil {
			s.logger.ErrorContext(ctx, "Failed to seed draft from template",
				"template_id", t.ID, "item", t.ItemName, "error", err)
			continue
		}

		if err := s.store.MarkTemplateExecuted(ctx, t.ID, now); err != nil {
			// The draft exists; an unrecorded execution means at worst a
			// refreshed draft next tick.
			s.logger.WarnContext(ctx, "Failed to record template execution",
				"template_id", t.ID, "error", err)
		}

		seeded++
		s.logger.InfoContext(ctx, "Seeded recurring draft",
			"template_id", t.ID, "item", t.ItemName,
			"amount", int64(t.Amount), "frequency", string(t.Frequency))
	}

	return seeded, nil
}

func (s *Seeder) seed(ctx context.Context, t core.RecurringTemplate, now time.Time) error {
	key := DraftKey(t.ID)

	// A confirmed-but-edited draft must not be clobbered by a re-fire.
	existing, err := s.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("check existing draft: %w", err)
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "Draft already queued for template, leaving it",
			"template_id", t.ID, "key", key)
		return nil
	}

	r := core.Receipt{
		ShopName:    t.ShopName,
		PurchaseDay: core.DateOf(now, s.loc),
		Items:       []core.LineItem{t.Item()},
	}
	if err := s.store.Save(ctx, key, r); err != nil {
		return fmt.Errorf("save seeded draft: %w", err)
	}
	return nil
}
