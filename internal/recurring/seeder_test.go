package recurring

import (
	"context"
	"testing"
	"time"

	"kakeibo/internal/core"
)

type fakeTemplateStore struct {
	templates []core.RecurringTemplate
	drafts    map[string]core.Receipt
	executed  map[int64]time.Time
}

func newFakeTemplateStore(templates ...core.RecurringTemplate) *fakeTemplateStore {
	return &fakeTemplateStore{
		templates: templates,
		drafts:    make(map[string]core.Receipt),
		executed:  make(map[int64]time.Time),
	}
}

func (f *fakeTemplateStore) ActiveTemplates(ctx context.Context) ([]core.RecurringTemplate, error) {
	return f.templates, nil
}

func (f *fakeTemplateStore) MarkTemplateExecuted(ctx context.Context, id int64, when time.Time) error {
	f.executed[id] = when
	return nil
}

func (f *fakeTemplateStore) Save(ctx context.Context, key string, r core.Receipt) error {
	f.drafts[key] = r
	return nil
}

func (f *fakeTemplateStore) Load(ctx context.Context, key string) (*core.Receipt, error) {
	r, ok := f.drafts[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func rentTemplate() core.RecurringTemplate {
	return core.RecurringTemplate{
		ID:         1,
		ItemName:   "家賃",
		Amount:     85000,
		Quantity:   1,
		TaxRate:    core.TaxRateStandard,
		CategoryID: 3,
		ShopName:   "ひまわり不動産",
		Frequency:  core.Monthly,
		StartDate:  core.NewDate(2026, 1, 27),
		Active:     true,
	}
}

func TestSeederProcessDue(t *testing.T) {
	store := newFakeTemplateStore(rentTemplate())
	seeder := NewSeeder(store, time.UTC, nil)

	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	seeded, err := seeder.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if seeded != 1 {
		t.Fatalf("seeded = %d, want 1", seeded)
	}

	draft, ok := store.drafts[DraftKey(1)]
	if !ok {
		t.Fatal("no draft queued for template 1")
	}
	if draft.ShopName != "ひまわり不動産" {
		t.Errorf("ShopName = %q", draft.ShopName)
	}
	if len(draft.Items) != 1 || draft.Items[0].UnitPrice != 85000 {
		t.Errorf("Items = %+v", draft.Items)
	}
	if !draft.PurchaseDay.Equal(core.NewDate(2026, 8, 27)) {
		t.Errorf("PurchaseDay = %v", draft.PurchaseDay)
	}
	if _, ok := store.executed[1]; !ok {
		t.Error("execution was not recorded")
	}
}

func TestSeederSkipsNotDue(t *testing.T) {
	tmpl := rentTemplate()
	tmpl.LastExecution = time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	store := newFakeTemplateStore(tmpl)
	seeder := NewSeeder(store, time.UTC, nil)

	seeded, err := seeder.ProcessDue(context.Background(), time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if seeded != 0 {
		t.Errorf("seeded = %d, want 0", seeded)
	}
	if len(store.drafts) != 0 {
		t.Errorf("drafts = %v, want none", store.drafts)
	}
}

func TestSeederLeavesExistingDraft(t *testing.T) {
	store := newFakeTemplateStore(rentTemplate())

	// A previously seeded draft the user already edited.
	edited := core.Receipt{
		ShopName:    "ひまわり不動産",
		PurchaseDay: core.NewDate(2026, 7, 27),
		Items: []core.LineItem{{
			Name: "家賃", UnitPrice: 87000, Quantity: 1, TaxRate: core.TaxRateStandard,
		}},
	}
	store.drafts[DraftKey(1)] = edited

	seeder := NewSeeder(store, time.UTC, nil)
	seeded, err := seeder.ProcessDue(context.Background(), time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if seeded != 1 {
		t.Errorf("seeded = %d, want 1 (counts as processed)", seeded)
	}

	got := store.drafts[DraftKey(1)]
	if got.Items[0].UnitPrice != 87000 {
		t.Errorf("edited draft was clobbered: %+v", got.Items[0])
	}
}

func TestSeederSkipsUnknownFrequency(t *testing.T) {
	tmpl := rentTemplate()
	tmpl.Frequency = core.Frequency("fortnightly")
	store := newFakeTemplateStore(tmpl)
	seeder := NewSeeder(store, time.UTC, nil)

	seeded, err := seeder.ProcessDue(context.Background(), time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if seeded != 0 {
		t.Errorf("seeded = %d, want 0", seeded)
	}
}
