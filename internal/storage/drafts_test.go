package storage

import (
	"context"
	"path/filepath"
	"testing"

	"kakeibo/internal/core"
)

func newTestStore(t *testing.T) *DraftStore {
	t.Helper()
	store, err := NewDraftStore(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReceipt() core.Receipt {
	return core.Receipt{
		ShopName:    "マルエツ",
		Memo:        "weekly groceries",
		PurchaseDay: core.NewDate(2026, 8, 28),
		PointUsage:  120,
		Items: []core.LineItem{
			{Name: "milk", UnitPrice: 198, Quantity: 2, TaxRate: core.TaxRateReduced, CategoryID: 3},
			{Name: "soap", UnitPrice: 330, Quantity: 1, Discount: 30, TaxRate: core.TaxRateStandard, CategoryID: 7},
		},
	}
}

func TestDraftRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := sampleReceipt()

	if err := store.Save(ctx, "manual-entry-1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "manual-entry-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil for saved draft")
	}

	if got.ShopName != want.ShopName || got.Memo != want.Memo || got.PointUsage != want.PointUsage {
		t.Errorf("header mismatch: got %+v", got)
	}
	if !got.PurchaseDay.Equal(want.PurchaseDay) {
		t.Errorf("PurchaseDay = %v, want %v", got.PurchaseDay, want.PurchaseDay)
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("items = %d, want %d", len(got.Items), len(want.Items))
	}
	for i := range want.Items {
		if got.Items[i] != want.Items[i] {
			t.Errorf("item %d = %+v, want %+v", i, got.Items[i], want.Items[i])
		}
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load(context.Background(), "no-such-slot")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil", got)
	}
}

func TestLoadMalformedReturnsNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO drafts (key, payload) VALUES (?, ?)`, "broken", "{not json"); err != nil {
		t.Fatalf("insert malformed payload: %v", err)
	}

	got, err := store.Load(ctx, "broken")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil for malformed payload", got)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleReceipt()
	if err := store.Save(ctx, "slot", first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := first
	second.ShopName = "ローソン"
	second.Items = second.Items[:1]
	if err := store.Save(ctx, "slot", second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "slot")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ShopName != "ローソン" || len(got.Items) != 1 {
		t.Errorf("reload did not observe latest save: %+v", got)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "slot", sampleReceipt()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx, "slot"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := store.Load(ctx, "slot"); got != nil {
		t.Errorf("draft survived Clear: %+v", got)
	}

	// Clearing an absent key is fine.
	if err := store.Clear(ctx, "slot"); err != nil {
		t.Errorf("Clear on missing key: %v", err)
	}
}

func TestListKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"scan-1", "scan-2", "manual-entry-1"} {
		if err := store.Save(ctx, key, sampleReceipt()); err != nil {
			t.Fatalf("Save %s: %v", key, err)
		}
	}

	keys, err := store.ListKeys(ctx)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("ListKeys = %v, want 3 keys", keys)
	}
}

func TestPreferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.LoadPreference(ctx, "pricing-mode:manual-entry-1")
	if err != nil {
		t.Fatalf("LoadPreference: %v", err)
	}
	if got != "" {
		t.Errorf("unset preference = %q, want empty", got)
	}

	if err := store.SavePreference(ctx, "pricing-mode:manual-entry-1", "exclusive"); err != nil {
		t.Fatalf("SavePreference: %v", err)
	}
	if err := store.SavePreference(ctx, "pricing-mode:manual-entry-1", "inclusive"); err != nil {
		t.Fatalf("SavePreference overwrite: %v", err)
	}

	got, err = store.LoadPreference(ctx, "pricing-mode:manual-entry-1")
	if err != nil {
		t.Fatalf("LoadPreference: %v", err)
	}
	if got != "inclusive" {
		t.Errorf("preference = %q, want %q", got, "inclusive")
	}
}
