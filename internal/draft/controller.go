// Package draft owns the receipt-in-progress: a single mutable Receipt per
// form slot, mutated only through the controller and autosaved after every
// change so it survives restarts.
package draft

import (
	"context"
	"log/slog"
	"time"

	"kakeibo/internal/core"
)

// Store is the persistence port the controller autosaves through.
type Store interface {
	Save(ctx context.Context, key string, r core.Receipt) error
	Load(ctx context.Context, key string) (*core.Receipt, error)
	Clear(ctx context.Context, key string) error
	SavePreference(ctx context.Context, key, value string) error
	LoadPreference(ctx context.Context, key string) (string, error)
}

// HeaderField names one of the receipt header fields addressable by key.
type HeaderField string

const (
	FieldShopName    HeaderField = "shopName"
	FieldMemo        HeaderField = "memo"
	FieldPurchaseDay HeaderField = "purchaseDay"
	FieldPointUsage  HeaderField = "pointUsage"
)

const pricingModePrefPrefix = "pricing-mode:"

// Controller owns one receipt draft. It is not safe for concurrent use; all
// mutation is expected to come from a single event loop, mirroring the form
// it backs.
type Controller struct {
	key     string
	store   Store
	loc     *time.Location
	receipt core.Receipt
	mode    core.PricingMode
}

// New builds a controller for the given form slot. A non-nil seed (edit mode
// or a scanned import) is used verbatim; otherwise a previously persisted
// draft is restored; otherwise the draft starts empty with today's date.
// The pricing mode is a per-form preference, restored independently of the
// draft itself and defaulting to inclusive.
func New(ctx context.Context, key string, store Store, loc *time.Location, seed *core.Receipt) *Controller {
	c := &Controller{key: key, store: store, loc: loc, mode: core.Inclusive}

	if pref, err := store.LoadPreference(ctx, pricingModePrefPrefix+key); err != nil {
		slog.WarnContext(ctx, "Failed to load pricing mode preference", "key", key, "error", err)
	} else if m := core.PricingMode(pref); m.IsValid() {
		c.mode = m
	}

	switch {
	case seed != nil:
		c.receipt = *seed
		c.persist(ctx)
	default:
		restored, err := store.Load(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "Failed to restore draft, starting empty", "key", key, "error", err)
		}
		if restored != nil {
			c.receipt = *restored
		} else {
			c.receipt = c.emptyReceipt()
		}
	}

	return c
}

func (c *Controller) emptyReceipt() core.Receipt {
	return core.Receipt{PurchaseDay: core.DateOf(time.Now(), c.loc)}
}

// Key returns the form slot this controller persists under.
func (c *Controller) Key() string {
	return c.key
}

// Receipt returns a copy of the current draft. The items slice is copied so
// callers cannot mutate controller state behind its back.
func (c *Controller) Receipt() core.Receipt {
	r := c.receipt
	r.Items = append([]core.LineItem(nil), c.receipt.Items...)
	return r
}

// PricingMode returns the current pricing mode for this form.
func (c *Controller) PricingMode() core.PricingMode {
	return c.mode
}

// SetPricingMode switches between inclusive and exclusive pricing and
// persists the choice as a per-form preference. Unknown modes are ignored.
func (c *Controller) SetPricingMode(ctx context.Context, mode core.PricingMode) {
	if !mode.IsValid() || mode == c.mode {
		return
	}
	c.mode = mode
	if err := c.store.SavePreference(ctx, pricingModePrefPrefix+c.key, mode.String()); err != nil {
		slog.WarnContext(ctx, "Failed to persist pricing mode", "key", c.key, "error", err)
	}
}

// Totals recomputes the receipt totals under the current pricing mode.
func (c *Controller) Totals() core.ComputedTotals {
	return core.ComputeTotals(c.receipt.Items, c.mode)
}

// FinalPayable is the computed total minus redeemed points, floored at zero.
func (c *Controller) FinalPayable() core.Yen {
	return core.FinalPayable(c.Totals().TotalAmount, c.receipt.PointUsage)
}

// AddItem appends the item to the draft. Duplicates are allowed; the same
// product can legitimately appear on a receipt more than once.
func (c *Controller) AddItem(ctx context.Context, item core.LineItem) {
	c.receipt.Items = append(c.receipt.Items, item)
	c.persist(ctx)
}

// UpdateItem replaces the item at index. An out-of-bounds index is a silent
// no-op: indices come from the currently rendered list and a stale one simply
// has nothing to update.
func (c *Controller) UpdateItem(ctx context.Context, index int, item core.LineItem) {
	if index < 0 || index >= len(c.receipt.Items) {
		return
	}
	c.receipt.Items[index] = item
	c.persist(ctx)
}

// DeleteItem removes the item at index, shifting later items down by one.
// Indices held by the caller for later items are stale after this call.
func (c *Controller) DeleteItem(ctx context.Context, index int) {
	if index < 0 || index >= len(c.receipt.Items) {
		return
	}
	c.receipt.Items = append(c.receipt.Items[:index], c.receipt.Items[index+1:]...)
	c.persist(ctx)
}

// UpdateHeaderField sets one of the addressable header fields. A value of the
// wrong type for the field, or an unknown field, is a silent no-op so that a
// stray form event can never corrupt the draft.
func (c *Controller) UpdateHeaderField(ctx context.Context, field HeaderField, value any) {
	switch field {
	case FieldShopName:
		s, ok := value.(string)
		if !ok {
			return
		}
		c.receipt.ShopName = s
	case FieldMemo:
		s, ok := value.(string)
		if !ok {
			return
		}
		c.receipt.Memo = s
	case FieldPurchaseDay:
		d, ok := value.(core.Date)
		if !ok {
			return
		}
		c.receipt.PurchaseDay = d
	case FieldPointUsage:
		y, ok := value.(core.Yen)
		if !ok {
			return
		}
		c.receipt.PointUsage = y
	default:
		return
	}
	c.persist(ctx)
}

// Reset restores the empty default receipt and clears the persisted draft.
func (c *Controller) Reset(ctx context.Context) {
	c.receipt = c.emptyReceipt()
	if err := c.store.Clear(ctx, c.key); err != nil {
		slog.WarnContext(ctx, "Failed to clear persisted draft", "key", c.key, "error", err)
	}
}

// persist writes the full draft. Persistence is best-effort: a failed write
// must never break the mutation that triggered it, so errors are logged and
// swallowed.
func (c *Controller) persist(ctx context.Context) {
	if err := c.store.Save(ctx, c.key, c.receipt); err != nil {
		slog.WarnContext(ctx, "Draft autosave failed", "key", c.key, "error", err)
	}
}
