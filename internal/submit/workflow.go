// Package submit validates a finished draft end to end, converts it to the
// wire payload and delivers it to the configured backend.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/draft"
	"kakeibo/internal/gateway"
)

// PayloadMode selects how discounts travel on the wire. Some endpoints take a
// discount field per product; others expect the discount pre-flattened into
// the unit price.
type PayloadMode string

const (
	// SeparateDiscount sends the discount as its own field.
	SeparateDiscount PayloadMode = "separate"
	// FlattenDiscount folds the discount into an adjusted unit price and
	// sends a zero discount.
	FlattenDiscount PayloadMode = "flatten"
)

// FieldErrors maps header field names to user-facing messages. A field absent
// from the map (or mapped to "") has no error.
type FieldErrors map[string]string

var (
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrFieldErrors    = errors.New("field validation failed")
	ErrNoItems        = errors.New("no items")
)

// Notifier announces a successful submission, for example to the AMQP
// submitted queue. Delivery is best effort; the receipt is already accepted
// by the backend when the notifier runs.
type Notifier interface {
	PublishReceiptSubmitted(ctx context.Context, slot, ref string, totalAmount int64) error
}

// Workflow drives one draft through validation and submission. Validation and
// business-rule failures are stored for display and reported as error values;
// they never panic and never hit the network.
type Workflow struct {
	controller *draft.Controller
	target     gateway.ReceiptSubmitter
	categories gateway.CategoryReader // optional
	notifier   Notifier               // optional
	mode       PayloadMode
	loc        *time.Location

	inFlight atomic.Bool

	mu          sync.Mutex
	fieldErrors FieldErrors
	message     string
}

// New creates a workflow for the controller's draft. categories may be nil;
// the category existence check is then skipped. loc determines what "today"
// means for the future-date check.
func New(controller *draft.Controller, target gateway.ReceiptSubmitter, categories gateway.CategoryReader, mode PayloadMode, loc *time.Location) *Workflow {
	if mode != FlattenDiscount {
		mode = SeparateDiscount
	}
	return &Workflow{
		controller: controller,
		target:     target,
		categories: categories,
		mode:       mode,
		loc:        loc,
	}
}

// WithNotifier attaches a post-submission notifier.
func (w *Workflow) WithNotifier(n Notifier) *Workflow {
	w.notifier = n
	return w
}

// FieldErrors returns the per-field messages from the last submit attempt.
func (w *Workflow) FieldErrors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(FieldErrors, len(w.fieldErrors))
	for k, v := range w.fieldErrors {
		out[k] = v
	}
	return out
}

// Message returns the workflow-level message from the last submit attempt
// (business-rule or network failure), or "" when there is none.
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Submit validates the draft and, if everything passes, delivers it. On a
// truthy success result the draft is reset and all errors cleared. On any
// failure the draft is left intact and the guard released so the user can
// correct and retry. A second call while one is outstanding returns
// ErrSubmitInFlight without touching the network: the remote effect of the
// first call, once sent, cannot be retracted, so the only safe move is to
// suppress the duplicate.
func (w *Workflow) Submit(ctx context.Context) error {
	if !w.inFlight.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer w.inFlight.Store(false)

	receipt := w.controller.Receipt()
	today := core.DateOf(time.Now(), w.loc)

	// Header fields first, collecting every error rather than stopping at
	// the first so the form can mark all offending fields at once.
	fieldErrs := validateHeader(receipt, today)
	if len(fieldErrs) > 0 {
		w.setErrors(fieldErrs, "")
		return ErrFieldErrors
	}

	if len(receipt.Items) == 0 {
		w.setErrors(nil, "商品が1件もありません")
		return ErrNoItems
	}

	for i, li := range receipt.Items {
		if err := li.Validate(); err != nil {
			w.setErrors(nil, fmt.Sprintf("商品%d行目: %s", i+1, itemErrorMessage(err)))
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	totals := core.ComputeTotals(receipt.Items, w.controller.PricingMode())
	if receipt.PointUsage > totals.TotalAmount {
		msg := fmt.Sprintf("ポイント利用額が合計金額(¥%d)を超えています", totals.TotalAmount)
		w.setErrors(nil, msg)
		return fmt.Errorf("points %d exceed total %d", receipt.PointUsage, totals.TotalAmount)
	}

	w.checkCategories(ctx, receipt)

	payload := BuildPayload(receipt, totals, w.mode)

	result, err := w.target.Submit(ctx, payload)
	if err != nil {
		w.setErrors(nil, "送信に失敗しました。時間をおいて再度お試しください")
		return fmt.Errorf("submit receipt: %w", err)
	}
	if !result.OK {
		w.setErrors(nil, "送信が受け付けられませんでした")
		return errors.New("submit rejected by backend")
	}

	slog.InfoContext(ctx, "Receipt submitted",
		"key", w.controller.Key(),
		"ref", result.Ref,
		"total_amount", int64(totals.TotalAmount),
		"items", len(receipt.Items))

	if w.notifier != nil {
		if err := w.notifier.PublishReceiptSubmitted(ctx, w.controller.Key(), result.Ref, int64(totals.TotalAmount)); err != nil {
			slog.WarnContext(ctx, "Submitted notification not delivered", "error", err)
		}
	}

	w.controller.Reset(ctx)
	w.setErrors(nil, "")
	return nil
}

// checkCategories warns about category ids the backend does not know. The
// check is advisory: category management lives outside this core, so a
// lookup failure or missing reader never blocks submission.
func (w *Workflow) checkCategories(ctx context.Context, receipt core.Receipt) {
	if w.categories == nil {
		return
	}
	cats, err := w.categories.Categories(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Category check skipped", "error", err)
		return
	}
	known := make(map[int64]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	for i, li := range receipt.Items {
		if li.CategoryID != 0 && !known[li.CategoryID] {
			slog.WarnContext(ctx, "Unknown category on line item",
				"item_index", i, "category_id", li.CategoryID)
		}
	}
}

func (w *Workflow) setErrors(fields FieldErrors, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fieldErrors = fields
	w.message = message
}

func validateHeader(r core.Receipt, today core.Date) FieldErrors {
	errs := FieldErrors{}

	if r.ShopName == "" {
		errs["shopName"] = "店名を入力してください"
	} else if !core.ValidateTextLength(r.ShopName, core.MaxNameLength) {
		errs["shopName"] = fmt.Sprintf("店名は%d文字以内で入力してください", core.MaxNameLength)
	}

	if !core.ValidateTextLength(r.Memo, core.MaxMemoLength) {
		errs["memo"] = fmt.Sprintf("メモは%d文字以内で入力してください", core.MaxMemoLength)
	}

	if r.PurchaseDay.IsZero() {
		errs["purchaseDay"] = "購入日を入力してください"
	} else if r.PurchaseDay.After(today) {
		errs["purchaseDay"] = "購入日は未来の日付にできません"
	}

	if !core.ValidateAmount(r.PointUsage, core.MaxAmount) {
		errs["pointUsage"] = fmt.Sprintf("ポイントは0〜%d円の範囲で入力してください", int64(core.MaxAmount))
	}

	return errs
}

func itemErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrDiscountExceedsTotal):
		return "値引きが商品小計を超えています"
	case errors.Is(err, core.ErrEmptyName):
		return "商品名を入力してください"
	case errors.Is(err, core.ErrNameTooLong):
		return fmt.Sprintf("商品名は%d文字以内で入力してください", core.MaxNameLength)
	case errors.Is(err, core.ErrInvalidQuantity):
		return fmt.Sprintf("数量は%d〜%dの範囲で入力してください", core.MinQuantity, core.MaxQuantity)
	case errors.Is(err, core.ErrInvalidTaxRate):
		return "税率が不正です"
	default:
		return "金額が不正です"
	}
}
