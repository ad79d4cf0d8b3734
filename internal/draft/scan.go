package draft

import (
	"fmt"
	"strconv"

	"kakeibo/internal/core"
)

// ScannedReceipt is a receipt as delivered by the OCR pipeline. Numeric
// fields arrive as strings, often with full-width digits or stray characters,
// and must be coerced before the receipt can seed a draft.
type ScannedReceipt struct {
	ShopName    string        `json:"shop_name"`
	ShopAddress string        `json:"shop_address"`
	PurchaseDay string        `json:"purchase_day"`
	Memo        string        `json:"memo"`
	Items       []ScannedItem `json:"products"`
}

// ScannedItem is one OCR-extracted product line.
type ScannedItem struct {
	Name       string `json:"product_name"`
	UnitPrice  string `json:"product_price"`
	Quantity   string `json:"quantity"`
	Discount   string `json:"discount"`
	TaxRate    string `json:"tax_rate"`
	CategoryID int64  `json:"category_id"`
}

// FromScan coerces a scanned receipt into a draft seed. Unreadable numeric
// fields fall back to safe defaults rather than failing the whole import: an
// unreadable price becomes 0 and an unreadable quantity becomes 1, both of
// which the user reviews before submission anyway. Only an unparseable
// purchase day is an error, since defaulting a date would silently misfile
// the receipt.
func FromScan(scan ScannedReceipt) (core.Receipt, error) {
	var day core.Date
	if err := day.UnmarshalJSON([]byte(`"` + scan.PurchaseDay + `"`)); err != nil {
		return core.Receipt{}, fmt.Errorf("scanned purchase day: %w", err)
	}

	r := core.Receipt{
		ShopName:    scan.ShopName,
		ShopAddress: scan.ShopAddress,
		Memo:        scan.Memo,
		PurchaseDay: day,
	}

	for _, it := range scan.Items {
		rate := core.TaxRate(coerceInt(it.TaxRate, int64(core.TaxRateStandard)))
		if !rate.IsValid() {
			rate = core.TaxRateStandard
		}
		r.Items = append(r.Items, core.LineItem{
			Name:       it.Name,
			UnitPrice:  core.Yen(coerceInt(it.UnitPrice, 0)),
			Quantity:   int(coerceInt(it.Quantity, 1)),
			Discount:   core.Yen(coerceInt(it.Discount, 0)),
			TaxRate:    rate,
			CategoryID: it.CategoryID,
		})
	}

	return r, nil
}

// coerceInt sanitizes an OCR string (full-width digits, currency marks) and
// parses the remaining digits, returning fallback when nothing parseable is left.
func coerceInt(raw string, fallback int64) int64 {
	digits := core.SanitizeNumericInput(raw)
	if digits == "" {
		return fallback
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
