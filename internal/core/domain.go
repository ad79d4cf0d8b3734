package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Inclusive means unit prices already contain consumption tax.
	Inclusive PricingMode = "inclusive"
	// Exclusive means tax is added on top of unit prices.
	Exclusive PricingMode = "exclusive"
)

const (
	TaxRateZero     TaxRate = 0
	TaxRateReduced  TaxRate = 8
	TaxRateStandard TaxRate = 10
)

// Fixed input limits. Changing one of these changes what users may enter,
// so they are deliberately constants rather than configuration.
const (
	MaxAmount         = 9_999_999 // yen, also the cap for points and discounts
	MinQuantity       = 1
	MaxQuantity       = 9999
	MaxMemoLength     = 500
	MaxNameLength     = 40 // shop names and product names
	MinPasswordLength = 8
	MaxPasswordLength = 16
	MinDays           = 1
	MaxDays           = 365
)

type (
	// Yen is an integer amount of Japanese yen. There are no fractional yen.
	Yen int64

	// TaxRate is a consumption tax percentage: 0, 8 or 10.
	TaxRate int

	// PricingMode states whether unit prices are tax-inclusive or tax-exclusive.
	PricingMode string

	// Date is a calendar date without a time of day.
	Date struct {
		time.Time
	}

	// LineItem is one product entry on a receipt.
	LineItem struct {
		Name       string  `json:"name"`
		UnitPrice  Yen     `json:"unitPrice"`
		Quantity   int     `json:"quantity"`
		Discount   Yen     `json:"discount"`
		TaxRate    TaxRate `json:"taxRate"`
		CategoryID int64   `json:"categoryId"`
	}

	// Receipt is an in-progress or submitted receipt. Item order is insertion
	// order and is significant: the controller addresses items by index.
	Receipt struct {
		ShopName    string     `json:"shopName"`
		ShopAddress string     `json:"shopAddress,omitempty"`
		Memo        string     `json:"memo"`
		PurchaseDay Date       `json:"purchaseDay"`
		PointUsage  Yen        `json:"pointUsage"`
		Items       []LineItem `json:"items"`
	}

	// ComputedTotals is derived from a Receipt and a PricingMode. It is never
	// stored; callers recompute it on every read.
	ComputedTotals struct {
		SubTotal    Yen
		TaxByRate   map[TaxRate]Yen
		TotalAmount Yen
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidTaxRate       = errors.New("invalid tax rate")
	ErrEmptyName            = errors.New("empty name")
	ErrNameTooLong          = errors.New("name too long")
	ErrMemoTooLong          = errors.New("memo too long")
	ErrDiscountExceedsTotal = errors.New("discount exceeds item total")
	ErrFuturePurchaseDay    = errors.New("purchase day is in the future")
)

// IsValid reports whether the rate is one of the recognized consumption tax rates.
func (r TaxRate) IsValid() bool {
	switch r {
	case TaxRateZero, TaxRateReduced, TaxRateStandard:
		return true
	default:
		return false
	}
}

// IsValid reports whether the pricing mode is recognized.
func (m PricingMode) IsValid() bool {
	return m == Inclusive || m == Exclusive
}

// String implements fmt.Stringer.
func (m PricingMode) String() string {
	return string(m)
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date in the given location.
// Timezone conversion happens here, once, at the boundary; everything past
// this point compares plain calendar dates.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return NewDate(y, int(m), d)
}

// Equal compares two values as calendar dates, ignoring any time of day.
func (d Date) Equal(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	if d.Equal(other) {
		return false
	}
	return d.Time.After(other.Time)
}

// MarshalJSON encodes the date as an ISO-8601 date string ("2006-01-02").
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts both plain ISO dates and full RFC 3339 timestamps,
// since stored drafts may carry either form. The time of day is discarded.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t.Year(), int(t.Month()), t.Day())
			return nil
		}
	}
	return fmt.Errorf("parse date %q", s)
}

// Validate checks a single line item against the fixed input limits.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(li.Name)) > MaxNameLength {
		return ErrNameTooLong
	}
	if li.UnitPrice < 0 || li.UnitPrice > MaxAmount {
		return ErrInvalidAmount
	}
	if li.Quantity < MinQuantity || li.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if !li.TaxRate.IsValid() {
		return ErrInvalidTaxRate
	}
	if li.Discount < 0 {
		return ErrInvalidAmount
	}
	if li.Discount > li.UnitPrice*Yen(li.Quantity) {
		return ErrDiscountExceedsTotal
	}
	return nil
}

// Validate checks the receipt header fields. Item-level rules are checked per
// item; the relation between point usage and the computed total is a business
// rule owned by the submission workflow, not by this method.
func (r Receipt) Validate(today Date) error {
	if strings.TrimSpace(r.ShopName) == "" {
		return ErrEmptyName
	}
	if len([]rune(r.ShopName)) > MaxNameLength {
		return ErrNameTooLong
	}
	if len([]rune(r.Memo)) > MaxMemoLength {
		return ErrMemoTooLong
	}
	if r.PurchaseDay.IsZero() {
		return errors.New("purchase day cannot be zero")
	}
	if r.PurchaseDay.After(today) {
		return ErrFuturePurchaseDay
	}
	if r.PointUsage < 0 || r.PointUsage > MaxAmount {
		return ErrInvalidAmount
	}
	for i, li := range r.Items {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
