package core

import "time"

// Frequency is how often a recurring template produces a draft.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// RecurringTemplate describes a fixed cost (rent, subscription, utility
// estimate) that is turned into a queued draft on its schedule rather than
// entered by hand every period.
type RecurringTemplate struct {
	ID            int64
	ItemName      string
	Amount        Yen
	Quantity      int
	TaxRate       TaxRate
	CategoryID    int64
	ShopName      string
	Frequency     Frequency
	StartDate     Date
	LastExecution time.Time
	Active        bool
}

// Item renders the template as a receipt line item.
func (t RecurringTemplate) Item() LineItem {
	qty := t.Quantity
	if qty < MinQuantity {
		qty = MinQuantity
	}
	return LineItem{
		Name:       t.ItemName,
		UnitPrice:  t.Amount,
		Quantity:   qty,
		TaxRate:    t.TaxRate,
		CategoryID: t.CategoryID,
	}
}
