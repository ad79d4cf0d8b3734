// Package core provides the receipt domain model and the tax/total engine.
//
// This file implements the line-item tax and total computation used by the
// draft controller and the submission workflow. All divisions truncate
// (floor), matching how Japanese register receipts round consumption tax.
package core

// LineTotal returns unitPrice × quantity − discount for a single item.
//
// The result is deliberately not clamped at zero: a discount larger than the
// item total is a data error that the submission workflow rejects, and hiding
// it here would make subtotals silently disagree with the entered lines.
func (li LineItem) LineTotal() Yen {
	return li.UnitPrice*Yen(li.Quantity) - li.Discount
}

// AdjustedUnitPrice folds the discount into the unit price:
// floor((unitPrice×quantity − discount) / quantity). Used when the target
// endpoint has no discount field and expects pre-flattened prices.
func (li LineItem) AdjustedUnitPrice() Yen {
	if li.Quantity == 0 {
		return 0
	}
	return floorDiv(li.LineTotal(), Yen(li.Quantity))
}

// ComputeTotals derives subtotal, per-rate tax and grand total from the items
// under the given pricing mode.
//
// In exclusive mode the taxable base is accumulated per rate bucket and tax is
// floored once per bucket. In inclusive mode tax is floored per item and the
// total is the subtotal itself, since tax is already embedded in prices.
// The two modes therefore round differently on multi-item receipts; that
// asymmetry is intentional and must not be unified, because unifying it would
// change financial totals.
//
// A 0% item contributes to the subtotal but never appears in TaxByRate.
func ComputeTotals(items []LineItem, mode PricingMode) ComputedTotals {
	totals := ComputedTotals{TaxByRate: make(map[TaxRate]Yen)}

	for _, li := range items {
		totals.SubTotal += li.LineTotal()
	}

	switch mode {
	case Exclusive:
		baseByRate := make(map[TaxRate]Yen)
		for _, li := range items {
			if rate := li.TaxRate; rate == TaxRateReduced || rate == TaxRateStandard {
				baseByRate[rate] += li.LineTotal()
			}
		}
		var totalTax Yen
		for _, rate := range []TaxRate{TaxRateReduced, TaxRateStandard} {
			base, ok := baseByRate[rate]
			if !ok {
				continue
			}
			tax := floorDiv(base*Yen(rate), 100)
			totals.TaxByRate[rate] = tax
			totalTax += tax
		}
		totals.TotalAmount = totals.SubTotal + totalTax
	default: // inclusive
		for _, li := range items {
			rate := li.TaxRate
			if rate != TaxRateReduced && rate != TaxRateStandard {
				continue
			}
			totals.TaxByRate[rate] += floorDiv(li.LineTotal()*Yen(rate), Yen(100+rate))
		}
		totals.TotalAmount = totals.SubTotal
	}

	return totals
}

// SubTotalExcludingTax returns the tax-free portion of the total, used when
// displaying an inclusive-mode receipt broken down into net + tax.
func (ct ComputedTotals) SubTotalExcludingTax() Yen {
	net := ct.TotalAmount
	for _, tax := range ct.TaxByRate {
		net -= tax
	}
	return net
}

// TotalTax sums the per-rate tax amounts.
func (ct ComputedTotals) TotalTax() Yen {
	var sum Yen
	for _, tax := range ct.TaxByRate {
		sum += tax
	}
	return sum
}

// FinalPayable is what the user actually pays after redeeming points:
// max(0, totalAmount − pointUsage). Points never affect tax computation.
func FinalPayable(totalAmount, pointUsage Yen) Yen {
	payable := totalAmount - pointUsage
	if payable < 0 {
		return 0
	}
	return payable
}

// floorDiv truncates toward negative infinity so that negative line totals
// (possible before upstream validation rejects them) still floor consistently.
func floorDiv(a, b Yen) Yen {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
