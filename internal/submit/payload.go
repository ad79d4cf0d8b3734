package submit

import (
	"kakeibo/internal/core"
	"kakeibo/internal/gateway"
)

// BuildPayload converts a validated receipt into the wire shape. The pricing
// mode has already been applied when computing totals; products always carry
// the rate so the backend can reproduce the breakdown.
func BuildPayload(r core.Receipt, totals core.ComputedTotals, mode PayloadMode) gateway.ReceiptPayload {
	p := gateway.ReceiptPayload{
		ShopName:    r.ShopName,
		ShopAddress: r.ShopAddress,
		PurchaseDay: r.PurchaseDay.Format("2006-01-02"),
		TotalAmount: int64(totals.TotalAmount),
		Memo:        r.Memo,
		Products:    make([]gateway.ProductPayload, 0, len(r.Items)),
	}

	for _, li := range r.Items {
		prod := gateway.ProductPayload{
			ProductName: li.Name,
			Quantity:    li.Quantity,
			CategoryID:  li.CategoryID,
			TaxRate:     int(li.TaxRate),
		}
		switch mode {
		case FlattenDiscount:
			prod.ProductPrice = int64(li.AdjustedUnitPrice())
			prod.Discount = 0
		default:
			prod.ProductPrice = int64(li.UnitPrice)
			prod.Discount = int64(li.Discount)
		}
		p.Products = append(p.Products, prod)
	}

	return p
}
