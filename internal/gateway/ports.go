// Package gateway defines the outbound ports of the receipt core: where
// submitted receipts go and where reference data comes from. Adapters live in
// the subpackages; business logic only ever sees these interfaces.
package gateway

import "context"

// Ports for outbound adapters.
type (
	// ReceiptSubmitter delivers a finalized receipt payload to its target.
	ReceiptSubmitter interface {
		Submit(ctx context.Context, p ReceiptPayload) (SubmitResult, error)
	}

	// CategoryReader lists the spending categories known to the remote side.
	// Adapters without category data simply do not implement it.
	CategoryReader interface {
		Categories(ctx context.Context) ([]Category, error)
	}
)

// ReceiptPayload is the wire shape of one submitted receipt. The REST
// endpoint expects an array containing exactly one of these; that wrapping is
// the adapter's concern.
type ReceiptPayload struct {
	ShopName    string           `json:"shop_name"`
	ShopAddress string           `json:"shop_address"`
	PurchaseDay string           `json:"purchase_day"`
	TotalAmount int64            `json:"total_amount"`
	Memo        string           `json:"memo"`
	Products    []ProductPayload `json:"products"`
}

// ProductPayload is one line item on the wire.
type ProductPayload struct {
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	CategoryID   int64  `json:"category_id"`
	Discount     int64  `json:"discount"`
	TaxRate      int    `json:"tax_rate"`
}

// SubmitResult reports the outcome of a submission. OK mirrors the remote
// side's truthy success flag; Ref is the remote identifier when one is given.
type SubmitResult struct {
	OK  bool
	Ref string
}

// Category is the canonical category shape. Remote responses spell the id
// field several ways; the REST adapter normalizes them into this once, at the
// boundary.
type Category struct {
	ID   int64
	Name string
}
