package amqp

import (
	"encoding/json"
	"time"

	"kakeibo/internal/draft"
)

// ScannedReceiptMessage carries one OCR-scanned receipt from the scanning
// pipeline into a queued draft slot. Numeric fields inside the receipt are
// string-typed; coercion happens when the draft is seeded, not here.
type ScannedReceiptMessage struct {
	Slot      string               `json:"slot"`
	Receipt   draft.ScannedReceipt `json:"receipt"`
	Timestamp time.Time            `json:"timestamp"`
}

// ReceiptSubmittedMessage announces a successful submission, letting
// downstream consumers (budget aggregation, replenishment reminders) react
// without polling.
type ReceiptSubmittedMessage struct {
	Slot        string    `json:"slot"`
	Ref         string    `json:"ref"`
	TotalAmount int64     `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReceiptSubmittedMessage creates a submitted notification stamped now.
func NewReceiptSubmittedMessage(slot, ref string, totalAmount int64) *ReceiptSubmittedMessage {
	return &ReceiptSubmittedMessage{
		Slot:        slot,
		Ref:         ref,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReceiptSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ScannedReceiptMessageFromJSON creates a message from JSON bytes.
func ScannedReceiptMessageFromJSON(data []byte) (*ScannedReceiptMessage, error) {
	var msg ScannedReceiptMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
