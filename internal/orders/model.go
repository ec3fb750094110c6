package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// KeyOrders is the store key for the order collection, a map keyed by
// order id.
const KeyOrders = "value_life_orders"

type Status string

const (
	StatusCreated  Status = "created"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Order is a member's purchase of a catalog product. PaymentID is the
// external gateway's reference, recorded when payment settles.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	PaymentID string          `json:"payment_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
