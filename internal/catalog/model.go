package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// KeyProducts is the store key for the product collection, kept as a map
// keyed by product id.
const KeyProducts = "value_life_products"

// Product is an item in the Value Life catalog. CommissionRate is a
// percentage used when computing purchase-driven bonuses.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
	CreatedDate    time.Time       `json:"created_date"`
}
