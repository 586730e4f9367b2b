package checkout

import (
	"time"

	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
)

type OrderItem struct {
	ID       string
	Name     string
	Price    int64
	Quantity int
}

type ShippingAddress struct {
	FullName string
	Address  string
	Phone    string
}

type Order struct {
	ID              string
	OrderCode       string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   Method
	TotalAmount     int64
	IsPaid          bool
	Status          string
	CreatedAt       time.Time
}

// Validate rejects order records the gateway returned without an
// identifier. A nominally successful response missing the id must not
// reach the confirmation step.
func (o *Order) Validate() error {
	if o == nil || o.ID == "" {
		return domainErrors.ErrOrderMissingID
	}
	return nil
}
