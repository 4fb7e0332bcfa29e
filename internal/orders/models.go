package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the part of a menu item a basket line keeps.
type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image,omitempty"`
	RestaurantID   int64           `json:"restaurant_id,omitempty"`
	RestaurantName string          `json:"restaurant_name,omitempty"`
}

// Line is a product with a positive quantity, in a basket or an order.
type Line struct {
	Product
	Quantity int `json:"quantity"`
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the snapshot of a basket taken at checkout. Only Status and
// DeliveredAt change afterwards.
type Order struct {
	ID                int64           `json:"id"`
	Items             []Line          `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	ServiceFee        decimal.Decimal `json:"service_fee"`
	Total             decimal.Decimal `json:"total"`
	Status            Status          `json:"status"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
	DeliveryAddress   string          `json:"delivery_address,omitempty"`
	RestaurantID      int64           `json:"restaurant_id,omitempty"`
	RestaurantName    string          `json:"restaurant_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
}

const DefaultEstimatedDelivery = "25-35 minutes"

// Snapshot builds a confirmed order from lines. The lines are copied.
func Snapshot(id int64, lines []Line, fees Fees, at time.Time) Order {
	items := append([]Line(nil), lines...)
	t := fees.Apply(Subtotal(items))
	o := Order{
		ID:                id,
		Items:             items,
		Subtotal:          t.Subtotal,
		DeliveryFee:       t.DeliveryFee,
		ServiceFee:        t.ServiceFee,
		Total:             t.Total,
		Status:            StatusConfirmed,
		EstimatedDelivery: DefaultEstimatedDelivery,
		CreatedAt:         at.UTC(),
	}
	o.RestaurantID, o.RestaurantName = commonRestaurant(items)
	return o
}

func commonRestaurant(lines []Line) (int64, string) {
	if len(lines) == 0 {
		return 0, ""
	}
	id, name := lines[0].RestaurantID, lines[0].RestaurantName
	for _, l := range lines[1:] {
		if l.RestaurantID != id {
			return 0, ""
		}
	}
	return id, name
}

func (o Order) clone() Order {
	o.Items = append([]Line(nil), o.Items...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	return o
}
