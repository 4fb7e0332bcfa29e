package orders

import "github.com/shopspring/decimal"

// Fees are flat charges added on top of the subtotal at checkout.
type Fees struct {
	Delivery decimal.Decimal
	Service  decimal.Decimal
}

func DefaultFees() Fees {
	return Fees{
		Delivery: decimal.RequireFromString("2.99"),
		Service:  decimal.RequireFromString("1.99"),
	}
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	Total       decimal.Decimal `json:"total"`
}

func (f Fees) Apply(subtotal decimal.Decimal) Totals {
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: f.Delivery,
		ServiceFee:  f.Service,
		Total:       subtotal.Add(f.Delivery).Add(f.Service),
	}
}

// Subtotal is the sum of price * quantity over lines; zero when empty.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
