package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedOrders returns the two illustrative orders shown to a workspace with
// no history: one delivered two days ago, one on the way.
func SeedOrders(now time.Time) []Order {
	now = now.UTC()
	price := decimal.RequireFromString

	burgerAt := now.Add(-48 * time.Hour)
	deliveredAt := burgerAt.Add(30 * time.Minute)
	burger := Order{
		ID: 1001,
		Items: []Line{
			{Product: Product{ID: 101, Name: "Classic Burger", Price: price("12.99"),
				Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=300",
				RestaurantID: 1, RestaurantName: "Burger Palace"}, Quantity: 2},
			{Product: Product{ID: 102, Name: "Cheese Fries", Price: price("6.99"),
				Image: "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=300",
				RestaurantID: 1, RestaurantName: "Burger Palace"}, Quantity: 1},
		},
		Subtotal:          price("32.97"),
		DeliveryFee:       price("2.99"),
		ServiceFee:        price("1.99"),
		Total:             price("37.95"),
		Status:            StatusDelivered,
		EstimatedDelivery: "25-35 minutes",
		RestaurantID:      1,
		RestaurantName:    "Burger Palace",
		CreatedAt:         burgerAt,
		DeliveredAt:       &deliveredAt,
	}

	pasta := Order{
		ID: 1002,
		Items: []Line{
			{Product: Product{ID: 201, Name: "Spaghetti Carbonara", Price: price("15.99"),
				Image: "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=300",
				RestaurantID: 2, RestaurantName: "Pasta Corner"}, Quantity: 1},
		},
		Subtotal:          price("15.99"),
		DeliveryFee:       price("1.99"),
		ServiceFee:        price("1.99"),
		Total:             price("19.97"),
		Status:            StatusOnTheWay,
		EstimatedDelivery: "30-40 minutes",
		RestaurantID:      2,
		RestaurantName:    "Pasta Corner",
		CreatedAt:         now.Add(-45 * time.Minute),
	}

	return []Order{burger, pasta}
}
