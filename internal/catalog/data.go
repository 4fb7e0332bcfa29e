package catalog

import "github.com/shopspring/decimal"

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultRestaurants() []Restaurant {
	return []Restaurant{
		{
			ID:           1,
			Name:         "Burger Palace",
			Image:        "https://images.unsplash.com/photo-1571091718767-18b5b1457add?w=500",
			Rating:       4.5,
			ReviewCount:  150,
			DeliveryTime: "25-35 min",
			Cuisine:      "Fast Food",
			Distance:     "2.1 km",
			DeliveryFee:  price("2.99"),
			Open:         true,
			Featured:     true,
			PriceRange:   "$$",
			Tags:         []string{"burgers", "fries", "milkshakes"},
			Menu: []MenuItem{
				{ID: 101, Name: "Classic Burger", Description: "Juicy beef patty with lettuce, tomato, and special sauce", Price: price("12.99"), Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=300", Category: "Main Course"},
				{ID: 102, Name: "Cheese Fries", Description: "Crispy fries topped with melted cheese", Price: price("6.99"), Image: "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=300", Category: "Sides"},
			},
		},
		{
			ID:           2,
			Name:         "Pasta Corner",
			Image:        "https://images.unsplash.com/photo-1555396273-367ea4eb4db5?w=500",
			Rating:       4.7,
			ReviewCount:  203,
			DeliveryTime: "30-40 min",
			Cuisine:      "Italian",
			Distance:     "1.8 km",
			DeliveryFee:  price("1.99"),
			Open:         true,
			Featured:     true,
			PriceRange:   "$$$",
			Tags:         []string{"pasta", "pizza", "italian"},
			Menu: []MenuItem{
				{ID: 201, Name: "Spaghetti Carbonara", Description: "Classic Italian pasta with eggs, cheese, and pancetta", Price: price("15.99"), Image: "https://images.unsplash.com/photo-1621996346565-e3dbc353d2e5?w=300", Category: "Main Course"},
				{ID: 202, Name: "Margherita Pizza", Description: "Fresh tomato sauce, mozzarella, and basil", Price: price("18.99"), Image: "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=300", Category: "Pizza"},
			},
		},
		{
			ID:           3,
			Name:         "Asian Fusion",
			Image:        "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=500",
			Rating:       4.6,
			ReviewCount:  89,
			DeliveryTime: "20-30 min",
			Cuisine:      "Asian",
			Distance:     "3.2 km",
			DeliveryFee:  price("3.99"),
			Open:         true,
			Featured:     true,
			PriceRange:   "$$",
			Tags:         []string{"asian", "sushi", "noodles"},
			Menu: []MenuItem{
				{ID: 301, Name: "Chicken Teriyaki", Description: "Grilled chicken with teriyaki glaze and steamed rice", Price: price("14.99"), Image: "https://images.unsplash.com/photo-1546833999-b9f581a1996d?w=300", Category: "Main Course"},
				{ID: 302, Name: "Vegetable Fried Rice", Description: "Wok-fried rice with mixed vegetables", Price: price("11.99"), Image: "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=300", Category: "Rice Dishes"},
			},
		},
		{
			ID:           4,
			Name:         "Taco Fiesta",
			Image:        "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=500",
			Rating:       4.3,
			ReviewCount:  127,
			DeliveryTime: "15-25 min",
			Cuisine:      "Mexican",
			Distance:     "1.5 km",
			DeliveryFee:  price("1.99"),
			Open:         true,
			PriceRange:   "$",
			Tags:         []string{"tacos", "burritos", "mexican"},
			Menu: []MenuItem{
				{ID: 401, Name: "Beef Tacos", Description: "Three soft tacos with seasoned beef and salsa", Price: price("9.99"), Category: "Main Course"},
				{ID: 402, Name: "Chicken Burrito", Description: "Grilled chicken, rice, beans and cheese", Price: price("11.49"), Category: "Main Course"},
			},
		},
		{
			ID:           5,
			Name:         "India House",
			Image:        "https://images.unsplash.com/photo-1585937421612-70a008356fbe?w=500",
			Rating:       4.4,
			ReviewCount:  76,
			DeliveryTime: "35-45 min",
			Cuisine:      "Indian",
			Distance:     "4.1 km",
			DeliveryFee:  price("4.99"),
			Open:         false,
			PriceRange:   "$$",
			Tags:         []string{"curry", "biryani", "indian"},
			Menu: []MenuItem{
				{ID: 501, Name: "Butter Chicken", Description: "Chicken in a creamy tomato curry", Price: price("14.49"), Category: "Main Course"},
				{ID: 502, Name: "Vegetable Biryani", Description: "Spiced basmati rice with vegetables", Price: price("12.99"), Category: "Rice Dishes"},
			},
		},
		{
			ID:           6,
			Name:         "Pizza Express",
			Image:        "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=500",
			Rating:       4.2,
			ReviewCount:  234,
			DeliveryTime: "20-30 min",
			Cuisine:      "Italian",
			Distance:     "2.8 km",
			DeliveryFee:  price("2.99"),
			Open:         true,
			PriceRange:   "$$",
			Tags:         []string{"pizza", "italian", "fast"},
			Menu: []MenuItem{
				{ID: 601, Name: "Pepperoni Pizza", Description: "Mozzarella and pepperoni on a thin crust", Price: price("16.99"), Category: "Pizza"},
				{ID: 602, Name: "Garlic Bread", Description: "Toasted bread with garlic butter", Price: price("5.49"), Category: "Sides"},
			},
		},
	}
}
