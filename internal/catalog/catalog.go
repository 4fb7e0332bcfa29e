// Package catalog serves the static restaurant and menu listing.
package catalog

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/shopspring/decimal"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrItemNotFound       = errors.New("menu item not found")
)

type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
}

type Restaurant struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Rating       float64         `json:"rating"`
	ReviewCount  int             `json:"review_count"`
	DeliveryTime string          `json:"delivery_time"`
	Cuisine      string          `json:"cuisine"`
	Distance     string          `json:"distance"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Open         bool            `json:"is_open"`
	Featured     bool            `json:"featured"`
	PriceRange   string          `json:"price_range"`
	Tags         []string        `json:"tags"`
	Menu         []MenuItem      `json:"menu,omitempty"`
}

// FeaturedItem is a menu item shown on the landing page with its restaurant.
type FeaturedItem struct {
	MenuItem
	RestaurantID   int64  `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	DeliveryTime   string `json:"delivery_time"`
}

type Sort string

const (
	SortFeatured     Sort = "featured"
	SortRating       Sort = "rating"
	SortDeliveryTime Sort = "deliveryTime"
	SortDistance     Sort = "distance"
	SortPrice        Sort = "price"
)

// Query narrows a listing. Zero fields do not filter; an unknown Sort
// falls back to SortFeatured.
type Query struct {
	Term       string
	Cuisine    string
	PriceRange string
	Sort       Sort
}

type Catalog struct {
	restaurants []Restaurant
	items       map[int64]int // menu item id -> restaurant index
}

// New returns the built-in catalog.
func New() *Catalog { return newCatalog(defaultRestaurants()) }

func newCatalog(rs []Restaurant) *Catalog {
	c := &Catalog{restaurants: rs, items: map[int64]int{}}
	for i, r := range rs {
		for _, m := range r.Menu {
			c.items[m.ID] = i
		}
	}
	return c
}

func (c *Catalog) Search(q Query) []Restaurant {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]Restaurant, 0, len(c.restaurants))
	for _, r := range c.restaurants {
		if term != "" && !r.matches(term) {
			continue
		}
		if q.Cuisine != "" && r.Cuisine != q.Cuisine {
			continue
		}
		if q.PriceRange != "" && r.PriceRange != q.PriceRange {
			continue
		}
		out = append(out, r.clone())
	}
	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func (c *Catalog) Restaurant(id int64) (Restaurant, error) {
	for _, r := range c.restaurants {
		if r.ID == id {
			return r.clone(), nil
		}
	}
	return Restaurant{}, ErrRestaurantNotFound
}

func (c *Catalog) MenuItem(id int64) (MenuItem, Restaurant, error) {
	i, ok := c.items[id]
	if !ok {
		return MenuItem{}, Restaurant{}, ErrItemNotFound
	}
	r := c.restaurants[i]
	for _, m := range r.Menu {
		if m.ID == id {
			return m, r.clone(), nil
		}
	}
	return MenuItem{}, Restaurant{}, ErrItemNotFound
}

// Product resolves a menu item into what a basket line stores.
func (c *Catalog) Product(id int64) (orders.Product, error) {
	m, r, err := c.MenuItem(id)
	if err != nil {
		return orders.Product{}, err
	}
	return orders.Product{
		ID:             m.ID,
		Name:           m.Name,
		Price:          m.Price,
		Image:          m.Image,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
	}, nil
}

// FeaturedItems flattens the menus of featured restaurants.
func (c *Catalog) FeaturedItems() []FeaturedItem {
	var out []FeaturedItem
	for _, r := range c.restaurants {
		if !r.Featured {
			continue
		}
		for _, m := range r.Menu {
			out = append(out, FeaturedItem{
				MenuItem:       m,
				RestaurantID:   r.ID,
				RestaurantName: r.Name,
				DeliveryTime:   r.DeliveryTime,
			})
		}
	}
	return out
}

func (r Restaurant) matches(term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) || strings.Contains(strings.ToLower(r.Cuisine), term) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func (r Restaurant) clone() Restaurant {
	r.Tags = slices.Clone(r.Tags)
	r.Menu = slices.Clone(r.Menu)
	return r
}

func comparator(s Sort) func(a, b Restaurant) int {
	switch s {
	case SortRating:
		return func(a, b Restaurant) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortDeliveryTime:
		return func(a, b Restaurant) int {
			return cmp.Compare(leadingNumber(a.DeliveryTime), leadingNumber(b.DeliveryTime))
		}
	case SortDistance:
		return func(a, b Restaurant) int {
			return cmp.Compare(leadingNumber(a.Distance), leadingNumber(b.Distance))
		}
	case SortPrice:
		return func(a, b Restaurant) int { return a.DeliveryFee.Cmp(b.DeliveryFee) }
	default:
		return func(a, b Restaurant) int {
			if a.Featured != b.Featured {
				if a.Featured {
					return -1
				}
				return 1
			}
			return cmp.Compare(b.Rating, a.Rating)
		}
	}
}

// leadingNumber reads "25-35 min" as 25 and "2.1 km" as 2.1.
func leadingNumber(s string) float64 {
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
