package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Discounts are stored as a fraction: 0.10 means ten percent off.
var (
	MinDiscountPercent = decimal.Zero
	MaxDiscountPercent = decimal.NewFromInt(1)
)

// DiscountScale matches the NUMERIC(5,4) column; finer values would be rounded on write.
const DiscountScale = 4

// CartLine is one persisted shopping_cart row, keyed by (UserID, ProductID).
type CartLine struct {
	UserID          int64           `json:"user_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Validate checks the bounds the shopping_cart table also enforces.
func (l CartLine) Validate() error {
	if l.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", l.Quantity)
	}

	if l.DiscountPercent.LessThan(MinDiscountPercent) || l.DiscountPercent.GreaterThan(MaxDiscountPercent) {
		return fmt.Errorf("discount_percent must be between %s and %s, got %s",
			MinDiscountPercent, MaxDiscountPercent, l.DiscountPercent)
	}

	if !l.DiscountPercent.Equal(l.DiscountPercent.Truncate(DiscountScale)) {
		return fmt.Errorf("discount_percent allows at most %d fractional digits, got %s", DiscountScale, l.DiscountPercent)
	}

	return nil
}

// CartItem pairs a live product snapshot with the cart-owned quantity and discount.
type CartItem struct {
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

func NewCartItem(product Product, quantity int, discountPercent decimal.Decimal) CartItem {
	gross := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	net := gross.Mul(decimal.NewFromInt(1).Sub(discountPercent)).Round(2)

	return CartItem{
		Product:         product,
		Quantity:        quantity,
		DiscountPercent: discountPercent,
		LineTotal:       net,
	}
}

// ShoppingCart is assembled on every read and never persisted as a whole.
type ShoppingCart struct {
	Items map[int64]CartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

func NewShoppingCart() *ShoppingCart {
	return &ShoppingCart{
		Items: make(map[int64]CartItem),
		Total: decimal.Zero,
	}
}

func (c *ShoppingCart) Add(item CartItem) {
	if existing, ok := c.Items[item.Product.ID]; ok {
		c.Total = c.Total.Sub(existing.LineTotal)
	}

	c.Items[item.Product.ID] = item
	c.Total = c.Total.Add(item.LineTotal)
}

func (c *ShoppingCart) Get(productID int64) (CartItem, bool) {
	item, ok := c.Items[productID]

	return item, ok
}

func (c *ShoppingCart) Contains(productID int64) bool {
	_, ok := c.Items[productID]

	return ok
}

func (c *ShoppingCart) Len() int {
	return len(c.Items)
}

type UpdateCartItemRequest struct {
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=1"`
}
