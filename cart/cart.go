// Package cart implements the till's cart engine: an ordered list of
// lines with clamped quantities and exact integer pricing.
package cart

import (
	"github.com/shopspring/decimal"

	"pos-api/models"
)

// taxRate is the flat 10% PPN applied to the subtotal.
var taxRate = decimal.New(1, -1)

var oneHundred = decimal.NewFromInt(100)

// Cart holds the lines of the in-progress sale in insertion order.
type Cart struct {
	lines []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Lines returns a copy of the cart lines in display order.
func (c *Cart) Lines() []models.CartItem {
	out := make([]models.CartItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) find(productID uint) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddLine increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. Quantity silently caps at the
// product's stock; a product with no stock is never added.
func (c *Cart) AddLine(p models.Product) {
	if i := c.find(p.ID); i >= 0 {
		if c.lines[i].Quantity < c.lines[i].Product.Stock {
			c.lines[i].Quantity++
		}
		return
	}
	if p.Stock < 1 {
		return
	}
	c.lines = append(c.lines, models.CartItem{Product: p, Quantity: 1})
}

// SetQuantity sets a line's quantity clamped to [1, stock]. A quantity of
// zero or less removes the line, as does a product whose stock has gone
// to zero.
func (c *Cart) SetQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(productID)
		return
	}
	i := c.find(productID)
	if i < 0 {
		return
	}
	if stock := c.lines[i].Product.Stock; quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		c.RemoveLine(productID)
		return
	}
	c.lines[i].Quantity = quantity
}

// SetDiscount attaches a per-line discount. A non-positive discount
// clears it. No-op if the line is absent.
func (c *Cart) SetDiscount(productID uint, discount int64, discountType models.DiscountType) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if discount <= 0 {
		c.lines[i].Discount = 0
		c.lines[i].DiscountType = ""
		return
	}
	c.lines[i].Discount = discount
	c.lines[i].DiscountType = discountType
}

// RemoveLine deletes the line for the product; idempotent if absent.
func (c *Cart) RemoveLine(productID uint) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// LineTotal computes price*quantity minus the line discount, clamped at
// zero. Percentage discounts are rounded half-up to a whole rupiah.
func LineTotal(line models.CartItem) int64 {
	unit := decimal.NewFromInt(line.Product.Price).
		Mul(decimal.NewFromInt(int64(line.Quantity)))

	var disc decimal.Decimal
	if line.Discount > 0 {
		switch line.DiscountType {
		case models.DiscountPercentage:
			disc = unit.Mul(decimal.NewFromInt(line.Discount)).Div(oneHundred).Round(0)
		default:
			disc = decimal.NewFromInt(line.Discount)
		}
	}

	total := unit.Sub(disc)
	if total.IsNegative() {
		return 0
	}
	return total.IntPart()
}

// Subtotal sums LineTotal over all lines.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, line := range c.lines {
		sum += LineTotal(line)
	}
	return sum
}

// Tax applies the flat 10% rate to a subtotal, rounded half-up to a whole
// rupiah.
func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}

// Total is subtotal plus tax. The Transaction-level discount field is not
// applied here; the engine reserves it for future use.
func (c *Cart) Total() int64 {
	subtotal := c.Subtotal()
	return subtotal + Tax(subtotal)
}
