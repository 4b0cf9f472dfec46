package models

// DiscountType selects how a per-line discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CartItem is one line of the in-progress sale. It lives only in till
// session memory and is destroyed on checkout completion or cart clear;
// the Product field is a snapshot taken when the line was added.
type CartItem struct {
	Product      Product      `json:"product"`
	Quantity     int          `json:"quantity"`
	Discount     int64        `json:"discount,omitempty"`
	DiscountType DiscountType `json:"discount_type,omitempty"`
}
