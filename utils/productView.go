package utils

import "pos-api/models"

// ProductViewCashier hides the unit cost and low-stock configuration from
// cashier responses; only admins and managers see margins.
type ProductViewCashier struct {
	ID          uint    `json:"id"`
	SKU         string  `json:"sku"`
	Barcode     *string `json:"barcode,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func FilterProductsForRole(products []models.Product, role string) interface{} {
	if role != "cashier" {
		return products
	}

	views := make([]ProductViewCashier, len(products))
	for i, p := range products {
		views[i] = cashierView(p)
	}
	return views
}

func FilterProductForRole(p models.Product, role string) interface{} {
	if role != "cashier" {
		return p
	}
	return cashierView(p)
}

func cashierView(p models.Product) ProductViewCashier {
	return ProductViewCashier{
		ID:          p.ID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}
