package seeders

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pos-api/logger"
	"pos-api/models"
	"pos-api/store"
)

func ptrString(s string) *string {
	return &s
}

func hash(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
}

// Seed loads the sample users and catalog into an empty store. A store
// that already has products (a persistent one across restarts) is left
// alone.
func Seed(ctx context.Context, repo store.Repository) error {
	products, _, err := repo.ListProducts(ctx, store.ProductFilter{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	users := []models.User{
		{Username: "admin", Password: hash("admin123"), Name: "Admin System", Role: "admin"},
		{Username: "manager", Password: hash("manager123"), Name: "Manajer Toko", Role: "manager"},
		{Username: "kasir1", Password: hash("kasir123"), Name: "Kasir 1", Role: "cashier"},
	}
	for i := range users {
		if _, err := repo.GetUserByUsername(ctx, users[i].Username); err == nil {
			continue
		}
		if err := repo.CreateUser(ctx, &users[i]); err != nil {
			return err
		}
	}

	catalog := []models.Product{
		{Name: "Kopi Espresso", SKU: "ESP001", Price: 25000, Cost: 15000, Stock: 50, Category: "Minuman", Barcode: ptrString("1234567890123")},
		{Name: "Nasi Goreng Special", SKU: "NSG001", Price: 35000, Cost: 20000, Stock: 30, Category: "Makanan", Barcode: ptrString("1234567890124")},
		{Name: "Cappuccino", SKU: "CAP001", Price: 30000, Cost: 18000, Stock: 40, Category: "Minuman", Barcode: ptrString("1234567890125")},
		{Name: "Sandwich Tuna", SKU: "SAN001", Price: 28000, Cost: 16000, Stock: 25, Category: "Makanan", Barcode: ptrString("1234567890126")},
		{Name: "Teh Botol", SKU: "TEH001", Price: 5000, Cost: 3000, Stock: 80, Category: "Minuman"},
		{Name: "Chitato", SKU: "CHI001", Price: 8000, Cost: 5000, Stock: 60, Category: "Snack"},
		{Name: "Aqua Botol", SKU: "AQU001", Price: 4000, Cost: 2500, Stock: 120, Category: "Minuman"},
		{Name: "Silverqueen", SKU: "SIL001", Price: 15000, Cost: 10000, Stock: 8, Category: "Snack", MinStock: 10},
	}
	for i := range catalog {
		if err := repo.CreateProduct(ctx, &catalog[i]); err != nil {
			return err
		}
	}

	logger.Get().Info("seeding done",
		zap.Int("users", len(users)),
		zap.Int("products", len(catalog)),
	)
	return nil
}
