package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"pos-api/models"
)

func newTestMemory(t *testing.T) (*Memory, context.Context) {
	t.Helper()
	return NewMemory(), context.Background()
}

func mustCreateProduct(t *testing.T, m *Memory, ctx context.Context, p models.Product) models.Product {
	t.Helper()
	if err := m.CreateProduct(ctx, &p); err != nil {
		t.Fatalf("create product %s: %v", p.SKU, err)
	}
	return p
}

func sampleTransaction(productID uint, quantity int, createdAt time.Time) models.Transaction {
	price := int64(25000)
	subtotal := price * int64(quantity)
	tax := subtotal / 10
	return models.Transaction{
		ID:            uuid.NewString(),
		ReceiptNumber: "R" + uuid.NewString()[:6],
		CashierID:     3,
		CashierName:   "Kasir 1",
		Items: []models.TransactionItem{
			{ProductID: productID, SKU: "ESP001", Name: "Kopi Espresso", Price: price, Cost: 15000, Quantity: quantity, Subtotal: subtotal},
		},
		Payments: []models.Tender{
			{Type: models.TenderCash, Amount: subtotal + tax, Change: 5000},
		},
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal + tax,
		Status:    models.StatusCompleted,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestProductCRUD(t *testing.T) {
	m, ctx := newTestMemory(t)

	p := mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi Espresso", SKU: "ESP001", Price: 25000, Cost: 15000, Stock: 50, Category: "Minuman"})
	if p.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := m.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SKU != "ESP001" {
		t.Fatalf("got %+v", got)
	}

	got.Price = 27000
	if err := m.UpdateProduct(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := m.GetProduct(ctx, p.ID)
	if updated.Price != 27000 {
		t.Fatalf("price = %d after update", updated.Price)
	}

	if err := m.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.DeleteProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	m, ctx := newTestMemory(t)

	mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 1})

	dup := models.Product{Name: "Other", SKU: "esp001", Price: 100, Stock: 1}
	if err := m.CreateProduct(ctx, &dup); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestUpdateProductDuplicateSKU(t *testing.T) {
	m, ctx := newTestMemory(t)

	mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 1})
	other := mustCreateProduct(t, m, ctx, models.Product{Name: "Teh", SKU: "TEH001", Price: 5000, Stock: 1})

	other.SKU = "esp001"
	if err := m.UpdateProduct(ctx, &other); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}

	// updating a product keeping its own SKU is fine
	kept, _ := m.GetProduct(ctx, other.ID)
	kept.Price = 6000
	if err := m.UpdateProduct(ctx, kept); err != nil {
		t.Fatalf("update with own sku: %v", err)
	}
}

func TestListProductsFilterAndPagination(t *testing.T) {
	m, ctx := newTestMemory(t)

	mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi Espresso", SKU: "ESP001", Price: 25000, Stock: 50, Category: "Minuman"})
	mustCreateProduct(t, m, ctx, models.Product{Name: "Cappuccino", SKU: "CAP001", Price: 30000, Stock: 40, Category: "Minuman"})
	mustCreateProduct(t, m, ctx, models.Product{Name: "Chitato", SKU: "CHI001", Price: 8000, Stock: 60, Category: "Snack"})

	list, total, err := m.ListProducts(ctx, ProductFilter{Query: "kopi"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].SKU != "ESP001" {
		t.Fatalf("query filter: total=%d list=%+v", total, list)
	}

	list, total, _ = m.ListProducts(ctx, ProductFilter{Category: "Minuman"})
	if total != 2 || len(list) != 2 {
		t.Fatalf("category filter: total=%d len=%d", total, len(list))
	}

	list, total, _ = m.ListProducts(ctx, ProductFilter{Page: 2, PageSize: 2})
	if total != 3 || len(list) != 1 {
		t.Fatalf("pagination: total=%d len=%d", total, len(list))
	}

	list, total, _ = m.ListProducts(ctx, ProductFilter{Page: 9})
	if total != 3 || len(list) != 0 {
		t.Fatalf("page beyond end: total=%d len=%d", total, len(list))
	}
}

func TestCategoriesAndLowStock(t *testing.T) {
	m, ctx := newTestMemory(t)

	mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 50, Category: "Minuman"})
	mustCreateProduct(t, m, ctx, models.Product{Name: "Chitato", SKU: "CHI001", Price: 8000, Stock: 60, Category: "Snack"})
	mustCreateProduct(t, m, ctx, models.Product{Name: "Silverqueen", SKU: "SIL001", Price: 15000, Stock: 8, Category: "Snack", MinStock: 10})

	categories, err := m.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Minuman" || categories[1] != "Snack" {
		t.Fatalf("categories = %v", categories)
	}

	low, err := m.LowStockProducts(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].SKU != "SIL001" {
		t.Fatalf("low stock = %+v", low)
	}
}

func TestCommitTransactionDecrementsStock(t *testing.T) {
	m, ctx := newTestMemory(t)
	p := mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 50})

	tx := sampleTransaction(p.ID, 2, time.Now())
	if err := m.CommitTransaction(ctx, &tx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, _ := m.GetProduct(ctx, p.ID)
	if got.Stock != 48 {
		t.Fatalf("stock = %d, want 48", got.Stock)
	}

	stored, err := m.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if stored.Total != tx.Total || len(stored.Items) != 1 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestRefundTransaction(t *testing.T) {
	m, ctx := newTestMemory(t)
	p := mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 50})

	tx := sampleTransaction(p.ID, 2, time.Now())
	if err := m.CommitTransaction(ctx, &tx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	refunded, err := m.RefundTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.Status != models.StatusRefunded {
		t.Fatalf("status = %s", refunded.Status)
	}
	// tenders stay on the record
	if len(refunded.Payments) != 1 {
		t.Fatalf("payments = %+v", refunded.Payments)
	}

	got, _ := m.GetProduct(ctx, p.ID)
	if got.Stock != 50 {
		t.Fatalf("stock = %d, want restored 50", got.Stock)
	}

	if _, err := m.RefundTransaction(ctx, tx.ID); !errors.Is(err, ErrNotRefundable) {
		t.Fatalf("double refund should be ErrNotRefundable, got %v", err)
	}

	if _, err := m.RefundTransaction(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id should be ErrNotFound, got %v", err)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	m, ctx := newTestMemory(t)
	p := mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 500})

	yesterday := time.Now().Add(-24 * time.Hour)
	today := time.Now()

	old := sampleTransaction(p.ID, 1, yesterday)
	recent := sampleTransaction(p.ID, 2, today)
	for _, tx := range []models.Transaction{old, recent} {
		tx := tx
		if err := m.CommitTransaction(ctx, &tx); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	if _, err := m.RefundTransaction(ctx, old.ID); err != nil {
		t.Fatalf("refund: %v", err)
	}

	// newest first
	list, total, err := m.ListTransactions(ctx, TransactionFilter{All: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || list[0].ID != recent.ID {
		t.Fatalf("ordering: total=%d first=%s", total, list[0].ID)
	}

	list, _, _ = m.ListTransactions(ctx, TransactionFilter{Statuses: []models.TransactionStatus{models.StatusRefunded}, All: true})
	if len(list) != 1 || list[0].ID != old.ID {
		t.Fatalf("status filter: %+v", list)
	}

	list, _, _ = m.ListTransactions(ctx, TransactionFilter{Date: &today, All: true})
	if len(list) != 1 || list[0].ID != recent.ID {
		t.Fatalf("date filter: %+v", list)
	}

	since := today.Add(-time.Hour)
	list, _, _ = m.ListTransactions(ctx, TransactionFilter{Since: &since, All: true})
	if len(list) != 1 || list[0].ID != recent.ID {
		t.Fatalf("since filter: %+v", list)
	}

	list, total, _ = m.ListTransactions(ctx, TransactionFilter{Page: 1, PageSize: 1})
	if total != 2 || len(list) != 1 {
		t.Fatalf("pagination: total=%d len=%d", total, len(list))
	}
}

func TestCashSessionLifecycle(t *testing.T) {
	m, ctx := newTestMemory(t)

	if _, err := m.CurrentCashSession(ctx, 3); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	s := models.CashSession{UserID: 3, OpeningCash: 500000}
	if err := m.OpenCashSession(ctx, &s); err != nil {
		t.Fatalf("open: %v", err)
	}

	second := models.CashSession{UserID: 3, OpeningCash: 100000}
	if err := m.OpenCashSession(ctx, &second); !errors.Is(err, ErrSessionOpen) {
		t.Fatalf("expected ErrSessionOpen, got %v", err)
	}

	current, err := m.CurrentCashSession(ctx, 3)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.OpeningCash != 500000 || current.Status != "open" {
		t.Fatalf("current = %+v", current)
	}

	current.Status = "closed"
	now := time.Now()
	current.ClosedAt = &now
	if err := m.CloseCashSession(ctx, current); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := m.CurrentCashSession(ctx, 3); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after close, got %v", err)
	}
}

func TestCashTotalsSince(t *testing.T) {
	m, ctx := newTestMemory(t)
	p := mustCreateProduct(t, m, ctx, models.Product{Name: "Kopi", SKU: "ESP001", Price: 25000, Stock: 500})

	opened := time.Now().Add(-time.Hour)

	before := sampleTransaction(p.ID, 1, opened.Add(-time.Hour))
	during := sampleTransaction(p.ID, 2, opened.Add(time.Minute))
	for _, tx := range []models.Transaction{before, during} {
		tx := tx
		if err := m.CommitTransaction(ctx, &tx); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	cashIn, changeOut, err := m.CashTotalsSince(ctx, opened)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	// gross cash received: 55000 recorded + 5000 change handed back
	if cashIn != 60000 {
		t.Fatalf("cashIn = %d, want 60000", cashIn)
	}
	if changeOut != 5000 {
		t.Fatalf("changeOut = %d, want 5000", changeOut)
	}
}
