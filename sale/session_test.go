package sale

import (
	"context"
	"errors"
	"testing"

	"pos-api/models"
	"pos-api/payment"
	"pos-api/store"
)

func seedProduct(t *testing.T, repo store.Repository, price int64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: "Kopi Espresso", SKU: "ESP001", Price: price, Cost: 15000, Stock: stock, Category: "Minuman"}
	if err := repo.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

var kasir = models.User{ID: 3, Username: "kasir1", Name: "Kasir 1", Role: "cashier"}

func TestFullSaleFlow(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 25000, 50)
	m := NewManager(repo)

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	summary, err := m.UpdateLine(kasir, p.ID, 2, nil, "")
	if err != nil {
		t.Fatalf("update line: %v", err)
	}
	if summary.Subtotal != 50000 || summary.Tax != 5000 || summary.Total != 55000 {
		t.Fatalf("summary = %+v, want 50000/5000/55000", summary)
	}

	if _, err := m.StartPayment(kasir); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	// cart is frozen while payment is open
	if _, err := m.AddLine(ctx, kasir, p.ID); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}

	tender, summary, err := m.Tender(kasir, models.TenderCash, 0, 60000)
	if err != nil {
		t.Fatalf("tender: %v", err)
	}
	if tender.Amount != 55000 || tender.Change != 5000 {
		t.Fatalf("tender = %+v, want amount 55000 change 5000", tender)
	}
	if summary.State != StateSettled || summary.Remaining != 0 {
		t.Fatalf("summary = %+v, want settled with zero remaining", summary)
	}

	tx, err := m.Commit(ctx, kasir)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if tx.Total != tx.Subtotal+tx.Tax-tx.Discount {
		t.Fatalf("total invariant broken: %+v", tx)
	}
	if tx.TotalPaid() != tx.Total {
		t.Fatalf("paid %d != total %d", tx.TotalPaid(), tx.Total)
	}
	if tx.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", tx.Status)
	}
	if tx.ReceiptNumber == "" || tx.ID == "" {
		t.Fatalf("missing identifiers: %+v", tx)
	}

	// stock decremented exactly once
	stored, err := repo.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if stored.Stock != 48 {
		t.Fatalf("stock = %d, want 48", stored.Stock)
	}

	// a fresh building session replaces the committed one
	if got := m.Summary(kasir); got.State != StateBuilding || len(got.Lines) != 0 {
		t.Fatalf("expected fresh building session, got %+v", got)
	}
}

func TestSplitTenderFlow(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 25000, 50)
	m := NewManager(repo)

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := m.UpdateLine(kasir, p.ID, 2, nil, ""); err != nil {
		t.Fatalf("update line: %v", err)
	}
	if _, err := m.StartPayment(kasir); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	if _, summary, err := m.Tender(kasir, models.TenderCard, 20000, 0); err != nil || summary.Remaining != 35000 {
		t.Fatalf("card tender: err=%v remaining=%d", err, summary.Remaining)
	}
	if tender, _, err := m.Tender(kasir, models.TenderCash, 0, 35000); err != nil || tender.Change != 0 {
		t.Fatalf("cash tender: err=%v change=%d", err, tender.Change)
	}

	tx, err := m.Commit(ctx, kasir)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(tx.Payments) != 2 || tx.TotalPaid() != 55000 {
		t.Fatalf("payments = %+v", tx.Payments)
	}
}

func TestStartPaymentEmptyCart(t *testing.T) {
	m := NewManager(store.NewMemory())

	if _, err := m.StartPayment(kasir); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCancelPaymentKeepsCart(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 25000, 50)
	m := NewManager(repo)

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := m.StartPayment(kasir); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	// a partial tender does not block cancellation
	if _, _, err := m.Tender(kasir, models.TenderCard, 10000, 0); err != nil {
		t.Fatalf("tender: %v", err)
	}

	summary, err := m.CancelPayment(kasir)
	if err != nil {
		t.Fatalf("cancel payment: %v", err)
	}
	if summary.State != StateBuilding {
		t.Fatalf("state = %s, want building", summary.State)
	}
	if len(summary.Lines) != 1 || summary.Lines[0].Quantity != 1 {
		t.Fatalf("cart changed by cancel: %+v", summary.Lines)
	}

	// cart mutable again
	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line after cancel: %v", err)
	}
}

func TestCommitRequiresSettlement(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 25000, 50)
	m := NewManager(repo)

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := m.StartPayment(kasir); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	if _, err := m.Commit(ctx, kasir); !errors.Is(err, payment.ErrNotSettled) {
		t.Fatalf("expected ErrNotSettled, got %v", err)
	}
}

func TestCommitFailureLeavesSaleRecoverable(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 25000, 50)
	m := NewManager(repo)

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := m.StartPayment(kasir); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if _, _, err := m.Tender(kasir, models.TenderCash, 0, 30000); err != nil {
		t.Fatalf("tender: %v", err)
	}

	// product vanishes before the commit lands
	if err := repo.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	if _, err := m.Commit(ctx, kasir); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store error, got %v", err)
	}

	// the sale stays Settled: a retry hits the store again rather than
	// reporting an already finalized payment
	if _, err := m.Commit(ctx, kasir); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("retry should surface the store error, got %v", err)
	}

	summary, err := m.CancelPayment(kasir)
	if err != nil {
		t.Fatalf("cancel after failed commit: %v", err)
	}
	if summary.State != StateBuilding {
		t.Fatalf("state = %s, want building", summary.State)
	}
}

func TestReceiptNumbersDistinct(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 10000, 50)
	m := NewManager(repo)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
			t.Fatalf("add line: %v", err)
		}
		if _, err := m.StartPayment(kasir); err != nil {
			t.Fatalf("start payment: %v", err)
		}
		if _, _, err := m.Tender(kasir, models.TenderCash, 0, 11000); err != nil {
			t.Fatalf("tender: %v", err)
		}
		tx, err := m.Commit(ctx, kasir)
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		if seen[tx.ReceiptNumber] {
			t.Fatalf("duplicate receipt number %s", tx.ReceiptNumber)
		}
		seen[tx.ReceiptNumber] = true
	}
}

func TestTillsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	p := seedProduct(t, repo, 10000, 50)
	m := NewManager(repo)

	other := models.User{ID: 7, Username: "kasir2", Name: "Kasir 2", Role: "cashier"}

	if _, err := m.AddLine(ctx, kasir, p.ID); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if got := m.Summary(other); len(got.Lines) != 0 {
		t.Fatalf("second till sees first till's cart: %+v", got)
	}
}
