package payment

import (
	"errors"
	"strings"
	"testing"

	"pos-api/models"
)

func TestCashSettlesFullRemainder(t *testing.T) {
	a := NewAllocator(55000)

	tender, err := a.ProposeCash(60000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Amount != 55000 {
		t.Fatalf("recorded amount = %d, want 55000", tender.Amount)
	}
	if tender.Change != 5000 {
		t.Fatalf("change = %d, want 5000", tender.Change)
	}
	if a.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", a.Remaining())
	}
	if !a.Settled() {
		t.Fatal("allocator should be settled")
	}
}

func TestCashBelowRemainingRejected(t *testing.T) {
	a := NewAllocator(55000)

	_, err := a.ProposeCash(50000)
	if !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}
	if a.Remaining() != 55000 {
		t.Fatalf("remaining changed on rejected tender: %d", a.Remaining())
	}
	if len(a.Tenders()) != 0 {
		t.Fatal("rejected tender must not be recorded")
	}
}

func TestNonCashValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   error
	}{
		{"zero amount", 0, ErrInvalidAmount},
		{"negative amount", -100, ErrInvalidAmount},
		{"over remaining", 60000, ErrOverPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(55000)
			_, err := a.Propose(models.TenderCard, tt.amount)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if a.Remaining() != 55000 {
				t.Fatalf("remaining changed on rejected tender: %d", a.Remaining())
			}
		})
	}
}

func TestNonCashGetsReference(t *testing.T) {
	a := NewAllocator(55000)

	tender, err := a.Propose(models.TenderQRIS, 20000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Reference == nil || !strings.HasPrefix(*tender.Reference, "REF-") {
		t.Fatalf("expected generated reference, got %v", tender.Reference)
	}
}

func TestSplitTender(t *testing.T) {
	a := NewAllocator(55000)

	if _, err := a.Propose(models.TenderCard, 20000); err != nil {
		t.Fatalf("card tender: %v", err)
	}
	if a.Remaining() != 35000 {
		t.Fatalf("remaining = %d, want 35000", a.Remaining())
	}

	tender, err := a.ProposeCash(35000)
	if err != nil {
		t.Fatalf("cash tender: %v", err)
	}
	if tender.Change != 0 {
		t.Fatalf("change = %d, want 0", tender.Change)
	}

	tenders, paid, err := a.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(tenders) != 2 {
		t.Fatalf("expected 2 tenders, got %d", len(tenders))
	}
	if paid != 55000 {
		t.Fatalf("paid = %d, want 55000", paid)
	}
}

func TestFinalizeNotSettled(t *testing.T) {
	a := NewAllocator(55000)
	if _, err := a.Propose(models.TenderCard, 20000); err != nil {
		t.Fatalf("card tender: %v", err)
	}

	if _, _, err := a.Finalize(); !errors.Is(err, ErrNotSettled) {
		t.Fatalf("expected ErrNotSettled, got %v", err)
	}
}

func TestFinalizeTwice(t *testing.T) {
	a := NewAllocator(10000)
	if _, err := a.ProposeCash(10000); err != nil {
		t.Fatalf("cash tender: %v", err)
	}

	if _, _, err := a.Finalize(); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if _, _, err := a.Finalize(); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
}

func TestTenderAfterSettlementRejected(t *testing.T) {
	a := NewAllocator(10000)
	if _, err := a.ProposeCash(10000); err != nil {
		t.Fatalf("cash tender: %v", err)
	}

	if _, err := a.Propose(models.TenderCard, 100); !errors.Is(err, ErrOverPayment) {
		t.Fatalf("expected ErrOverPayment after settlement, got %v", err)
	}
	if _, err := a.ProposeCash(5000); !errors.Is(err, ErrOverPayment) {
		t.Fatalf("expected ErrOverPayment for cash after settlement, got %v", err)
	}
}

func TestPaidNeverBelowTotalWhenSettled(t *testing.T) {
	a := NewAllocator(77777)
	if _, err := a.Propose(models.TenderDigitalWallet, 7777); err != nil {
		t.Fatalf("wallet tender: %v", err)
	}
	if _, err := a.ProposeCash(90000); err != nil {
		t.Fatalf("cash tender: %v", err)
	}

	if !a.Settled() {
		t.Fatal("should be settled")
	}
	if a.Paid() != a.Total() {
		t.Fatalf("paid = %d, total = %d; cash must settle at exactly the remainder", a.Paid(), a.Total())
	}
}
