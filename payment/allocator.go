// Package payment implements multi-tender allocation against a frozen
// sale total: remaining-balance tracking, cash change, and settlement.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pos-api/models"
)

var (
	// ErrInsufficientCash rejects a cash tender below the remaining balance;
	// cash always settles the whole remainder in one submission.
	ErrInsufficientCash = errors.New("cash received is less than remaining balance")
	// ErrInvalidAmount rejects a non-positive non-cash tender amount.
	ErrInvalidAmount = errors.New("tender amount must be greater than zero")
	// ErrOverPayment rejects a non-cash tender above the remaining balance.
	ErrOverPayment = errors.New("tender amount exceeds remaining balance")
	// ErrNotSettled rejects finalize while a balance remains.
	ErrNotSettled = errors.New("payment is not settled")
	// ErrAlreadyFinalized rejects any operation after finalize.
	ErrAlreadyFinalized = errors.New("payment already finalized")
)

// Allocator accepts a sequence of tenders against a total fixed at
// construction. The total comes from the cart engine at the moment
// payment starts; the cart is frozen from that point.
type Allocator struct {
	total     int64
	tenders   []models.Tender
	finalized bool
}

func NewAllocator(total int64) *Allocator {
	return &Allocator{total: total}
}

func (a *Allocator) Total() int64 {
	return a.total
}

// Paid sums the recorded tender amounts.
func (a *Allocator) Paid() int64 {
	var paid int64
	for _, t := range a.tenders {
		paid += t.Amount
	}
	return paid
}

// Remaining is total minus the sum of accepted tenders.
func (a *Allocator) Remaining() int64 {
	return a.total - a.Paid()
}

// Settled reports whether the remaining balance has reached zero.
func (a *Allocator) Settled() bool {
	return a.Remaining() <= 0
}

// Tenders returns a copy of the recorded tenders in submission order.
func (a *Allocator) Tenders() []models.Tender {
	out := make([]models.Tender, len(a.tenders))
	copy(out, a.tenders)
	return out
}

// ProposeCash records a cash tender. Cash settles the entire remaining
// balance in one submission: the recorded amount is the remaining balance
// itself and the change is cashReceived minus remaining, reported on the
// tender but never added to its amount. Rejected without state change if
// cashReceived does not cover the remainder.
func (a *Allocator) ProposeCash(cashReceived int64) (models.Tender, error) {
	if a.finalized {
		return models.Tender{}, ErrAlreadyFinalized
	}
	remaining := a.Remaining()
	if remaining <= 0 {
		return models.Tender{}, ErrOverPayment
	}
	if cashReceived < remaining {
		return models.Tender{}, ErrInsufficientCash
	}

	tender := models.Tender{
		Type:   models.TenderCash,
		Amount: remaining,
		Change: cashReceived - remaining,
	}
	a.tenders = append(a.tenders, tender)
	return tender, nil
}

// Propose records a non-cash tender for an explicit amount and generates
// its external reference.
func (a *Allocator) Propose(tenderType models.TenderType, amount int64) (models.Tender, error) {
	if a.finalized {
		return models.Tender{}, ErrAlreadyFinalized
	}
	if tenderType == models.TenderCash {
		return a.ProposeCash(amount)
	}
	if amount <= 0 {
		return models.Tender{}, ErrInvalidAmount
	}
	remaining := a.Remaining()
	if amount > remaining {
		return models.Tender{}, ErrOverPayment
	}

	ref := newReference()
	tender := models.Tender{
		Type:      tenderType,
		Amount:    amount,
		Reference: &ref,
	}
	a.tenders = append(a.tenders, tender)
	return tender, nil
}

// Finalize closes the allocation and returns the immutable tender list
// plus total paid. The caller constructs the Transaction record from it.
// A second call fails with ErrAlreadyFinalized.
func (a *Allocator) Finalize() ([]models.Tender, int64, error) {
	if a.finalized {
		return nil, 0, ErrAlreadyFinalized
	}
	if a.Remaining() > 0 {
		return nil, 0, ErrNotSettled
	}
	a.finalized = true
	return a.Tenders(), a.Paid(), nil
}

func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("REF-%s", id[:12])
}
