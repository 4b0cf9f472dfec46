// Package sale owns the per-till sale lifecycle: a cart being built, a
// payment being collected against a frozen total, and the committed
// transaction that results.
package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pos-api/cart"
	"pos-api/models"
	"pos-api/payment"
)

// State is the explicit sale state, independent of any rendering concern.
type State string

const (
	StateBuilding        State = "building"
	StateAwaitingPayment State = "awaiting_payment"
	StateSettled         State = "settled"
	StateCommitted       State = "committed"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrWrongState = errors.New("operation not allowed in current sale state")
)

// Session is one sale at one till. Not safe for concurrent use on its
// own; the Manager serializes access per till.
type Session struct {
	cashier models.User
	cart    *cart.Cart
	alloc   *payment.Allocator
	state   State
}

func NewSession(cashier models.User) *Session {
	return &Session{
		cashier: cashier,
		cart:    cart.New(),
		state:   StateBuilding,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Lines() []models.CartItem {
	return s.cart.Lines()
}

// building guards cart mutations: the cart is frozen once payment starts.
func (s *Session) building() error {
	if s.state != StateBuilding {
		return ErrWrongState
	}
	return nil
}

func (s *Session) AddLine(p models.Product) error {
	if err := s.building(); err != nil {
		return err
	}
	s.cart.AddLine(p)
	return nil
}

func (s *Session) SetQuantity(productID uint, quantity int) error {
	if err := s.building(); err != nil {
		return err
	}
	s.cart.SetQuantity(productID, quantity)
	return nil
}

func (s *Session) SetDiscount(productID uint, discount int64, discountType models.DiscountType) error {
	if err := s.building(); err != nil {
		return err
	}
	s.cart.SetDiscount(productID, discount, discountType)
	return nil
}

func (s *Session) RemoveLine(productID uint) error {
	if err := s.building(); err != nil {
		return err
	}
	s.cart.RemoveLine(productID)
	return nil
}

func (s *Session) ClearCart() error {
	if err := s.building(); err != nil {
		return err
	}
	s.cart.Clear()
	return nil
}

// StartPayment freezes the cart total and opens the payment allocator.
func (s *Session) StartPayment() error {
	if s.state != StateBuilding {
		return ErrWrongState
	}
	if s.cart.Empty() {
		return ErrEmptyCart
	}
	s.alloc = payment.NewAllocator(s.cart.Total())
	s.state = StateAwaitingPayment
	return nil
}

// CancelPayment abandons payment and returns to Building with the cart
// and quantities unchanged. Allowed any time before commit.
func (s *Session) CancelPayment() error {
	if s.state != StateAwaitingPayment && s.state != StateSettled {
		return ErrWrongState
	}
	s.alloc = nil
	s.state = StateBuilding
	return nil
}

// Tender submits one payment toward the frozen total. cashReceived is
// only meaningful for cash; amount only for the other types.
func (s *Session) Tender(tenderType models.TenderType, amount, cashReceived int64) (models.Tender, error) {
	if s.state != StateAwaitingPayment && s.state != StateSettled {
		return models.Tender{}, ErrWrongState
	}

	var (
		tender models.Tender
		err    error
	)
	if tenderType == models.TenderCash {
		tender, err = s.alloc.ProposeCash(cashReceived)
	} else {
		tender, err = s.alloc.Propose(tenderType, amount)
	}
	if err != nil {
		return models.Tender{}, err
	}

	if s.alloc.Settled() {
		s.state = StateSettled
	}
	return tender, nil
}

// Finalize builds the immutable Transaction record from the settled
// allocation. State does not change here: the caller persists the record
// and seals the session via markCommitted only once the store accepted
// it, so a failed persist leaves the sale Settled and recoverable.
func (s *Session) Finalize(now time.Time) (*models.Transaction, error) {
	if s.state == StateCommitted {
		return nil, payment.ErrAlreadyFinalized
	}
	if s.state != StateSettled {
		return nil, payment.ErrNotSettled
	}

	tenders := s.alloc.Tenders()
	paid := s.alloc.Paid()

	lines := s.cart.Lines()
	items := make([]models.TransactionItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.TransactionItem{
			ProductID:    line.Product.ID,
			SKU:          line.Product.SKU,
			Name:         line.Product.Name,
			Price:        line.Product.Price,
			Cost:         line.Product.Cost,
			Quantity:     line.Quantity,
			Discount:     line.Discount,
			DiscountType: line.DiscountType,
			Subtotal:     cart.LineTotal(line),
		})
	}

	subtotal := s.cart.Subtotal()
	tax := cart.Tax(subtotal)
	id := uuid.NewString()

	tx := &models.Transaction{
		ID:            id,
		ReceiptNumber: receiptNumber(now, id),
		CashierID:     s.cashier.ID,
		CashierName:   s.cashier.Name,
		Items:         items,
		Payments:      tenders,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      0,
		Total:         subtotal + tax,
		Status:        models.StatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range tx.Payments {
		tx.Payments[i].TransactionID = id
	}

	if tx.Total != paid {
		// cash settles at exactly the remainder, so this cannot happen
		// unless the allocator total diverged from the cart total
		return nil, fmt.Errorf("paid %d does not match total %d", paid, tx.Total)
	}

	return tx, nil
}

// markCommitted seals the session after its transaction has been
// persisted. No transition leads out of Committed.
func (s *Session) markCommitted() {
	s.alloc.Finalize()
	s.state = StateCommitted
}

// Summary is the till-facing view of the sale, including payment progress
// once a payment session is open.
type Summary struct {
	State     State             `json:"state"`
	Lines     []models.CartItem `json:"lines"`
	Subtotal  int64             `json:"subtotal"`
	Tax       int64             `json:"tax"`
	Total     int64             `json:"total"`
	Paid      int64             `json:"paid,omitempty"`
	Remaining int64             `json:"remaining,omitempty"`
	Tenders   []models.Tender   `json:"tenders,omitempty"`
}

func (s *Session) Summary() Summary {
	subtotal := s.cart.Subtotal()
	summary := Summary{
		State:    s.state,
		Lines:    s.cart.Lines(),
		Subtotal: subtotal,
		Tax:      cart.Tax(subtotal),
	}
	summary.Total = summary.Subtotal + summary.Tax

	if s.alloc != nil {
		// payment runs against the frozen total, not a live recompute
		summary.Total = s.alloc.Total()
		summary.Paid = s.alloc.Paid()
		summary.Remaining = s.alloc.Remaining()
		summary.Tenders = s.alloc.Tenders()
	}
	return summary
}

// receiptNumber builds the printed receipt id from the commit date plus a
// fragment of the transaction uuid, so uniqueness follows from the id
// rather than the clock.
func receiptNumber(now time.Time, id string) string {
	frag := strings.ToUpper(strings.ReplaceAll(id, "-", ""))[:6]
	return fmt.Sprintf("R%s-%s", now.Format("060102"), frag)
}
