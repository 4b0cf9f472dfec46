package sale

import (
	"context"
	"sync"
	"time"

	"pos-api/models"
	"pos-api/store"
)

// Manager holds the single active sale per till (keyed by cashier) and
// serializes every sale operation. Each till is independent; one mutex
// keeps commit atomic relative to stock decrement so a sale can never
// sell the same stock twice.
type Manager struct {
	mu       sync.Mutex
	repo     store.Repository
	sessions map[uint]*Session
}

func NewManager(repo store.Repository) *Manager {
	return &Manager{
		repo:     repo,
		sessions: make(map[uint]*Session),
	}
}

// session returns the active session for the cashier, creating a fresh
// Building session on first use. Caller must hold the mutex.
func (m *Manager) session(cashier models.User) *Session {
	s, ok := m.sessions[cashier.ID]
	if !ok {
		s = NewSession(cashier)
		m.sessions[cashier.ID] = s
	}
	return s
}

func (m *Manager) Summary(cashier models.User) Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(cashier).Summary()
}

// AddLine looks the product up in the catalog so the cart always clamps
// against current stock.
func (m *Manager) AddLine(ctx context.Context, cashier models.User, productID uint) (Summary, error) {
	product, err := m.repo.GetProduct(ctx, productID)
	if err != nil {
		return Summary{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.AddLine(*product); err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

// UpdateLine sets quantity and, when provided, the per-line discount.
func (m *Manager) UpdateLine(cashier models.User, productID uint, quantity int, discount *int64, discountType models.DiscountType) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.SetQuantity(productID, quantity); err != nil {
		return Summary{}, err
	}
	if discount != nil {
		if err := s.SetDiscount(productID, *discount, discountType); err != nil {
			return Summary{}, err
		}
	}
	return s.Summary(), nil
}

func (m *Manager) RemoveLine(cashier models.User, productID uint) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.RemoveLine(productID); err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

func (m *Manager) ClearCart(cashier models.User) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.ClearCart(); err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

func (m *Manager) StartPayment(cashier models.User) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.StartPayment(); err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

func (m *Manager) CancelPayment(cashier models.User) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	if err := s.CancelPayment(); err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

func (m *Manager) Tender(cashier models.User, tenderType models.TenderType, amount, cashReceived int64) (models.Tender, Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	tender, err := s.Tender(tenderType, amount, cashReceived)
	if err != nil {
		return models.Tender{}, Summary{}, err
	}
	return tender, s.Summary(), nil
}

// Commit finalizes the settled sale, persists the transaction together
// with its stock decrement, and replaces the session with a fresh
// Building one. The stock delta applies exactly once per committed
// transaction. The session transitions to Committed only once the store
// accepted the transaction; a failed persist leaves it Settled so the
// till can retry or cancel.
func (m *Manager) Commit(ctx context.Context, cashier models.User) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(cashier)
	tx, err := s.Finalize(time.Now())
	if err != nil {
		return nil, err
	}

	if err := m.repo.CommitTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.markCommitted()
	delete(m.sessions, cashier.ID)
	return tx, nil
}
