package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pos-api/models"
)

// Memory is the default Repository: mutex-guarded maps standing in for a
// database, seeded with sample data at boot. Nothing survives a restart.
type Memory struct {
	mu sync.RWMutex

	products      map[uint]models.Product
	productOrder  []uint
	nextProductID uint

	users      map[uint]models.User
	nextUserID uint

	transactions []models.Transaction

	sessions      map[uint]models.CashSession
	nextSessionID uint
}

func NewMemory() *Memory {
	return &Memory{
		products:      make(map[uint]models.Product),
		nextProductID: 1,
		users:         make(map[uint]models.User),
		nextUserID:    1,
		sessions:      make(map[uint]models.CashSession),
		nextSessionID: 1,
	}
}

var _ Repository = (*Memory)(nil)

func matchesQuery(p models.Product, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q)
}

func (m *Memory) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	filter.normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Product
	for _, id := range m.productOrder {
		p, ok := m.products[id]
		if !ok {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if !matchesQuery(p, filter.Query) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *Memory) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return ErrDuplicateSKU
		}
	}

	p.ID = m.nextProductID
	m.nextProductID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	m.products[p.ID] = *p
	m.productOrder = append(m.productOrder, p.ID)
	return nil
}

func (m *Memory) UpdateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range m.products {
		if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return ErrDuplicateSKU
		}
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for i, pid := range m.productOrder {
		if pid == id {
			m.productOrder = append(m.productOrder[:i], m.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Categories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, id := range m.productOrder {
		p := m.products[id]
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *Memory) LowStockProducts(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var low []models.Product
	for _, id := range m.productOrder {
		if p := m.products[id]; p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// CommitTransaction stores the transaction and applies the stock delta in
// one critical section, so a sale can never decrement stock twice or land
// without its decrement.
func (m *Memory) CommitTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range tx.Items {
		p, ok := m.products[item.ProductID]
		if !ok {
			return ErrNotFound
		}
		p.Stock -= item.Quantity
		p.UpdatedAt = time.Now()
		m.products[item.ProductID] = p
	}

	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.transactions {
		if m.transactions[i].ID == id {
			tx := m.transactions[i]
			return &tx, nil
		}
	}
	return nil, ErrNotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m *Memory) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	filter.normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Transaction
	for _, tx := range m.transactions {
		if len(filter.Statuses) > 0 {
			ok := false
			for _, s := range filter.Statuses {
				if tx.Status == s {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if filter.Date != nil && !sameDay(tx.CreatedAt, *filter.Date) {
			continue
		}
		if filter.Since != nil && tx.CreatedAt.Before(*filter.Since) {
			continue
		}
		matched = append(matched, tx)
	}

	// newest first
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.All {
		return matched, total, nil
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return []models.Transaction{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// RefundTransaction flips completed to refunded and restores stock for
// every item. The recorded tenders stay untouched: the snapshot is the
// immutable record of what was paid.
func (m *Memory) RefundTransaction(_ context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.transactions {
		if m.transactions[i].ID != id {
			continue
		}
		if m.transactions[i].Status != models.StatusCompleted {
			return nil, ErrNotRefundable
		}
		for _, item := range m.transactions[i].Items {
			if p, ok := m.products[item.ProductID]; ok {
				p.Stock += item.Quantity
				m.products[item.ProductID] = p
			}
		}
		m.transactions[i].Status = models.StatusRefunded
		m.transactions[i].UpdatedAt = time.Now()
		tx := m.transactions[i]
		return &tx, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) OpenCashSession(_ context.Context, s *models.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.sessions {
		if existing.UserID == s.UserID && existing.Status == "open" {
			return ErrSessionOpen
		}
	}

	s.ID = m.nextSessionID
	m.nextSessionID++
	s.Status = "open"
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) CurrentCashSession(_ context.Context, userID uint) (*models.CashSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == "open" {
			session := s
			return &session, nil
		}
	}
	return nil, ErrNoSession
}

func (m *Memory) CloseCashSession(_ context.Context, s *models.CashSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) CashTotalsSince(_ context.Context, since time.Time) (int64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cashIn, changeOut int64
	for _, tx := range m.transactions {
		if tx.Status != models.StatusCompleted || tx.CreatedAt.Before(since) {
			continue
		}
		for _, tender := range tx.Payments {
			if tender.Type == models.TenderCash {
				// gross cash into the drawer, before change went back out
				cashIn += tender.Amount + tender.Change
				changeOut += tender.Change
			}
		}
	}
	return cashIn, changeOut, nil
}
