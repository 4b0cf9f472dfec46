// Package store defines the repository boundary the rest of the
// application depends on. Two implementations exist: the in-memory Store
// used by default and in tests, and the gorm-backed store used when
// DB_DSN is configured. Lifecycle is owned by main, never by the core.
package store

import (
	"context"
	"errors"
	"time"

	"pos-api/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateSKU  = errors.New("sku already exists")
	ErrNotRefundable = errors.New("only completed transactions can be refunded")
	ErrSessionOpen   = errors.New("cash session still open")
	ErrNoSession     = errors.New("no open cash session")
)

// ProductFilter narrows product listings. Query matches name or SKU,
// case-insensitive.
type ProductFilter struct {
	Query    string
	Category string
	Page     int
	PageSize int
}

// TransactionFilter narrows transaction listings. Date selects a single
// calendar day; Since selects everything at or after the instant. All
// disables pagination, used by the reporting aggregations.
type TransactionFilter struct {
	Statuses []models.TransactionStatus
	Date     *time.Time
	Since    *time.Time
	Page     int
	PageSize int
	All      bool
}

func (f *ProductFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
}

func (f *TransactionFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
}

// Repository is the narrow boundary between the core and whatever holds
// the data. CommitTransaction and RefundTransaction are atomic: the
// transaction row and its stock delta land together or not at all.
type Repository interface {
	// Catalog
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
	LowStockProducts(ctx context.Context) ([]models.Product, error)

	// Users
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	// Transactions
	CommitTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	RefundTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// Cash sessions
	OpenCashSession(ctx context.Context, s *models.CashSession) error
	CurrentCashSession(ctx context.Context, userID uint) (*models.CashSession, error)
	CloseCashSession(ctx context.Context, s *models.CashSession) error
	// CashTotalsSince sums gross cash received and change handed back on
	// completed transactions since the given instant.
	CashTotalsSince(ctx context.Context, since time.Time) (cashIn int64, changeOut int64, err error)
}
