package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"pos-api/models"
)

// Gorm is the MySQL-backed Repository, used when DB_DSN is set. The core
// never sees gorm types; everything goes through the Repository interface.
type Gorm struct {
	db *gorm.DB
}

var _ Repository = (*Gorm)(nil)

// Open connects to MySQL and migrates the schema.
func Open(dsn string) (*Gorm, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.Tender{},
		&models.CashSession{},
	)
	if err != nil {
		return nil, err
	}

	return &Gorm{db: db}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *Gorm) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	filter.normalize()

	query := g.db.WithContext(ctx).Model(&models.Product{})
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Order("id").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (g *Gorm) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := g.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (g *Gorm) CreateProduct(ctx context.Context, p *models.Product) error {
	var existing models.Product
	if err := g.db.WithContext(ctx).Where("sku = ?", p.SKU).First(&existing).Error; err == nil {
		return ErrDuplicateSKU
	}
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *Gorm) UpdateProduct(ctx context.Context, p *models.Product) error {
	var existing models.Product
	if err := g.db.WithContext(ctx).First(&existing, p.ID).Error; err != nil {
		return notFound(err)
	}
	return g.db.WithContext(ctx).Save(p).Error
}

func (g *Gorm) DeleteProduct(ctx context.Context, id uint) error {
	result := g.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := g.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (g *Gorm) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := g.db.WithContext(ctx).
		Where("stock <= IF(min_stock > 0, min_stock, ?)", models.DefaultMinStock).
		Order("stock").
		Find(&products).Error
	return products, err
}

func (g *Gorm) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return g.db.WithContext(ctx).Create(u).Error
}

func (g *Gorm) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := g.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (g *Gorm) CommitTransaction(ctx context.Context, tx *models.Transaction) error {
	return g.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		for _, item := range tx.Items {
			var p models.Product
			if err := dbtx.First(&p, item.ProductID).Error; err != nil {
				return notFound(err)
			}
			p.Stock -= item.Quantity
			if err := dbtx.Save(&p).Error; err != nil {
				return err
			}
		}
		return dbtx.Create(tx).Error
	})
}

func (g *Gorm) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := g.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&tx, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &tx, nil
}

func (g *Gorm) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	filter.normalize()

	query := g.db.WithContext(ctx).Model(&models.Transaction{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Date != nil {
		start := filter.Date.Truncate(24 * time.Hour)
		query = query.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.
		Preload("Items").
		Preload("Payments").
		Order("created_at DESC")
	if !filter.All {
		query = query.
			Offset((filter.Page - 1) * filter.PageSize).
			Limit(filter.PageSize)
	}

	var transactions []models.Transaction
	err := query.Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (g *Gorm) RefundTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := g.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Preload("Items").Preload("Payments").First(&tx, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if tx.Status != models.StatusCompleted {
			return ErrNotRefundable
		}
		for _, item := range tx.Items {
			var p models.Product
			if err := dbtx.First(&p, item.ProductID).Error; err == nil {
				p.Stock += item.Quantity
				if err := dbtx.Save(&p).Error; err != nil {
					return err
				}
			}
		}
		tx.Status = models.StatusRefunded
		return dbtx.Save(&tx).Error
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (g *Gorm) OpenCashSession(ctx context.Context, s *models.CashSession) error {
	var existing models.CashSession
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND status = 'open'", s.UserID).
		First(&existing).Error
	if err == nil {
		return ErrSessionOpen
	}

	s.Status = "open"
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *Gorm) CurrentCashSession(ctx context.Context, userID uint) (*models.CashSession, error) {
	var s models.CashSession
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND status = 'open'", userID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &s, nil
}

func (g *Gorm) CloseCashSession(ctx context.Context, s *models.CashSession) error {
	return g.db.WithContext(ctx).Save(s).Error
}

func (g *Gorm) CashTotalsSince(ctx context.Context, since time.Time) (int64, int64, error) {
	var result struct {
		CashIn    int64
		ChangeOut int64
	}
	err := g.db.WithContext(ctx).Model(&models.Tender{}).
		Select("COALESCE(SUM(tenders.amount + tenders.change), 0) AS cash_in, COALESCE(SUM(tenders.change), 0) AS change_out").
		Joins("JOIN transactions ON transactions.id = tenders.transaction_id").
		Where("tenders.type = ? AND transactions.status = ? AND transactions.created_at >= ?",
			models.TenderCash, models.StatusCompleted, since).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.CashIn, result.ChangeOut, nil
}
