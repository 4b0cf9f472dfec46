package models

import "time"

type TransactionStatus string

const (
	StatusCompleted     TransactionStatus = "completed"
	StatusRefunded      TransactionStatus = "refunded"
	StatusPartialRefund TransactionStatus = "partial-refund"
)

type TenderType string

const (
	TenderCash          TenderType = "cash"
	TenderCard          TenderType = "card"
	TenderDigitalWallet TenderType = "digital_wallet"
	TenderQRIS          TenderType = "qris"
)

// Valid reports whether t is one of the accepted tender types.
func (t TenderType) Valid() bool {
	switch t {
	case TenderCash, TenderCard, TenderDigitalWallet, TenderQRIS:
		return true
	}
	return false
}

// Tender is a single payment submission, immutable once recorded. For cash
// the Amount is always the remaining balance at submission time; Change is
// informational and never part of the Amount.
type Tender struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TransactionID string     `gorm:"size:36;index" json:"-"`
	Type          TenderType `gorm:"type:enum('cash','card','digital_wallet','qris');not null" json:"type"`
	Amount        int64      `gorm:"not null" json:"amount"`
	Reference     *string    `gorm:"size:64" json:"reference,omitempty"`
	Change        int64      `json:"change,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TransactionItem is the persisted snapshot of a cart line. Name, SKU and
// Price are copied from the product at commit time so later catalog edits
// never rewrite history.
type TransactionItem struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	TransactionID string       `gorm:"size:36;index" json:"-"`
	ProductID     uint         `gorm:"not null" json:"product_id"`
	SKU           string       `json:"sku"`
	Name          string       `json:"name"`
	Price         int64        `gorm:"not null" json:"price"`
	Cost          int64        `json:"cost,omitempty"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	Discount      int64        `json:"discount,omitempty"`
	DiscountType  DiscountType `json:"discount_type,omitempty"`
	Subtotal      int64        `gorm:"not null" json:"subtotal"`
}

// Transaction is a finalized sale. Created atomically when payment
// allocation reaches zero remaining; never mutated afterwards except the
// status transition on refund.
type Transaction struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	ReceiptNumber string            `gorm:"uniqueIndex;size:16" json:"receipt_number"`
	CashierID     uint              `json:"cashier_id"`
	CashierName   string            `json:"cashier_name"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
	Payments      []Tender          `gorm:"foreignKey:TransactionID" json:"payments"`
	Subtotal      int64             `gorm:"not null" json:"subtotal"`
	Tax           int64             `gorm:"not null" json:"tax"`
	Discount      int64             `gorm:"not null;default:0" json:"discount"`
	Total         int64             `gorm:"not null" json:"total"`
	Status        TransactionStatus `gorm:"type:enum('completed','refunded','partial-refund');default:'completed'" json:"status"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TotalPaid sums the recorded tender amounts.
func (t Transaction) TotalPaid() int64 {
	var paid int64
	for _, p := range t.Payments {
		paid += p.Amount
	}
	return paid
}
