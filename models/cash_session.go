package models

import "time"

// CashSession tracks the physical cash drawer for one cashier between
// open and close. ExpectedCash = opening cash + cash tendered - change
// handed out during the session.
type CashSession struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	OpeningCash  int64      `gorm:"not null" json:"opening_cash"`
	ClosingCash  *int64     `json:"closing_cash,omitempty"`
	TotalCashIn  int64      `json:"total_cash_in"`
	TotalChange  int64      `json:"total_change"`
	ExpectedCash int64      `json:"expected_cash"`
	Difference   *int64     `json:"difference,omitempty"`
	Status       string     `gorm:"type:enum('open','closed');default:'open'" json:"status"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}
