package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a user's platform balance. One row per user, created at
// onboarding and never deleted. Balance changes only through the ledger
// service inside a locked database transaction and never goes negative.
type Wallet struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate ensures every wallet starts empty regardless of input.
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	w.Balance = decimal.Zero
	return nil
}

// CanCover reports whether the balance covers amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
