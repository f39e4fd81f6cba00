package cashledger

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovementCredit = "CREDIT"
	MovementDebit  = "DEBIT"
)

// CashMovement is one signed entry in the business cash ledger. Sales
// post credits; settlement payouts in cash post debits in the same
// transaction that marks the period paid.
type CashMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(16);not null"`
	Amount     int64     `gorm:"not null"`
	Reference  string    `gorm:"type:varchar(255);not null"`
	Notes      *string   `gorm:"type:text"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}

func (CashMovement) TableName() string {
	return "cash_movements"
}
