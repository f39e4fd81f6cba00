package commission

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeService     = "SERVICE"
	TypeRetail      = "RETAIL"
	TypeExceptional = "EXCEPTIONAL"

	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"

	AdjustmentIncrease = "INCREASE"
	AdjustmentDecrease = "DECREASE"
)

// CommissionRecord is one commission owed to one expert for one sale
// line. Amounts are minor units, rates basis points. Version backs
// optimistic locking: every lifecycle transition is guarded on it so two
// racing transitions can never both apply.
type CommissionRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index:idx_commission_business_created"`
	ExpertID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleLineID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_commission_sale_line"`

	Type string `gorm:"type:varchar(20);not null"`

	BaseAmount       int64 `gorm:"type:bigint;not null;default:0"`
	InputCosts       int64 `gorm:"type:bigint;not null;default:0"`
	NetAmount        int64 `gorm:"type:bigint;not null;default:0"`
	BaseRateBP       int64 `gorm:"type:bigint;not null;default:0"`
	AppliedRateBP    int64 `gorm:"type:bigint;not null;default:0"`
	CommissionAmount int64 `gorm:"type:bigint;not null;default:0"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_commission_business_created"`

	// Exceptional event, set at most once, pre-approved by construction.
	EventReason           *string    `gorm:"type:text"`
	EventAdjustmentType   *string    `gorm:"type:varchar(20)"`
	EventAdjustmentAmount *int64     `gorm:"type:bigint"`
	EventAdjustmentBP     *int64     `gorm:"type:bigint"`
	EventApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	EventApprovedAt       *time.Time
	EventNotes            *string `gorm:"type:text"`

	PaymentMethod *string `gorm:"type:varchar(30)"`
	PaymentAt     *time.Time
	PaymentNotes  *string `gorm:"type:text"`
	Notes         *string `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedBy uuid.UUID `gorm:"type:uuid"`
	Version   int64     `gorm:"type:bigint;not null;default:1"`

	CreatedAt time.Time `gorm:"index:idx_commission_business_created"`
	UpdatedAt time.Time
}

// isAllowedStatusTransition encodes the record state machine:
// PENDING -> APPROVED -> PAID, PENDING|APPROVED -> CANCELLED.
// PAID and CANCELLED are terminal.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusApproved || targetStatus == StatusCancelled
	case StatusApproved:
		return targetStatus == StatusPaid || targetStatus == StatusCancelled
	default:
		return false
	}
}
