package settlement

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen      = "OPEN"
	StatusClosed    = "CLOSED"
	StatusApproved  = "APPROVED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"

	PeriodWeekly    = "WEEKLY"
	PeriodBiweekly  = "BIWEEKLY"
	PeriodMonthly   = "MONTHLY"
	PeriodQuarterly = "QUARTERLY"

	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCheck    = "CHECK"
)

// SettlementPeriod is a settlement window over commission records.
// Its entries are a snapshot taken at close/recalculate time, not a
// live view, and the summary columns are always recomputed from the
// entries. Version backs the compare-and-swap on status so two
// concurrent close calls cannot both win.
type SettlementPeriod struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_period_business_year_number"`
	Year         int       `gorm:"not null;uniqueIndex:uq_period_business_year_number"`
	PeriodNumber int       `gorm:"not null;uniqueIndex:uq_period_business_year_number"`
	PeriodType   string    `gorm:"type:varchar(20);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	PayDate   time.Time `gorm:"type:date;not null"`

	Status string `gorm:"type:varchar(20);not null;default:'OPEN';index"`

	// Derived summary, recomputed from Entries after every mutation.
	TotalExperts     int   `gorm:"not null;default:0"`
	TotalCommissions int64 `gorm:"type:bigint;not null;default:0"`
	TotalCount       int   `gorm:"not null;default:0"`
	PendingAmount    int64 `gorm:"type:bigint;not null;default:0"`
	ApprovedAmount   int64 `gorm:"type:bigint;not null;default:0"`
	PaidAmount       int64 `gorm:"type:bigint;not null;default:0"`
	CancelledAmount  int64 `gorm:"type:bigint;not null;default:0"`

	ProcessedAt        *time.Time
	ProcessedBy        *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	PaidAt             *time.Time
	PaidBy             *uuid.UUID `gorm:"type:uuid"`
	PaymentMethod      *string    `gorm:"type:varchar(30)"`
	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancellationReason *string    `gorm:"type:text"`
	Notes              *string    `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	Version   int64     `gorm:"type:bigint;not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Entries []ExpertPeriodEntry `gorm:"foreignKey:PeriodID"`
}

func (SettlementPeriod) TableName() string {
	return "settlement_periods"
}

// ExpertPeriodEntry is one expert's rollup inside a period snapshot.
// CommissionIDs is the exact set of records that contributed, so the
// approve and pay cascades operate on ids, never on re-queried windows.
type ExpertPeriodEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`

	ExpertID    uuid.UUID `gorm:"type:uuid;not null"`
	ExpertName  string    `gorm:"type:varchar(255);not null"`
	ExpertAlias string    `gorm:"type:varchar(100)"`

	TotalCommissions       int64 `gorm:"type:bigint;not null;default:0"`
	CommissionCount        int   `gorm:"not null;default:0"`
	ServiceCommissions     int64 `gorm:"type:bigint;not null;default:0"`
	RetailCommissions      int64 `gorm:"type:bigint;not null;default:0"`
	ExceptionalCommissions int64 `gorm:"type:bigint;not null;default:0"`

	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod *string    `gorm:"type:varchar(30)"`
	PaymentDate   *time.Time

	CommissionIDs []string `gorm:"serializer:json;type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ExpertPeriodEntry) TableName() string {
	return "expert_period_entries"
}

const (
	EntryStatusPending   = "PENDING"
	EntryStatusApproved  = "APPROVED"
	EntryStatusPaid      = "PAID"
	EntryStatusCancelled = "CANCELLED"
)

// isAllowedStatusTransition encodes the period state machine:
// OPEN -> CLOSED -> APPROVED -> PAID, and any non-PAID state may be
// CANCELLED. PAID and CANCELLED are terminal.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusOpen:
		return targetStatus == StatusClosed || targetStatus == StatusCancelled
	case StatusClosed:
		return targetStatus == StatusApproved || targetStatus == StatusCancelled
	case StatusApproved:
		return targetStatus == StatusPaid || targetStatus == StatusCancelled
	default:
		return false
	}
}

func isValidPeriodType(periodType string) bool {
	switch periodType {
	case PeriodWeekly, PeriodBiweekly, PeriodMonthly, PeriodQuarterly:
		return true
	default:
		return false
	}
}
