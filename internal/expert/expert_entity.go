package expert

import (
	"time"

	experterrors "go-salon/internal/expert/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MethodBeforeInputs commissions on the gross service price.
	MethodBeforeInputs = "BEFORE_INPUTS"
	// MethodAfterInputs commissions on the price net of input costs.
	MethodAfterInputs = "AFTER_INPUTS"
)

type Expert struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index:idx_expert_business"`

	FullName string `gorm:"type:varchar(120);not null"`
	Alias    string `gorm:"type:varchar(60)"`
	Phone    string `gorm:"type:varchar(30)"`
	Active   bool   `gorm:"not null;default:true;index:idx_expert_business"`

	Policy CommissionPolicy `gorm:"embedded;embeddedPrefix:policy_"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedBy uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// CommissionPolicy holds the per-expert rate configuration. Rates are in
// basis points (0..10000 == 0%..100%), money in minor units, so the
// commission math never touches floating point.
type CommissionPolicy struct {
	ServiceRateBP        int64  `gorm:"type:bigint;not null;default:0"`
	RetailRateBP         int64  `gorm:"type:bigint;not null;default:0"`
	CalculationMethod    string `gorm:"type:varchar(20);not null;default:'BEFORE_INPUTS'"`
	MinServiceCommission int64  `gorm:"type:bigint;not null;default:0"`
	MaxServiceCommission *int64 `gorm:"type:bigint"` // nil = no cap
}

// Validate enforces the policy invariants: rates within [0,10000]bp,
// clamps non-negative, max >= min when a cap is set.
func (p CommissionPolicy) Validate() error {
	if p.ServiceRateBP < 0 || p.ServiceRateBP > 10000 {
		return experterrors.ErrInvalidPolicy
	}
	if p.RetailRateBP < 0 || p.RetailRateBP > 10000 {
		return experterrors.ErrInvalidPolicy
	}
	if p.CalculationMethod != MethodBeforeInputs && p.CalculationMethod != MethodAfterInputs {
		return experterrors.ErrInvalidPolicy
	}
	if p.MinServiceCommission < 0 {
		return experterrors.ErrInvalidPolicy
	}
	if p.MaxServiceCommission != nil {
		if *p.MaxServiceCommission < 0 || *p.MaxServiceCommission < p.MinServiceCommission {
			return experterrors.ErrInvalidPolicy
		}
	}
	return nil
}
