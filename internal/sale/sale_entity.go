package sale

import (
	"time"

	"github.com/google/uuid"
)

const (
	LineKindService = "SERVICE"
	LineKindRetail  = "RETAIL"
)

// Sale is the thin capture feeding commission ingestion: the lines and
// their gross amounts. Stock and inventory live elsewhere.
type Sale struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	SoldBy     uuid.UUID `gorm:"type:uuid;not null"`
	Total      int64     `gorm:"type:bigint;not null;default:0"`
	Notes      *string   `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []SaleLine `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string {
	return "sales"
}

type SaleLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpertID   uuid.UUID `gorm:"type:uuid;not null"`

	Kind        string `gorm:"type:varchar(20);not null"`
	Description string `gorm:"type:varchar(255)"`
	BaseAmount  int64  `gorm:"type:bigint;not null;default:0"`
	InputCosts  int64  `gorm:"type:bigint;not null;default:0"`

	// Itemized materials behind InputCosts, kept for auditing only.
	InputItems []InputItem `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time
}

func (SaleLine) TableName() string {
	return "sale_lines"
}

type InputItem struct {
	Name string `json:"name"`
	Cost int64  `json:"cost"`
}
