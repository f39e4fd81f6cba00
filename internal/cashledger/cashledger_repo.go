package cashledger

import (
	"context"
	"database/sql"
	"time"

	"go-salon/internal/tenant"

	"gorm.io/gorm"
)

type MovementQuery struct {
	Type string
	From *time.Time
	To   *time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *CashMovement) error
	FindAllByBusiness(ctx context.Context, businessID string, q MovementQuery) ([]CashMovement, error)
	// Balance is credits minus debits over the whole ledger.
	Balance(ctx context.Context, businessID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, m *CashMovement) error {
	if r.tx != nil {
		return r.createInTx(ctx, m)
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// createInTx writes through the caller's sql.Tx so a settlement payout
// and its cash debit commit or roll back together.
func (r *repository) createInTx(ctx context.Context, m *CashMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO cash_movements (id, business_id, type, amount, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.BusinessID, m.Type, m.Amount, m.Reference, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	return err
}

func (r *repository) FindAllByBusiness(ctx context.Context, businessID string, q MovementQuery) ([]CashMovement, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(businessID))

	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at <= ?", *q.To)
	}

	var movements []CashMovement
	err := db.Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *repository) Balance(ctx context.Context, businessID string) (int64, error) {
	var balance sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&CashMovement{}).
		Scopes(tenant.Scope(businessID)).
		Select("COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)").
		Scan(&balance).Error
	return balance.Int64, err
}
