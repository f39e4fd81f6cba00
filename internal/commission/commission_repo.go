package commission

import (
	"context"
	"database/sql"
	"time"

	"go-salon/internal/tenant"

	"gorm.io/gorm"
)

// RecordQuery is the parsed form of CommissionQueryFilter handed to the
// repository; the service validates and parses before it gets here.
type RecordQuery struct {
	ExpertID    string
	SaleID      string
	Status      string
	Type        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *CommissionRecord) error
	FindAllByBusiness(ctx context.Context, businessID string, q RecordQuery) ([]CommissionRecord, error)
	FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*CommissionRecord, error)
	FindBySale(ctx context.Context, businessID string, saleID string) ([]CommissionRecord, error)
	FindInWindow(ctx context.Context, businessID string, start, end time.Time, statuses []string) ([]CommissionRecord, error)
	// UpdateGuarded writes the record only if the stored version still
	// matches rec.Version, bumping it. Returns rows affected; zero
	// means a concurrent writer won.
	UpdateGuarded(ctx context.Context, rec *CommissionRecord) (int64, error)
	// TransitionStatus is the cascade primitive: a status-guarded bulk
	// update over explicit ids. Guarding on the source statuses makes
	// re-application idempotent.
	TransitionStatus(ctx context.Context, businessID string, ids []string, fromStatuses []string, set map[string]any) (int64, error)
	// FindByIDs loads explicit records for cascade verification.
	FindByIDs(ctx context.Context, businessID string, ids []string) ([]CommissionRecord, error)
	DeleteBySale(ctx context.Context, businessID string, saleID string) error
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

// session binds the statement to the enclosing sql.Tx when one is set,
// so ingestion and cascades commit or roll back with the service
// transaction that started them.
func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, rec *CommissionRecord) error {
	return r.session(ctx).Create(rec).Error
}

func (r *repository) FindAllByBusiness(ctx context.Context, businessID string, q RecordQuery) ([]CommissionRecord, error) {
	db := r.session(ctx).
		Scopes(tenant.Scope(businessID))

	if q.ExpertID != "" {
		db = db.Where("expert_id = ?", q.ExpertID)
	}
	if q.SaleID != "" {
		db = db.Where("sale_id = ?", q.SaleID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *q.CreatedFrom)
	}
	if q.CreatedTo != nil {
		db = db.Where("created_at <= ?", *q.CreatedTo)
	}

	var records []CommissionRecord
	err := db.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *repository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*CommissionRecord, error) {
	var rec CommissionRecord
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindBySale(ctx context.Context, businessID string, saleID string) ([]CommissionRecord, error) {
	var records []CommissionRecord
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindInWindow(ctx context.Context, businessID string, start, end time.Time, statuses []string) ([]CommissionRecord, error) {
	db := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Where("created_at >= ? AND created_at <= ?", start, end)

	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}

	var records []CommissionRecord
	err := db.Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *repository) UpdateGuarded(ctx context.Context, rec *CommissionRecord) (int64, error) {
	res := r.session(ctx).
		Model(&CommissionRecord{}).
		Where("id = ? AND business_id = ? AND version = ?", rec.ID, rec.BusinessID, rec.Version).
		Updates(map[string]any{
			"type":                    rec.Type,
			"base_amount":             rec.BaseAmount,
			"input_costs":             rec.InputCosts,
			"net_amount":              rec.NetAmount,
			"base_rate_bp":            rec.BaseRateBP,
			"applied_rate_bp":         rec.AppliedRateBP,
			"commission_amount":       rec.CommissionAmount,
			"status":                  rec.Status,
			"event_reason":            rec.EventReason,
			"event_adjustment_type":   rec.EventAdjustmentType,
			"event_adjustment_amount": rec.EventAdjustmentAmount,
			"event_adjustment_bp":     rec.EventAdjustmentBP,
			"event_approved_by":       rec.EventApprovedBy,
			"event_approved_at":       rec.EventApprovedAt,
			"event_notes":             rec.EventNotes,
			"payment_method":          rec.PaymentMethod,
			"payment_at":              rec.PaymentAt,
			"payment_notes":           rec.PaymentNotes,
			"notes":                   rec.Notes,
			"updated_by":              rec.UpdatedBy,
			"version":                 rec.Version + 1,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		rec.Version++
	}
	return res.RowsAffected, nil
}

func (r *repository) TransitionStatus(
	ctx context.Context,
	businessID string,
	ids []string,
	fromStatuses []string,
	set map[string]any,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	values := map[string]any{"version": gorm.Expr("version + 1")}
	for k, v := range set {
		values[k] = v
	}

	res := r.session(ctx).
		Model(&CommissionRecord{}).
		Scopes(tenant.Scope(businessID)).
		Where("id IN ?", ids).
		Where("status IN ?", fromStatuses).
		Updates(values)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByIDs(ctx context.Context, businessID string, ids []string) ([]CommissionRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []CommissionRecord
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Where("id IN ?", ids).
		Find(&records).Error
	return records, err
}

func (r *repository) DeleteBySale(ctx context.Context, businessID string, saleID string) error {
	return r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Where("sale_id = ?", saleID).
		Delete(&CommissionRecord{}).Error
}
