package settlement

import (
	"context"
	"database/sql"

	"go-salon/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PeriodQuery struct {
	Year   int
	Status string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *SettlementPeriod) error
	// CreateIfAbsent inserts the period unless (business, year, number)
	// already exists. Reports whether a row was written.
	CreateIfAbsent(ctx context.Context, p *SettlementPeriod) (bool, error)
	FindAllByBusiness(ctx context.Context, businessID string, q PeriodQuery) ([]SettlementPeriod, error)
	FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*SettlementPeriod, error)
	// ReplaceEntries swaps the period's snapshot atomically within the
	// caller's transaction.
	ReplaceEntries(ctx context.Context, businessID string, periodID string, entries []ExpertPeriodEntry) error
	UpdateEntriesStatus(ctx context.Context, businessID string, periodID string, set map[string]any) error
	// UpdateStatusGuarded is the compare-and-swap on period status.
	// Returns rows affected; zero means a concurrent caller won.
	UpdateStatusGuarded(ctx context.Context, businessID string, id string, fromStatus string, set map[string]any) (int64, error)
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
// so every repo call inside a service transaction commits or rolls
// back with it.
func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, p *SettlementPeriod) error {
	return r.session(ctx).Create(p).Error
}

func (r *repository) CreateIfAbsent(ctx context.Context, p *SettlementPeriod) (bool, error) {
	res := r.session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "year"}, {Name: "period_number"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindAllByBusiness(ctx context.Context, businessID string, q PeriodQuery) ([]SettlementPeriod, error) {
	db := r.session(ctx).
		Scopes(tenant.Scope(businessID))

	if q.Year != 0 {
		db = db.Where("year = ?", q.Year)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var periods []SettlementPeriod
	err := db.Order("year DESC, period_number DESC").Find(&periods).Error
	return periods, err
}

func (r *repository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*SettlementPeriod, error) {
	var p SettlementPeriod
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Preload("Entries").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) ReplaceEntries(ctx context.Context, businessID string, periodID string, entries []ExpertPeriodEntry) error {
	db := r.session(ctx)

	err := db.
		Where("business_id = ? AND period_id = ?", businessID, periodID).
		Delete(&ExpertPeriodEntry{}).Error
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return db.Create(&entries).Error
}

func (r *repository) UpdateEntriesStatus(ctx context.Context, businessID string, periodID string, set map[string]any) error {
	return r.session(ctx).
		Model(&ExpertPeriodEntry{}).
		Where("business_id = ? AND period_id = ?", businessID, periodID).
		Updates(set).Error
}

func (r *repository) UpdateStatusGuarded(ctx context.Context, businessID string, id string, fromStatus string, set map[string]any) (int64, error) {
	values := map[string]any{"version": gorm.Expr("version + 1")}
	for k, v := range set {
		values[k] = v
	}

	res := r.session(ctx).
		Model(&SettlementPeriod{}).
		Scopes(tenant.Scope(businessID)).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(values)
	return res.RowsAffected, res.Error
}
