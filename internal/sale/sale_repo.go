package sale

import (
	"context"
	"database/sql"

	"go-salon/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Sale) error
	FindAllByBusiness(ctx context.Context, businessID string) ([]Sale, error)
	FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*Sale, error)
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

func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, s *Sale) error {
	return r.session(ctx).Create(s).Error
}

func (r *repository) FindAllByBusiness(ctx context.Context, businessID string) ([]Sale, error) {
	var sales []Sale
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Preload("Lines").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *repository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*Sale, error) {
	var s Sale
	err := r.session(ctx).
		Scopes(tenant.Scope(businessID)).
		Preload("Lines").
		First(&s, "id = ?", id).Error
	return &s, err
}
