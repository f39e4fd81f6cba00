package expert

import (
	"context"
	"database/sql"

	"go-salon/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Expert) error
	FindAllByBusiness(ctx context.Context, businessID string) ([]Expert, error)
	FindOptionsByBusiness(ctx context.Context, businessID string) ([]Expert, error)
	FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*Expert, error)
	Update(ctx context.Context, e *Expert) error
	Deactivate(ctx context.Context, businessID string, id string) error
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

func (r *repository) Create(ctx context.Context, e *Expert) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAllByBusiness(ctx context.Context, businessID string) ([]Expert, error) {
	var experts []Expert
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(businessID)).
		Order("full_name ASC").
		Find(&experts).Error
	return experts, err
}

func (r *repository) FindOptionsByBusiness(ctx context.Context, businessID string) ([]Expert, error) {
	var experts []Expert
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(businessID)).
		Where("active = ?", true).
		Order("full_name ASC").
		Find(&experts).Error
	return experts, err
}

func (r *repository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*Expert, error) {
	var e Expert
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(businessID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Expert) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Deactivate(ctx context.Context, businessID string, id string) error {
	return r.db.WithContext(ctx).
		Model(&Expert{}).
		Scopes(tenant.Scope(businessID)).
		Where("id = ?", id).
		Update("active", false).Error
}
