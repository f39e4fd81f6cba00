package tenant

import "gorm.io/gorm"

// Scope restricts a query to one salon business. Every repository query
// must apply it; cross-business reads are never legitimate.
func Scope(businessID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("business_id = ?", businessID)
	}
}
