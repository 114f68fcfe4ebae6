package migrations

import (
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/persistence/postgres"
	orderspostgres "github.com/Apurer/instrumentos-api/internal/domains/orders/adapters/persistence/postgres"
	userspostgres "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/persistence/postgres"
)

// Run applies the schema for every bounded context. Referenced tables come first.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&catalogpostgres.CategoryRecord{},
		&catalogpostgres.InstrumentRecord{},
		&orderspostgres.OrderRecord{},
		&orderspostgres.LineItemRecord{},
		&orderspostgres.IdempotencyRecord{},
		&userspostgres.UserRecord{},
		&userspostgres.SessionRecord{},
	)
}
