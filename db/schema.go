package db

import (
	"context"

	"gorm.io/gorm"
)

/*
DefineTables create or update the vault tables through GORM auto-migration. Used by
unit tests and local sqlite deployments; managed databases apply the Atlas schema from
utils/atlas-migrate instead.

	@param ctx context.Context - execution context
	@param db *gorm.DB - database session
*/
func DefineTables(_ context.Context, db *gorm.DB) error {
	return db.AutoMigrate(
		SystemEventAuditDBEntry{},
		VaultKeyDBEntry{},
	)
}
