// Package keyvault - encrypted credential vault for third-party API keys
package keyvault

import (
	"context"
	"fmt"

	"github.com/alwitt/keyvault/db"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
NewVaultStore initialize an API key vault store instance.

Each instance is backed by a SQL database; two instances using the same database and
the same encryption secret are essentially copies of each other.

	@param ctx context.Context - execution context
	@param dbDialector gorm.Dialector - GORM dialector
	@param dbLogLevel logger.LogLevel - SQL log level
	@param keys encryption.KeyProvider - source of the vault encryption key
	@param defineTables bool - auto-migrate the vault tables on the new connection
	@returns new store instance
*/
func NewVaultStore(
	ctx context.Context,
	dbDialector gorm.Dialector,
	dbLogLevel logger.LogLevel,
	keys encryption.KeyProvider,
	defineTables bool,
) (store.VaultStore, error) {
	// Prepare persistence
	persistence, err := db.NewConnection(dbDialector, dbLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized persistence client [%w]", err)
	}

	if defineTables {
		if err := persistence.RunSQLInTransaction(ctx, db.DefineTables); err != nil {
			return nil, fmt.Errorf("failed to define vault tables [%w]", err)
		}
	}

	// Prepare the codec
	codec, err := encryption.NewCodec(encryption.CodecParams{Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("failed to initialized vault codec [%w]", err)
	}

	vaultStore, err := store.NewVaultStore(persistence, codec)
	if err != nil {
		return nil, fmt.Errorf("failed to initialized vault store [%w]", err)
	}

	return vaultStore, nil
}
