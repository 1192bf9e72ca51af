package keyvault_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alwitt/keyvault"
	"github.com/alwitt/keyvault/db"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/models"
	"github.com/apex/log"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

// TestVaultStoreEndToEnd exercises the vault through the top level constructor
// against a temporary SQLite database, with the secret taken from the environment.
func TestVaultStoreEndToEnd(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	// ------------------------------------------------------------------
	// 1. Create the vault store on a temporary SQLite database
	// ------------------------------------------------------------------
	ctx := context.Background()

	testDB := fmt.Sprintf("/tmp/keyvault_ut_%s.db", ulid.Make().String())

	t.Setenv("ENCRYPTION_SECRET", "end-to-end-test-secret")
	vault, err := keyvault.NewVaultStore(
		ctx, db.GetSqliteDialector(testDB), logger.Error, encryption.NewEnvKeyProvider(), true,
	)
	assert.Nil(err)

	// ------------------------------------------------------------------
	// 2. The tables were defined
	// ------------------------------------------------------------------
	dbClient, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)
	assert.Nil(dbClient.UseDatabase(ctx, func(ctx context.Context, dbClient db.Database) error {
		keys, err := dbClient.ListVaultKeys(ctx, db.VaultKeyQueryFilter{})
		assert.Nil(err)
		assert.Empty(keys)
		return err
	}))

	// ------------------------------------------------------------------
	// 3. Store a key
	// ------------------------------------------------------------------
	keyValue := "sk-live-abcdef1234"
	created, err := vault.CreateKey(ctx, models.VaultKeyInput{
		Name: "Trading Bot", Service: "Alpaca", KeyValue: &keyValue,
	}, nil)
	assert.Nil(err)
	assert.Equal("****1234", created.KeyMasked)
	assert.Equal(models.DefaultVaultKeyCategory, created.Category)

	// ------------------------------------------------------------------
	// 4. The stored value is never the plain text
	// ------------------------------------------------------------------
	assert.Nil(dbClient.UseDatabase(ctx, func(ctx context.Context, dbClient db.Database) error {
		entry, err := dbClient.GetVaultKey(ctx, created.ID)
		assert.Nil(err)
		assert.NotContains(entry.KeyValue, keyValue)
		return err
	}))

	// ------------------------------------------------------------------
	// 5. Reveal it
	// ------------------------------------------------------------------
	revealed, err := vault.RevealKey(ctx, created.ID, nil)
	assert.Nil(err)
	assert.Equal(keyValue, revealed)

	// ------------------------------------------------------------------
	// 6. A store with a different secret can't reveal it, but still lists it
	// ------------------------------------------------------------------
	other, err := keyvault.NewVaultStore(
		ctx,
		db.GetSqliteDialector(testDB),
		logger.Error,
		encryption.NewStaticKeyProvider("wrong-secret"),
		false,
	)
	assert.Nil(err)
	_, err = other.RevealKey(ctx, created.ID, nil)
	assert.ErrorIs(err, encryption.ErrDecryptFailed)
	listed, err := other.ListKeys(ctx, db.VaultKeyQueryFilter{}, nil)
	assert.Nil(err)
	assert.Len(listed, 1)
	assert.Equal("****", listed[0].KeyMasked)

	// ------------------------------------------------------------------
	// 7. Delete it
	// ------------------------------------------------------------------
	assert.Nil(vault.DeleteKey(ctx, created.ID, nil))
	listed, err = vault.ListKeys(ctx, db.VaultKeyQueryFilter{}, nil)
	assert.Nil(err)
	assert.Empty(listed)
}
