package db

import (
	"context"
	"fmt"
	"time"

	"github.com/alwitt/goutils"
	"github.com/alwitt/keyvault/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CommonListEntryQueryFilter common query filter when listing data entries
type CommonListEntryQueryFilter struct {
	Limit  *int
	Offset *int
}

// SystemEventQueryFilter audit event query filter conditions
type SystemEventQueryFilter struct {
	CommonListEntryQueryFilter
	// EventTypes the specific event types to query for
	EventTypes []models.SystemEventTypeENUMType
	// EventsAfter filter for events after this timestamp
	EventsAfter *time.Time
	// EventsBefore filter for events before this timestamp
	EventsBefore *time.Time
	// KeyID fetch only events whose metadata references this vault key
	KeyID *string
}

// VaultKeyQueryFilter vault key query filter conditions
type VaultKeyQueryFilter struct {
	CommonListEntryQueryFilter
	// Service fetch only keys owned by this service
	Service *string
	// Category fetch only keys in this category
	Category *string
}

// Database the database handle to interacting with the data base
type Database interface {
	// ------------------------------------------------------------------------------------
	// System audit events

	/*
		ListSystemEvents list captured system events

			@param ctx context.Context - execution context
			@param filters SystemEventQueryFilter - entry listing filter
			@return list of system events
	*/
	ListSystemEvents(
		ctx context.Context, filters SystemEventQueryFilter,
	) ([]models.SystemEventAudit, error)

	// ------------------------------------------------------------------------------------
	// Vault keys

	/*
		InsertVaultKey persist a new vault key

			@param ctx context.Context - execution context
			@param payload models.VaultKeyInsert - normalized payload with the encrypted value
			@returns the new vault key entry
	*/
	InsertVaultKey(ctx context.Context, payload models.VaultKeyInsert) (models.VaultKey, error)

	/*
		GetVaultKey fetch one vault key

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@returns the vault key entry
	*/
	GetVaultKey(ctx context.Context, keyID string) (models.VaultKey, error)

	/*
		ListVaultKeys list vault keys, newest first

			@param ctx context.Context - execution context
			@param filters VaultKeyQueryFilter - entry listing filter
			@return list of vault keys
	*/
	ListVaultKeys(ctx context.Context, filters VaultKeyQueryFilter) ([]models.VaultKey, error)

	/*
		UpdateVaultKey apply a partial update to a vault key

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param update models.VaultKeyUpdate - the partial update
			@returns the updated vault key entry
	*/
	UpdateVaultKey(
		ctx context.Context, keyID string, update models.VaultKeyUpdate,
	) (models.VaultKey, error)

	/*
		ReplaceVaultKeyValue replace the stored payload of a vault key with one in the
		current format

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param payload string - the new encrypted payload
	*/
	ReplaceVaultKeyValue(ctx context.Context, keyID string, payload string) error

	/*
		MarkVaultKeyUsed record the vault key was revealed

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param timestamp time.Time - time of use
	*/
	MarkVaultKeyUsed(ctx context.Context, keyID string, timestamp time.Time) error

	/*
		DeleteVaultKey delete a vault key

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
	*/
	DeleteVaultKey(ctx context.Context, keyID string) error
}

// databaseImpl implements Database
type databaseImpl struct {
	goutils.Component
	db        *gorm.DB
	validator *validator.Validate
}

// newDatabase define a new database client
func newDatabase(_ context.Context, sqlClient *gorm.DB) (Database, error) {
	logTags := log.Fields{"package": "keyvault", "module": "db", "component": "db-client"}

	instance := &databaseImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		db:        sqlClient,
		validator: validator.New(),
	}

	if err := models.RegisterWithValidator(instance.validator); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	return instance, nil
}
