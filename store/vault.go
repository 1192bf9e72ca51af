// Package store - data storage controllers
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/alwitt/goutils"
	"github.com/alwitt/keyvault/db"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/models"
	"github.com/alwitt/keyvault/vault"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MigrationReport outcome of a legacy payload migration pass
type MigrationReport struct {
	// Total number of vault keys inspected
	Total int `json:"total"`
	// Current number of vault keys already in the current format
	Current int `json:"current"`
	// Reencrypted number of vault keys upgraded to the current format
	Reencrypted int `json:"reencrypted"`
	// Failed number of vault keys which could not be recovered
	Failed int `json:"failed"`
	// FailedKeyIDs IDs of the vault keys which could not be recovered
	FailedKeyIDs []string `json:"failed_key_ids,omitempty"`
}

// VaultStore API key vault which only ever exposes masked values, except on reveal
type VaultStore interface {
	/*
		CreateKey store a new API key

			@param ctx context.Context - execution context
			@param input models.VaultKeyInput - caller input
			@param activeDBClient Database - existing database transaction
			@returns the masked record of the new key
	*/
	CreateKey(
		ctx context.Context, input models.VaultKeyInput, activeDBClient db.Database,
	) (models.MaskedVaultKey, error)

	/*
		UpdateKey update an API key. The stored value only changes when the input
		carries a new value.

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param input models.VaultKeyInput - caller input
			@param activeDBClient Database - existing database transaction
			@returns the masked record of the updated key
	*/
	UpdateKey(
		ctx context.Context, keyID string, input models.VaultKeyInput, activeDBClient db.Database,
	) (models.MaskedVaultKey, error)

	/*
		ListKeys list the masked API keys. Rows which can't be decoded are still listed.

			@param ctx context.Context - execution context
			@param filters db.VaultKeyQueryFilter - entry listing filter
			@param activeDBClient Database - existing database transaction
			@returns the masked records
	*/
	ListKeys(
		ctx context.Context, filters db.VaultKeyQueryFilter, activeDBClient db.Database,
	) ([]models.MaskedVaultKey, error)

	/*
		RevealKey return the plain text of an API key. A key stored in a legacy format
		is upgraded to the current format along the way.

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param activeDBClient Database - existing database transaction
			@returns the plain text key
	*/
	RevealKey(ctx context.Context, keyID string, activeDBClient db.Database) (string, error)

	/*
		DeleteKey delete an API key

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param activeDBClient Database - existing database transaction
	*/
	DeleteKey(ctx context.Context, keyID string, activeDBClient db.Database) error

	/*
		MigrateLegacyKeys upgrade every legacy format key to the current format.
		Unrecoverable keys are counted and skipped.

			@param ctx context.Context - execution context
			@param activeDBClient Database - existing database transaction
			@returns the migration report
	*/
	MigrateLegacyKeys(ctx context.Context, activeDBClient db.Database) (MigrationReport, error)

	/*
		ListKeyEvents list the audit trail of an API key, oldest first. The trail of a
		deleted key remains available.

			@param ctx context.Context - execution context
			@param keyID string - vault key ID
			@param filters db.CommonListEntryQueryFilter - pagination
			@param activeDBClient Database - existing database transaction
			@returns the key events
	*/
	ListKeyEvents(
		ctx context.Context,
		keyID string,
		filters db.CommonListEntryQueryFilter,
		activeDBClient db.Database,
	) ([]models.VaultKeyEvent, error)
}

// vaultStoreImpl implements VaultStore
type vaultStoreImpl struct {
	goutils.Component

	persistence db.Client
	codec       encryption.Codec
	mapper      vault.Mapper
	validator   *validator.Validate
}

/*
NewVaultStore define new API key vault store

	@param persistence db.Client - persistence layer client
	@param codec encryption.Codec - vault value codec
	@returns store instance
*/
func NewVaultStore(persistence db.Client, codec encryption.Codec) (VaultStore, error) {
	if persistence == nil || codec == nil {
		return nil, fmt.Errorf("vault store requires both persistence client and codec")
	}

	validate := validator.New()
	if err := models.RegisterWithValidator(validate); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	logTags := log.Fields{"module": "store", "component": "vault-store"}

	return &vaultStoreImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		persistence: persistence,
		codec:       codec,
		mapper:      vault.NewMapper(codec),
		validator:   validate,
	}, nil
}

/*
CreateKey store a new API key

	@param ctx context.Context - execution context
	@param input models.VaultKeyInput - caller input
	@param activeDBClient Database - existing database transaction
	@returns the masked record of the new key
*/
func (s *vaultStoreImpl) CreateKey(
	ctx context.Context, input models.VaultKeyInput, activeDBClient db.Database,
) (models.MaskedVaultKey, error) {
	payload, err := s.mapper.BuildInsertPayload(ctx, input)
	if err != nil {
		return models.MaskedVaultKey{}, fmt.Errorf("failed to prepare new vault key [%w]", err)
	}

	var entry models.VaultKey
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			entry, err = dbClient.InsertVaultKey(dbCtx, payload)
			return err
		},
	); dbErr != nil {
		return models.MaskedVaultKey{}, fmt.Errorf(
			"failed to store vault key '%s' [%w]", payload.Name, dbErr,
		)
	}

	log.
		WithFields(s.GetLogTagsForContext(ctx)).
		WithField("key_id", entry.ID).
		WithField("service", entry.Service).
		Info("Stored new vault key")

	return s.mapper.ToMaskedRecord(ctx, entry), nil
}

/*
UpdateKey update an API key. The stored value only changes when the input carries
a new value.

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param input models.VaultKeyInput - caller input
	@param activeDBClient Database - existing database transaction
	@returns the masked record of the updated key
*/
func (s *vaultStoreImpl) UpdateKey(
	ctx context.Context, keyID string, input models.VaultKeyInput, activeDBClient db.Database,
) (models.MaskedVaultKey, error) {
	update, err := s.mapper.BuildUpdatePayload(ctx, input)
	if err != nil {
		return models.MaskedVaultKey{}, fmt.Errorf("failed to prepare vault key update [%w]", err)
	}

	var entry models.VaultKey
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			entry, err = dbClient.UpdateVaultKey(dbCtx, keyID, update)
			return err
		},
	); dbErr != nil {
		return models.MaskedVaultKey{}, fmt.Errorf("failed to update vault key %s [%w]", keyID, dbErr)
	}

	log.
		WithFields(s.GetLogTagsForContext(ctx)).
		WithField("key_id", entry.ID).
		WithField("value_replaced", update.KeyValue != nil).
		Info("Updated vault key")

	return s.mapper.ToMaskedRecord(ctx, entry), nil
}

/*
ListKeys list the masked API keys. Rows which can't be decoded are still listed.

	@param ctx context.Context - execution context
	@param filters db.VaultKeyQueryFilter - entry listing filter
	@param activeDBClient Database - existing database transaction
	@returns the masked records
*/
func (s *vaultStoreImpl) ListKeys(
	ctx context.Context, filters db.VaultKeyQueryFilter, activeDBClient db.Database,
) ([]models.MaskedVaultKey, error) {
	var entries []models.VaultKey
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			entries, err = dbClient.ListVaultKeys(dbCtx, filters)
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf("failed to list vault keys [%w]", dbErr)
	}

	return s.mapper.ToMaskedRecords(ctx, entries), nil
}

// upgradeLegacyValue re-encrypt a recovered legacy value and persist it
func (s *vaultStoreImpl) upgradeLegacyValue(
	ctx context.Context, entry models.VaultKey, plainText string, dbClient db.Database,
) error {
	encrypted, err := s.codec.Encrypt(ctx, plainText)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt vault key %s [%w]", entry.ID, err)
	}
	if err := dbClient.ReplaceVaultKeyValue(ctx, entry.ID, encrypted); err != nil {
		return fmt.Errorf("failed to persist re-encrypted vault key %s [%w]", entry.ID, err)
	}
	return nil
}

/*
RevealKey return the plain text of an API key. A key stored in a legacy format is
upgraded to the current format along the way.

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param activeDBClient Database - existing database transaction
	@returns the plain text key
*/
func (s *vaultStoreImpl) RevealKey(
	ctx context.Context, keyID string, activeDBClient db.Database,
) (string, error) {
	var plainText string
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			entry, err := dbClient.GetVaultKey(dbCtx, keyID)
			if err != nil {
				return err
			}

			decoded, err := s.codec.DecodeStoredValue(dbCtx, entry.KeyValue)
			if err != nil {
				return fmt.Errorf("failed to decode vault key %s [%w]", keyID, err)
			}

			if decoded.NeedsReencrypt {
				if err := s.upgradeLegacyValue(dbCtx, entry, decoded.Value, dbClient); err != nil {
					return err
				}
				log.
					WithFields(s.GetLogTagsForContext(dbCtx)).
					WithField("key_id", keyID).
					Info("Upgraded legacy vault key to current format")
			}

			if err := dbClient.MarkVaultKeyUsed(dbCtx, keyID, time.Now().UTC()); err != nil {
				return err
			}

			plainText = decoded.Value
			return nil
		},
	); dbErr != nil {
		return "", fmt.Errorf("failed to reveal vault key %s [%w]", keyID, dbErr)
	}

	return plainText, nil
}

/*
DeleteKey delete an API key

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param activeDBClient Database - existing database transaction
*/
func (s *vaultStoreImpl) DeleteKey(ctx context.Context, keyID string, activeDBClient db.Database) error {
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			return dbClient.DeleteVaultKey(dbCtx, keyID)
		},
	); dbErr != nil {
		return fmt.Errorf("failed to delete vault key %s [%w]", keyID, dbErr)
	}

	log.
		WithFields(s.GetLogTagsForContext(ctx)).
		WithField("key_id", keyID).
		Info("Deleted vault key")

	return nil
}

/*
MigrateLegacyKeys upgrade every legacy format key to the current format.
Unrecoverable keys are counted and skipped.

	@param ctx context.Context - execution context
	@param activeDBClient Database - existing database transaction
	@returns the migration report
*/
func (s *vaultStoreImpl) MigrateLegacyKeys(
	ctx context.Context, activeDBClient db.Database,
) (MigrationReport, error) {
	report := MigrationReport{}
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			entries, err := dbClient.ListVaultKeys(dbCtx, db.VaultKeyQueryFilter{})
			if err != nil {
				return err
			}

			for _, entry := range entries {
				report.Total++
				decoded, err := s.codec.DecodeStoredValue(dbCtx, entry.KeyValue)
				if err != nil {
					log.
						WithError(err).
						WithFields(s.GetLogTagsForContext(dbCtx)).
						WithField("key_id", entry.ID).
						Warn("Vault key is not recoverable")
					report.Failed++
					report.FailedKeyIDs = append(report.FailedKeyIDs, entry.ID)
					continue
				}

				if !decoded.NeedsReencrypt {
					report.Current++
					continue
				}

				if err := s.upgradeLegacyValue(dbCtx, entry, decoded.Value, dbClient); err != nil {
					return err
				}
				report.Reencrypted++
			}
			return nil
		},
	); dbErr != nil {
		return MigrationReport{}, fmt.Errorf("legacy vault key migration failed [%w]", dbErr)
	}

	log.
		WithFields(s.GetLogTagsForContext(ctx)).
		WithField("total", report.Total).
		WithField("reencrypted", report.Reencrypted).
		WithField("failed", report.Failed).
		Info("Legacy vault key migration complete")

	return report, nil
}

/*
ListKeyEvents list the audit trail of an API key, oldest first. The trail of a deleted
key remains available.

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param filters db.CommonListEntryQueryFilter - pagination
	@param activeDBClient Database - existing database transaction
	@returns the key events
*/
func (s *vaultStoreImpl) ListKeyEvents(
	ctx context.Context,
	keyID string,
	filters db.CommonListEntryQueryFilter,
	activeDBClient db.Database,
) ([]models.VaultKeyEvent, error) {
	if _, err := uuid.Parse(keyID); err != nil {
		return nil, fmt.Errorf("vault key ID '%s' is not a UUID [%w]", keyID, vault.ErrInvalidInput)
	}

	var entries []models.SystemEventAudit
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, s.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			entries, err = dbClient.ListSystemEvents(dbCtx, db.SystemEventQueryFilter{
				CommonListEntryQueryFilter: filters, KeyID: &keyID,
			})
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf("failed to list events of vault key %s [%w]", keyID, dbErr)
	}

	events := []models.VaultKeyEvent{}
	for _, entry := range entries {
		event, err := entry.VaultKeyEvent(s.validator)
		if err != nil {
			return nil, fmt.Errorf("audit event %s is malformed [%w]", entry.ID, err)
		}
		events = append(events, event)
	}

	return events, nil
}
