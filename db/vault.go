package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alwitt/keyvault/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVaultKeyNotFound the referenced vault key does not exist
var ErrVaultKeyNotFound = fmt.Errorf("vault key not found [%w]", gorm.ErrRecordNotFound)

// getVaultKeyEntry find a vault key by ID
func (d *databaseImpl) getVaultKeyEntry(keyID string) (VaultKeyDBEntry, error) {
	var entry VaultKeyDBEntry
	if err := d.db.Where("id = ?", keyID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, fmt.Errorf("vault key %s [%w]", keyID, ErrVaultKeyNotFound)
		}
		return entry, fmt.Errorf("failed to fetch vault key %s [%w]", keyID, err)
	}
	return entry, nil
}

// auditVaultKeyEvent record a vault key related system event
func (d *databaseImpl) auditVaultKeyEvent(
	eventType models.SystemEventTypeENUMType, entry VaultKeyDBEntry,
) error {
	if _, err := d.defineNewSystemEvent(
		eventType,
		models.SystemEventVaultKeyRelated{KeyID: entry.ID, KeyName: entry.Name},
	); err != nil {
		return fmt.Errorf(
			"failed to log '%s' audit event for vault key %s [%w]", eventType, entry.ID, err,
		)
	}
	return nil
}

/*
InsertVaultKey persist a new vault key

	@param ctx context.Context - execution context
	@param payload models.VaultKeyInsert - normalized payload with the encrypted value
	@returns the new vault key entry
*/
func (d *databaseImpl) InsertVaultKey(
	_ context.Context, payload models.VaultKeyInsert,
) (models.VaultKey, error) {
	newEntry := VaultKeyDBEntry{
		VaultKey: models.VaultKey{
			ID:       uuid.NewString(),
			Name:     payload.Name,
			Service:  payload.Service,
			Category: payload.Category,
			Notes:    payload.Notes,
			KeyValue: payload.KeyValue,
		},
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.VaultKey{}, fmt.Errorf("new vault key '%s' is not valid [%w]", payload.Name, err)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.VaultKey{}, fmt.Errorf(
			"new vault key '%s' insert failed [%w]", payload.Name, tmp.Error,
		)
	}

	if err := d.auditVaultKeyEvent(models.SystemEventTypeAddVaultKey, newEntry); err != nil {
		return models.VaultKey{}, err
	}

	return newEntry.VaultKey, nil
}

/*
GetVaultKey fetch one vault key

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@returns the vault key entry
*/
func (d *databaseImpl) GetVaultKey(_ context.Context, keyID string) (models.VaultKey, error) {
	entry, err := d.getVaultKeyEntry(keyID)
	if err != nil {
		return models.VaultKey{}, err
	}
	return entry.VaultKey, nil
}

/*
ListVaultKeys list vault keys, newest first

	@param ctx context.Context - execution context
	@param filters VaultKeyQueryFilter - entry listing filter
	@return list of vault keys
*/
func (d *databaseImpl) ListVaultKeys(
	_ context.Context, filters VaultKeyQueryFilter,
) ([]models.VaultKey, error) {
	query := d.db.Model(&VaultKeyDBEntry{})

	if filters.Service != nil {
		query = query.Where("service = ?", *filters.Service)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	query = query.Order("created_at desc")

	var entries []VaultKeyDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to list vault keys [%w]", tmp.Error)
	}

	result := []models.VaultKey{}
	for _, entry := range entries {
		result = append(result, entry.VaultKey)
	}

	return result, nil
}

/*
UpdateVaultKey apply a partial update to a vault key

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param update models.VaultKeyUpdate - the partial update
	@returns the updated vault key entry
*/
func (d *databaseImpl) UpdateVaultKey(
	_ context.Context, keyID string, update models.VaultKeyUpdate,
) (models.VaultKey, error) {
	if err := d.validator.Struct(&update); err != nil {
		return models.VaultKey{}, fmt.Errorf("vault key %s update is not valid [%w]", keyID, err)
	}

	entry, err := d.getVaultKeyEntry(keyID)
	if err != nil {
		return models.VaultKey{}, err
	}

	if tmp := d.db.Model(&entry).Updates(update.Columns()); tmp.Error != nil {
		return models.VaultKey{}, fmt.Errorf("vault key %s update failed [%w]", keyID, tmp.Error)
	}

	if entry, err = d.getVaultKeyEntry(keyID); err != nil {
		return models.VaultKey{}, err
	}

	if err := d.auditVaultKeyEvent(models.SystemEventTypeUpdateVaultKey, entry); err != nil {
		return models.VaultKey{}, err
	}

	return entry.VaultKey, nil
}

/*
ReplaceVaultKeyValue replace the stored payload of a vault key with one in the
current format

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param payload string - the new encrypted payload
*/
func (d *databaseImpl) ReplaceVaultKeyValue(_ context.Context, keyID string, payload string) error {
	if payload == "" {
		return fmt.Errorf("vault key %s replacement payload is empty", keyID)
	}

	entry, err := d.getVaultKeyEntry(keyID)
	if err != nil {
		return err
	}

	if tmp := d.db.Model(&entry).Update("key_value", payload); tmp.Error != nil {
		return fmt.Errorf("vault key %s payload replace failed [%w]", keyID, tmp.Error)
	}

	return d.auditVaultKeyEvent(models.SystemEventTypeReencryptVaultKey, entry)
}

/*
MarkVaultKeyUsed record the vault key was revealed

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
	@param timestamp time.Time - time of use
*/
func (d *databaseImpl) MarkVaultKeyUsed(_ context.Context, keyID string, timestamp time.Time) error {
	entry, err := d.getVaultKeyEntry(keyID)
	if err != nil {
		return err
	}

	if tmp := d.db.Model(&entry).Update("last_used", timestamp); tmp.Error != nil {
		return fmt.Errorf("vault key %s last used update failed [%w]", keyID, tmp.Error)
	}

	return d.auditVaultKeyEvent(models.SystemEventTypeRevealVaultKey, entry)
}

/*
DeleteVaultKey delete a vault key

	@param ctx context.Context - execution context
	@param keyID string - vault key ID
*/
func (d *databaseImpl) DeleteVaultKey(_ context.Context, keyID string) error {
	entry, err := d.getVaultKeyEntry(keyID)
	if err != nil {
		return err
	}

	if tmp := d.db.Delete(&entry); tmp.Error != nil {
		return fmt.Errorf("vault key %s delete failed [%w]", keyID, tmp.Error)
	}

	return d.auditVaultKeyEvent(models.SystemEventTypeDeleteVaultKey, entry)
}
