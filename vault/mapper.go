// Package vault - mapping between vault key rows and API payloads
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alwitt/goutils"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
)

// keyMask fixed prefix of every masked key value
const keyMask = "****"

// ErrInvalidInput indicates a required vault key field is blank
var ErrInvalidInput = errors.New("invalid vault key input")

// Mapper bridges persisted vault key rows and API payloads to the codec
type Mapper interface {
	/*
		BuildInsertPayload normalize a new vault key and encrypt its value

			@param ctx context.Context - execution context
			@param input models.VaultKeyInput - caller input
			@returns the insert payload
	*/
	BuildInsertPayload(ctx context.Context, input models.VaultKeyInput) (models.VaultKeyInsert, error)

	/*
		BuildUpdatePayload normalize a vault key update. The value is only encrypted
		and included when the caller supplied a new one.

			@param ctx context.Context - execution context
			@param input models.VaultKeyInput - caller input
			@returns the partial update payload
	*/
	BuildUpdatePayload(ctx context.Context, input models.VaultKeyInput) (models.VaultKeyUpdate, error)

	/*
		ToMaskedRecord project a row into its API safe form. This never fails; an
		unrecoverable value is shown as a bare mask.

			@param ctx context.Context - execution context
			@param row models.VaultKey - the persisted row
			@returns the masked record
	*/
	ToMaskedRecord(ctx context.Context, row models.VaultKey) models.MaskedVaultKey

	/*
		ToMaskedRecords project many rows concurrently, preserving order

			@param ctx context.Context - execution context
			@param rows []models.VaultKey - the persisted rows
			@returns the masked records
	*/
	ToMaskedRecords(ctx context.Context, rows []models.VaultKey) []models.MaskedVaultKey
}

// mapperImpl implements Mapper
type mapperImpl struct {
	goutils.Component

	codec     encryption.Codec
	validator *validator.Validate
}

/*
NewMapper define new vault key mapper

	@param codec encryption.Codec - the vault value codec
	@returns mapper instance
*/
func NewMapper(codec encryption.Codec) Mapper {
	logTags := log.Fields{"module": "vault", "component": "record-mapper"}

	return &mapperImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		codec:     codec,
		validator: validator.New(),
	}
}

// normalizeCategory trimmed category, or the default when blank
func normalizeCategory(category string) string {
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		return trimmed
	}
	return models.DefaultVaultKeyCategory
}

// normalizeNotes trimmed notes, or nil when blank
func normalizeNotes(notes string) *string {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

/*
BuildInsertPayload normalize a new vault key and encrypt its value

	@param ctx context.Context - execution context
	@param input models.VaultKeyInput - caller input
	@returns the insert payload
*/
func (m *mapperImpl) BuildInsertPayload(
	ctx context.Context, input models.VaultKeyInput,
) (models.VaultKeyInsert, error) {
	name := strings.TrimSpace(input.Name)
	service := strings.TrimSpace(input.Service)
	if name == "" || service == "" || input.KeyValue == nil ||
		strings.TrimSpace(*input.KeyValue) == "" {
		return models.VaultKeyInsert{}, fmt.Errorf(
			"name, service and key value are required [%w]", ErrInvalidInput,
		)
	}

	encrypted, err := m.codec.Encrypt(ctx, *input.KeyValue)
	if err != nil {
		return models.VaultKeyInsert{}, fmt.Errorf("failed to encrypt key value [%w]", err)
	}

	payload := models.VaultKeyInsert{
		Name:     name,
		Service:  service,
		Category: normalizeCategory(input.Category),
		Notes:    normalizeNotes(input.Notes),
		KeyValue: encrypted,
	}
	if err := m.validator.Struct(&payload); err != nil {
		return models.VaultKeyInsert{}, fmt.Errorf("insert payload is not valid [%v] [%w]", err, ErrInvalidInput)
	}
	return payload, nil
}

/*
BuildUpdatePayload normalize a vault key update. The value is only encrypted and
included when the caller supplied a new one.

	@param ctx context.Context - execution context
	@param input models.VaultKeyInput - caller input
	@returns the partial update payload
*/
func (m *mapperImpl) BuildUpdatePayload(
	ctx context.Context, input models.VaultKeyInput,
) (models.VaultKeyUpdate, error) {
	payload := models.VaultKeyUpdate{
		Name:     strings.TrimSpace(input.Name),
		Service:  strings.TrimSpace(input.Service),
		Category: normalizeCategory(input.Category),
		Notes:    normalizeNotes(input.Notes),
	}
	if payload.Name == "" || payload.Service == "" {
		return models.VaultKeyUpdate{}, fmt.Errorf("name and service are required [%w]", ErrInvalidInput)
	}

	if input.KeyValue != nil && strings.TrimSpace(*input.KeyValue) != "" {
		encrypted, err := m.codec.Encrypt(ctx, *input.KeyValue)
		if err != nil {
			return models.VaultKeyUpdate{}, fmt.Errorf("failed to encrypt key value [%w]", err)
		}
		payload.KeyValue = &encrypted
	}

	if err := m.validator.Struct(&payload); err != nil {
		return models.VaultKeyUpdate{}, fmt.Errorf("update payload is not valid [%v] [%w]", err, ErrInvalidInput)
	}
	return payload, nil
}

/*
ToMaskedRecord project a row into its API safe form. This never fails; an
unrecoverable value is shown as a bare mask.

	@param ctx context.Context - execution context
	@param row models.VaultKey - the persisted row
	@returns the masked record
*/
func (m *mapperImpl) ToMaskedRecord(ctx context.Context, row models.VaultKey) models.MaskedVaultKey {
	masked := keyMask
	if decoded, err := m.codec.DecodeStoredValue(ctx, row.KeyValue); err != nil {
		log.
			WithError(err).
			WithFields(m.GetLogTagsForContext(ctx)).
			WithField("key_id", row.ID).
			Warn("Unable to decode vault key for masking")
	} else {
		masked = MaskKeyValue(decoded.Value)
	}

	return models.MaskedVaultKey{
		ID:        row.ID,
		Name:      row.Name,
		Service:   row.Service,
		Category:  row.Category,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
		LastUsed:  row.LastUsed,
		KeyMasked: masked,
	}
}

/*
ToMaskedRecords project many rows concurrently, preserving order

	@param ctx context.Context - execution context
	@param rows []models.VaultKey - the persisted rows
	@returns the masked records
*/
func (m *mapperImpl) ToMaskedRecords(
	ctx context.Context, rows []models.VaultKey,
) []models.MaskedVaultKey {
	result := make([]models.MaskedVaultKey, len(rows))
	wg := sync.WaitGroup{}
	for idx, row := range rows {
		wg.Add(1)
		go func(idx int, row models.VaultKey) {
			defer wg.Done()
			result[idx] = m.ToMaskedRecord(ctx, row)
		}(idx, row)
	}
	wg.Wait()
	return result
}

/*
MaskKeyValue hide all but the last four characters of a key

	@param plainText string - the key
	@returns the mask followed by the last four characters
*/
func MaskKeyValue(plainText string) string {
	if plainText == "" {
		return keyMask
	}
	runes := []rune(plainText)
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return keyMask + string(runes)
}
