package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// SystemEventTypeENUMType system event type ENUM value type
type SystemEventTypeENUMType string

const (
	// SystemEventTypeAddVaultKey new vault key is being added
	SystemEventTypeAddVaultKey SystemEventTypeENUMType = "VAULT_KEY_ADDED"

	// SystemEventTypeUpdateVaultKey vault key is being updated
	SystemEventTypeUpdateVaultKey SystemEventTypeENUMType = "VAULT_KEY_UPDATED"

	// SystemEventTypeReencryptVaultKey legacy vault key payload was upgraded to the
	// current format
	SystemEventTypeReencryptVaultKey SystemEventTypeENUMType = "VAULT_KEY_REENCRYPTED"

	// SystemEventTypeRevealVaultKey vault key plain text was revealed
	SystemEventTypeRevealVaultKey SystemEventTypeENUMType = "VAULT_KEY_REVEALED"

	// SystemEventTypeDeleteVaultKey vault key is deleted
	SystemEventTypeDeleteVaultKey SystemEventTypeENUMType = "VAULT_KEY_DELETED"
)

// SystemEventAudit recording of events occurring at the system level
type SystemEventAudit struct {
	// ID audit entry ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required"`
	// EventType system event type
	EventType SystemEventTypeENUMType `json:"type" gorm:"column:type;not null" validate:"required,system_event_type"`
	// Metadata a metadata relating to the event
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"column:metadata;default:null"`
	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseMetadata parse the metadata based on the event type
func (a SystemEventAudit) ParseMetadata(validator *validator.Validate) (interface{}, error) {
	switch a.EventType {
	case SystemEventTypeAddVaultKey:
		fallthrough
	case SystemEventTypeUpdateVaultKey:
		fallthrough
	case SystemEventTypeReencryptVaultKey:
		fallthrough
	case SystemEventTypeRevealVaultKey:
		fallthrough
	case SystemEventTypeDeleteVaultKey:
		var parsed SystemEventVaultKeyRelated
		if err := json.Unmarshal(a.Metadata, &parsed); err != nil {
			return nil, fmt.Errorf("system event '%s' metadata parse failed [%w]", a.EventType, err)
		}
		return parsed, validator.Struct(&parsed)
	}
	return nil, nil
}

// SystemEventVaultKeyRelated system event metadata related to a vault key
//
// Only identifying information is recorded; never the key value.
type SystemEventVaultKeyRelated struct {
	// KeyID the vault key ID
	KeyID string `json:"key_id" validate:"required,uuid_rfc4122"`
	// KeyName the vault key name
	KeyName string `json:"key_name" validate:"required"`
}

// VaultKeyEvent one entry of a vault key's audit trail
type VaultKeyEvent struct {
	// ID audit entry ID
	ID string `json:"id"`
	// EventType what happened to the key
	EventType SystemEventTypeENUMType `json:"type"`
	// KeyID the vault key ID
	KeyID string `json:"key_id"`
	// KeyName the vault key name when the event was recorded
	KeyName string `json:"key_name"`
	// CreatedAt when the event was recorded
	CreatedAt time.Time `json:"created_at"`
}

/*
VaultKeyEvent project the audit entry into a vault key event

	@param validator *validator.Validate - validator with the custom validations installed
	@returns the vault key event
*/
func (a SystemEventAudit) VaultKeyEvent(validator *validator.Validate) (VaultKeyEvent, error) {
	metadata, err := a.ParseMetadata(validator)
	if err != nil {
		return VaultKeyEvent{}, err
	}
	related, ok := metadata.(SystemEventVaultKeyRelated)
	if !ok {
		return VaultKeyEvent{}, fmt.Errorf("system event '%s' is not vault key related", a.EventType)
	}
	return VaultKeyEvent{
		ID:        a.ID,
		EventType: a.EventType,
		KeyID:     related.KeyID,
		KeyName:   related.KeyName,
		CreatedAt: a.CreatedAt,
	}, nil
}
