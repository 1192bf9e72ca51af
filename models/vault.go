// Package models - system data models
package models

import "time"

// DefaultVaultKeyCategory category assigned when none is provided
const DefaultVaultKeyCategory = "Other"

// VaultKey a stored API key entry
//
// KeyValue holds the serialized encrypted payload, never the plain text.
type VaultKey struct {
	// ID vault key entry ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required,uuid_rfc4122"`

	// Name logical name of the key
	Name string `json:"name" gorm:"column:name;not null" validate:"required"`
	// Service the service owning the key
	Service string `json:"service" gorm:"column:service;not null;index" validate:"required"`
	// Category free text grouping
	Category string `json:"category" gorm:"column:category;not null;index" validate:"required"`
	// Notes optional operator notes
	Notes *string `json:"notes" gorm:"column:notes;default:null"`

	// KeyValue the encrypted key payload
	KeyValue string `json:"-" gorm:"column:key_value;not null" validate:"required"`

	// LastUsed timestamp of the last reveal
	LastUsed *time.Time `json:"last_used" gorm:"column:last_used;default:null"`

	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// VaultKeyInput caller supplied vault key parameters
type VaultKeyInput struct {
	// Name logical name of the key
	Name string `json:"name"`
	// Service the service owning the key
	Service string `json:"service"`
	// Category free text grouping
	Category string `json:"category"`
	// Notes optional operator notes
	Notes string `json:"notes"`
	// KeyValue the plain text key. nil when the caller did not supply one.
	KeyValue *string `json:"keyValue"`
}

// VaultKeyInsert normalized payload for inserting a new vault key
type VaultKeyInsert struct {
	Name     string  `validate:"required"`
	Service  string  `validate:"required"`
	Category string  `validate:"required"`
	Notes    *string `validate:"-"`
	// KeyValue the encrypted key payload
	KeyValue string `validate:"required"`
}

// VaultKeyUpdate normalized payload for a partial vault key update
type VaultKeyUpdate struct {
	Name     string  `validate:"required"`
	Service  string  `validate:"required"`
	Category string  `validate:"required"`
	Notes    *string `validate:"-"`
	// KeyValue the new encrypted key payload. nil leaves the stored payload untouched.
	KeyValue *string `validate:"omitempty,min=1"`
}

// Columns the update as a column to value map
func (u VaultKeyUpdate) Columns() map[string]interface{} {
	columns := map[string]interface{}{
		"name":     u.Name,
		"service":  u.Service,
		"category": u.Category,
		"notes":    u.Notes,
	}
	if u.KeyValue != nil {
		columns["key_value"] = *u.KeyValue
	}
	return columns
}

// MaskedVaultKey API safe projection of a vault key
type MaskedVaultKey struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Service   string     `json:"service"`
	Category  string     `json:"category"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used"`
	// KeyMasked last four characters of the key behind a fixed mask
	KeyMasked string `json:"key_masked"`
}
