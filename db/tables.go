package db

import "github.com/alwitt/keyvault/models"

// --------------------------------------------------------------------------------------
// System audit events

// SystemEventAuditDBEntry system audit event DB entry
type SystemEventAuditDBEntry struct {
	models.SystemEventAudit
}

// TableName hard code table name
func (SystemEventAuditDBEntry) TableName() string {
	return "system_audit_events"
}

// --------------------------------------------------------------------------------------
// Vault keys

// VaultKeyDBEntry stored API key DB entry
type VaultKeyDBEntry struct {
	models.VaultKey
}

// TableName hard code table name
func (VaultKeyDBEntry) TableName() string {
	return "vault_keys"
}
