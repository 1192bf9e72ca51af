// Package handlers provides HTTP request handlers.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alwitt/keyvault/db"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/models"
	"github.com/alwitt/keyvault/store"
	"github.com/alwitt/keyvault/vault"
	"github.com/gin-gonic/gin"
)

// VaultHandler handles vault key requests.
type VaultHandler struct {
	vaultStore store.VaultStore
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(vaultStore store.VaultStore) *VaultHandler {
	return &VaultHandler{vaultStore: vaultStore}
}

// statusForError map a vault error to its HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, vault.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrVaultKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, encryption.ErrDecryptFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// parseOptionalInt read an optional non-negative integer query parameter
func parseOptionalInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("query parameter '%s' must be a non-negative integer", name)
	}
	return &value, nil
}

// parsePagination read the limit and offset query parameters
func parsePagination(c *gin.Context) (db.CommonListEntryQueryFilter, error) {
	var pagination db.CommonListEntryQueryFilter
	var err error
	if pagination.Limit, err = parseOptionalInt(c, "limit"); err != nil {
		return pagination, err
	}
	if pagination.Offset, err = parseOptionalInt(c, "offset"); err != nil {
		return pagination, err
	}
	return pagination, nil
}

// List returns the masked vault keys matching the filter.
func (h *VaultHandler) List(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := db.VaultKeyQueryFilter{CommonListEntryQueryFilter: pagination}

	if service := c.Query("service"); service != "" {
		filter.Service = &service
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}

	keys, err := h.vaultStore.ListKeys(c.Request.Context(), filter, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, keys)
}

// Create stores a new vault key.
func (h *VaultHandler) Create(c *gin.Context) {
	var input models.VaultKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.vaultStore.CreateKey(c.Request.Context(), input, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a vault key.
func (h *VaultHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input models.VaultKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.vaultStore.UpdateKey(c.Request.Context(), id, input, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a vault key.
func (h *VaultHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.vaultStore.DeleteKey(c.Request.Context(), id, nil); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Reveal returns the plain text of a vault key.
func (h *VaultHandler) Reveal(c *gin.Context) {
	id := c.Param("id")

	plainText, err := h.vaultStore.RevealKey(c.Request.Context(), id, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "keyValue": plainText})
}

// Events returns the audit trail of a vault key, oldest first.
func (h *VaultHandler) Events(c *gin.Context) {
	id := c.Param("id")

	pagination, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.vaultStore.ListKeyEvents(c.Request.Context(), id, pagination, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}
