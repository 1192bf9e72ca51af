// Package api provides the REST API for the key vault.
package api

import (
	"net/http"

	"github.com/alwitt/keyvault/api/handlers"
	"github.com/alwitt/keyvault/store"
	"github.com/gin-gonic/gin"
)

// Router holds all API dependencies and routes.
type Router struct {
	engine     *gin.Engine
	vaultStore store.VaultStore
}

// NewRouter creates a new API router.
func NewRouter(vaultStore store.VaultStore) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestContext(), requestLogger())

	r := &Router{
		engine:     engine,
		vaultStore: vaultStore,
	}

	r.setupRoutes()

	return r
}

// setupRoutes configures all API routes.
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	vaultRoutes := r.engine.Group("/api/vault")
	{
		vaultRoutes.GET("", r.listKeys)
		vaultRoutes.POST("", r.createKey)
		vaultRoutes.PATCH("/:id", r.updateKey)
		vaultRoutes.DELETE("/:id", r.deleteKey)
		vaultRoutes.POST("/:id/reveal", r.revealKey)
		vaultRoutes.GET("/:id/events", r.listKeyEvents)
	}
}

// Handler returns the HTTP handler.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Vault handlers

func (r *Router) listKeys(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.List(c)
}

func (r *Router) createKey(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.Create(c)
}

func (r *Router) updateKey(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.Update(c)
}

func (r *Router) deleteKey(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.Delete(c)
}

func (r *Router) revealKey(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.Reveal(c)
}

func (r *Router) listKeyEvents(c *gin.Context) {
	h := handlers.NewVaultHandler(r.vaultStore)
	h.Events(c)
}
