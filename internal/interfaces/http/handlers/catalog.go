// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pokemart/storefront/internal/domain/catalog"
)

// CatalogHandler handles catalog endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListPokemon handles GET /pokemon
func (h *CatalogHandler) ListPokemon(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	pokemon, err := h.catalogService.ListRandom(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list pokemon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": pokemon,
	})
}

// GetPokemon handles GET /pokemon/:id
func (h *CatalogHandler) GetPokemon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pokemon ID",
		})
		return
	}

	pokemon, err := h.catalogService.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrPokemonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pokemon not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get pokemon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": pokemon,
	})
}
