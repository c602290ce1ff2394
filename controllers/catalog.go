// controllers/catalog.go
package controllers

import (
	"net/http"

	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *services.CatalogService
}

// GetCatalog returns the live catalog grouped by category.
func (cc *CatalogController) GetCatalog(c *gin.Context) {
	groups, err := cc.Catalog.Grouped(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetCatalogEntry retrieves a single live entry by id.
func (cc *CatalogController) GetCatalogEntry(c *gin.Context) {
	entry, err := cc.Catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Catalog entry not found", "Database error")
		return
	}
	c.JSON(http.StatusOK, entry)
}
