// controllers/common.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
)

// parseUintParam reads a positive integer path parameter, answering 400 when it is not one.
func parseUintParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps engine errors: ErrNotFound → 404, everything else → 500.
func respondServiceError(c *gin.Context, err error, notFound, failure string) {
	if errors.Is(err, services.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, notFound)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, failure)
}
