// controllers/sequence.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
)

type SequenceController struct {
	Numbering *services.NumberingService
}

// NextNumber mints the next number of a sequence (e.g. POST /sequences/invoice/next?pad=4).
// It always answers; numbers issued while the database is unreachable are not persisted.
func (sc *SequenceController) NextNumber(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Sequence name required")
		return
	}

	pad := 0
	if raw := c.Query("pad"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid pad")
			return
		}
		pad = p
	}

	number := sc.Numbering.Next(c.Request.Context(), name, pad)
	c.JSON(http.StatusCreated, gin.H{"sequence": name, "number": number})
}

// GetSequence reports the last issued value of a sequence without consuming one.
func (sc *SequenceController) GetSequence(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	last, ok, err := sc.Numbering.Current(c.Request.Context(), name)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Sequence not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "lastNumber": last})
}
