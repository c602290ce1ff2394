// controllers/ticket.go
package controllers

import (
	"net/http"
	"strings"

	"atelier-backend/models"
	"atelier-backend/services"
	"atelier-backend/utils"

	"github.com/gin-gonic/gin"
)

// MergeLinesInput is the JSON form of a line submission.
type MergeLinesInput struct {
	Selections []models.SubmittedSelection `json:"selections" binding:"required"`
}

type TicketController struct {
	Aggregator *services.LineAggregator
	Lines      services.LineStore
	Tickets    services.TicketStore
	Log        *utils.Logger
}

// MergeLines adds the submitted catalog selections to the ticket's lines and returns
// the new totals. Accepts the builder form (prest_id[], qty[], ...) or JSON.
func (tc *TicketController) MergeLines(c *gin.Context) {
	ticketID, ok := parseUintParam(c, "id", "ticket")
	if !ok {
		return
	}

	var selections []models.SubmittedSelection
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		var input MergeLinesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		selections = utils.NormalizeSelections(input.Selections)
	} else {
		if err := c.Request.ParseForm(); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
			return
		}
		selections = utils.ParseSelections(c.Request.PostForm)
	}

	if _, err := tc.Tickets.Get(c.Request.Context(), ticketID); err != nil {
		respondServiceError(c, err, "Ticket not found", "Database error")
		return
	}

	result, err := tc.Aggregator.Merge(c.Request.Context(), ticketID, selections)
	if err != nil {
		tc.Log.Error("merge lines failed", "ticket_id", ticketID, "error", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to merge lines")
		return
	}

	totals, err := tc.Aggregator.RecomputeTotals(c.Request.Context(), ticketID)
	if err != nil {
		tc.Log.Error("recompute totals failed", "ticket_id", ticketID, "error", err)
		respondServiceError(c, err, "Ticket not found", "Failed to recompute totals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"merge": result, "totals": totals})
}

// GetLines lists the ticket's service and part lines.
func (tc *TicketController) GetLines(c *gin.Context) {
	ticketID, ok := parseUintParam(c, "id", "ticket")
	if !ok {
		return
	}

	out := gin.H{}
	for _, kind := range models.LineKinds {
		lines, err := tc.Lines.List(c.Request.Context(), ticketID, kind)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve lines")
			return
		}
		if lines == nil {
			lines = []models.OrderLine{}
		}
		out[string(kind)] = lines
	}
	c.JSON(http.StatusOK, out)
}

// GetTotals recomputes and returns the ticket totals.
func (tc *TicketController) GetTotals(c *gin.Context) {
	ticketID, ok := parseUintParam(c, "id", "ticket")
	if !ok {
		return
	}

	totals, err := tc.Aggregator.RecomputeTotals(c.Request.Context(), ticketID)
	if err != nil {
		respondServiceError(c, err, "Ticket not found", "Failed to recompute totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// ClearLines deletes every line of the ticket. Submitting the form again afterwards
// rebuilds the lines from scratch.
func (tc *TicketController) ClearLines(c *gin.Context) {
	ticketID, ok := parseUintParam(c, "id", "ticket")
	if !ok {
		return
	}

	if err := tc.Lines.Clear(c.Request.Context(), ticketID); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear lines")
		return
	}
	totals, err := tc.Aggregator.RecomputeTotals(c.Request.Context(), ticketID)
	if err != nil {
		respondServiceError(c, err, "Ticket not found", "Failed to recompute totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// DeleteLine removes one line (kind is "service" or "part").
func (tc *TicketController) DeleteLine(c *gin.Context) {
	ticketID, ok := parseUintParam(c, "id", "ticket")
	if !ok {
		return
	}
	lineID, ok := parseUintParam(c, "lineId", "line")
	if !ok {
		return
	}
	kind := models.LineKind(c.Param("kind"))
	if kind != models.ServiceLine && kind != models.PartLine {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid line kind")
		return
	}

	if err := tc.Lines.Delete(c.Request.Context(), kind, ticketID, lineID); err != nil {
		respondServiceError(c, err, "Line not found", "Failed to delete line")
		return
	}
	totals, err := tc.Aggregator.RecomputeTotals(c.Request.Context(), ticketID)
	if err != nil {
		respondServiceError(c, err, "Ticket not found", "Failed to recompute totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}
