package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListHistory lists past conversions, optionally filtered by module.
// GET /api/history?module=workforce&limit=50
func (h *Handler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := h.store.ListHistory(c.Query("module"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// GetHistory returns one conversion record.
// GET /api/history/:id
func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.store.GetConversion(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetHistoryRows returns a conversion's persisted dataset rows.
// GET /api/history/:id/rows
func (h *Handler) GetHistoryRows(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.store.GetRows(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// DeleteHistory removes a conversion and its rows.
// DELETE /api/history/:id
func (h *Handler) DeleteHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteConversion(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
