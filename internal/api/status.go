package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// StatusResponse is the system status payload.
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`
	TotalRuns      int    `json:"totalRuns"`
	LastConversion string `json:"lastConversion,omitempty"`
	LastStatus     string `json:"lastStatus,omitempty"`
	LastPeriod     string `json:"lastPeriod,omitempty"`
}

// GetStatus reports whether any conversions exist and the latest one.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	records, err := h.store.ListHistory("", 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		Initialized: len(records) > 0,
		TotalRuns:   len(records),
	}
	if len(records) > 0 {
		last := records[0]
		resp.LastConversion = last.CreatedAt.Format("2006-01-02 15:04:05")
		resp.LastStatus = model.RunStatus(last.Status).Label()
		resp.LastPeriod = last.Period
	}
	c.JSON(http.StatusOK, resp)
}
