package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const downloadTTL = 10 * time.Minute

// Export renders a conversion to a workbook and returns a one-time
// download token.
// POST /api/export/:id
func (h *Handler) Export(c *gin.Context) {
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

	buf, err := h.exporter.ExportToBuffer(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("konverta_%s_%s.xlsx", rec.Module, rec.Period)
	token := h.downloads.put(buf, filename, downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"filename": filename,
		"url":      "/api/export/download/" + token,
	})
}

// DownloadExport serves a previously exported workbook. Tokens are
// single-use and expire after downloadTTL.
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	dl, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expired or unknown"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", dl.content.Bytes())
}
