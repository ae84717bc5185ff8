package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/converter"
	"github.com/almamiraa/KP-PTPN/internal/model"
)

// Convert runs a conversion over an uploaded workbook, streaming
// progress as server-sent events.
// POST /api/convert/:module  (multipart: file, period=YYYY-MM)
func (h *Handler) Convert(c *gin.Context) {
	module, ok := parseModule(c)
	if !ok {
		return
	}

	period, err := model.ParsePeriod(c.PostForm("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no uploaded file"})
		return
	}
	path := filepath.Join(h.uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(upload.Filename)))
	if err := c.SaveUploadedFile(upload, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	progress := h.coord.Convert(c.Request.Context(), converter.ConvertOptions{
		Module:   module,
		FilePath: path,
		Filename: upload.Filename,
		Period:   period,
	})
	for event := range progress {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}
}
