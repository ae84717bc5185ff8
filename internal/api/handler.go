// Package api implements the HTTP API: config management, conversion
// uploads with streamed progress, history and export downloads.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/confstore"
	"github.com/almamiraa/KP-PTPN/internal/converter"
	"github.com/almamiraa/KP-PTPN/internal/exporter"
	"github.com/almamiraa/KP-PTPN/internal/store"
)

// Handler holds the API's collaborators.
type Handler struct {
	store     *store.Store
	confs     *confstore.Store
	coord     *converter.Coordinator
	exporter  *exporter.Exporter
	uploadDir string
	downloads *downloadStore
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, confs *confstore.Store, coord *converter.Coordinator, uploadDir string) *Handler {
	return &Handler{
		store:     st,
		confs:     confs,
		coord:     coord,
		exporter:  exporter.NewExporter(st),
		uploadDir: uploadDir,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes registers all API routes on a group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.GET("/config/:module", h.GetConfig)
	router.PUT("/config/:module", h.UpdateConfig)
	router.POST("/config/:module/reload", h.ReloadConfig)

	router.POST("/convert/:module", h.Convert)

	router.GET("/history", h.ListHistory)
	router.GET("/history/:id", h.GetHistory)
	router.GET("/history/:id/rows", h.GetHistoryRows)
	router.DELETE("/history/:id", h.DeleteHistory)

	router.POST("/export/:id", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
