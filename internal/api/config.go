package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

func parseModule(c *gin.Context) (model.ModuleKind, bool) {
	module := model.ModuleKind(c.Param("module"))
	switch module {
	case model.ModuleWorkforce, model.ModuleCost:
		return module, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "unknown module"})
	return "", false
}

// GetConfig returns a module's conversion config.
// GET /api/config/:module
func (h *Handler) GetConfig(c *gin.Context) {
	module, ok := parseModule(c)
	if !ok {
		return
	}
	cfg, err := h.confs.Snapshot(module)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig validates and saves a module's conversion config.
// PUT /api/config/:module
func (h *Handler) UpdateConfig(c *gin.Context) {
	module, ok := parseModule(c)
	if !ok {
		return
	}
	var cfg model.ConversionConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config payload"})
		return
	}
	if err := h.confs.Save(module, &cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ReloadConfig rereads a module's config file from disk.
// POST /api/config/:module/reload
func (h *Handler) ReloadConfig(c *gin.Context) {
	module, ok := parseModule(c)
	if !ok {
		return
	}
	if err := h.confs.Reload(module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": true})
}
