// Package server wires the HTTP stack: store, config stores,
// coordinator and API routes.
package server

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/almamiraa/KP-PTPN/internal/api"
	"github.com/almamiraa/KP-PTPN/internal/config"
	"github.com/almamiraa/KP-PTPN/internal/confstore"
	"github.com/almamiraa/KP-PTPN/internal/converter"
	"github.com/almamiraa/KP-PTPN/internal/model"
	"github.com/almamiraa/KP-PTPN/internal/store"
)

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	store  *store.Store
}

// NewServer builds the full stack from the app config.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, "konverta.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	confs := confstore.New(filepath.Join(dataDir, "configs"))
	for _, module := range []model.ModuleKind{model.ModuleWorkforce, model.ModuleCost} {
		if err := confs.Ensure(module); err != nil {
			log.Fatalf("Failed to initialize %s config: %v", module, err)
		}
	}

	coord := converter.NewCoordinator(sqliteStore, confs, converter.Policy{
		Workers:         cfg.Conversion.Workers,
		PersistOnFailed: cfg.Conversion.PersistOnFailed,
	})
	handler := api.NewHandler(sqliteStore, confs, coord, filepath.Join(dataDir, "uploads"))

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
	}
	s.setupRoutes(handler)
	return s
}

func (s *Server) setupRoutes(handler *api.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
}

const indexHTML = `<!doctype html>
<html lang="id">
<head><meta charset="utf-8"><title>Konverta</title></head>
<body>
<h1>Konverta</h1>
<p>Konversi workbook Excel multi-sheet menjadi dataset analitik.</p>
<p>API tersedia di <code>/api</code>.</p>
</body>
</html>`

// Run starts the server on the given port.
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Close releases held resources.
func (s *Server) Close() error {
	return s.store.Close()
}
