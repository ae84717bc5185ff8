package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/almamiraa/KP-PTPN/internal/config"
	"github.com/almamiraa/KP-PTPN/internal/server"
	"github.com/almamiraa/KP-PTPN/internal/util"
)

var (
	port    = flag.Int("port", 0, "server port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Konverta - Konversi Data Excel PTPN")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Failed to create data directory: %v", err)
	} else {
		fmt.Printf("Data directory: %s\n", resolvedDataDir)
	}

	srv := server.NewServer(cfg)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Starting server on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(cfg.Server.Port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Could not open a browser, visit %s manually\n", url)
		}
	} else {
		fmt.Printf("Development mode: visit %s\n", url)
	}

	fmt.Println("\nPress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	if err := srv.Close(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
