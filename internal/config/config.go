package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration loaded from config.toml.
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Conversion ConversionConfig `toml:"conversion"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig holds data directory settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ConversionConfig holds conversion run policy.
type ConversionConfig struct {
	// Workers bounds parallel per-company extraction.
	Workers int `toml:"workers"`
	// PersistOnFailed keeps dataset rows of runs whose coverage fell
	// below the failure threshold.
	PersistOnFailed bool `toml:"persist_on_failed"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Conversion: ConversionConfig{
			Workers:         4,
			PersistOnFailed: true,
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable's directory. A
// missing file yields the defaults.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes config.toml next to the executable.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory and its subdirectories next
// to the executable and returns the resolved path.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	subdirs := []string{"uploads", "exports", "configs"}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// GetDataPath builds a path inside the data directory.
func GetDataPath(config *AppConfig, subdir, filename string) string {
	exeDir, _ := GetExeDir()
	if exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir, subdir, filename)
}
