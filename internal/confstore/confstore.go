// Package confstore manages the per-module conversion configs
// (companies + mapping) as JSON files under the data directory. Files
// are hot-reloaded on modification and backed up on every save.
package confstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

type entry struct {
	cfg     *model.ConversionConfig
	modTime time.Time
}

// Store loads, validates and saves conversion configs. Safe for
// concurrent use.
type Store struct {
	dir string

	mu      sync.Mutex
	entries map[model.ModuleKind]*entry
}

// New creates a store rooted at dir (usually <dataDir>/configs).
func New(dir string) *Store {
	return &Store{dir: dir, entries: make(map[model.ModuleKind]*entry)}
}

func (s *Store) path(module model.ModuleKind) string {
	return filepath.Join(s.dir, string(module)+".json")
}

// Ensure writes an empty config skeleton for a module whose file does
// not exist yet, so the UI always has something to edit.
func (s *Store) Ensure(module model.ModuleKind) error {
	path := s.path(module)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	kind := model.MappingFixedLayout
	skeleton := &model.ConversionConfig{Module: module, Mapping: model.MappingSpec{Kind: kind, Fixed: &model.FixedLayout{}}}
	if module == model.ModuleCost {
		skeleton.Mapping = model.MappingSpec{Kind: model.MappingHeaderDriven, Header: &model.HeaderDriven{PeriodRow: 1, ScanFrom: 1, ScanTo: 1}}
	}
	data, err := json.MarshalIndent(skeleton, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Snapshot returns an immutable copy of a module's config, reloading
// the file first when it changed on disk.
func (s *Store) Snapshot(module model.ModuleKind) (*model.ConversionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(module); err != nil {
		return nil, err
	}
	return s.entries[module].cfg.Clone(), nil
}

// Reload drops the cached config so the next Snapshot rereads the file.
func (s *Store) Reload(module model.ModuleKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, module)
	return s.refreshLocked(module)
}

func (s *Store) refreshLocked(module model.ModuleKind) error {
	path := s.path(module)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config for module %s: %w", module, err)
	}

	if e, ok := s.entries[module]; ok && e.modTime.Equal(info.ModTime()) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := &model.ConversionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	s.entries[module] = &entry{cfg: cfg, modTime: info.ModTime()}
	return nil
}

// Save validates and writes a module's config. The previous file is
// kept as a .backup and restored when the write fails.
func (s *Store) Save(module model.ModuleKind, cfg *model.ConversionConfig) error {
	if cfg.Module == "" {
		cfg.Module = module
	}
	if cfg.Module != module {
		return fmt.Errorf("config module %s does not match %s", cfg.Module, module)
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(module)
	backup := path + ".backup"
	hadPrevious := false
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, backup); err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		hadPrevious = true
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		if hadPrevious {
			_ = copyFile(backup, path)
		}
		return err
	}

	delete(s.entries, module)
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

// Validate checks the structural integrity of a conversion config:
// unique company keys, a mapping shape matching its kind, parsable
// cell references and sane header scan bounds. It does not require
// companies to exist; an empty config is valid until a run uses it.
func Validate(cfg *model.ConversionConfig) error {
	switch cfg.Module {
	case model.ModuleWorkforce, model.ModuleCost:
	default:
		return fmt.Errorf("unknown module %q", cfg.Module)
	}

	seen := make(map[string]bool, len(cfg.Companies))
	for i, c := range cfg.Companies {
		if c.Key == "" {
			return fmt.Errorf("company %d has no key", i)
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate company key %q", c.Key)
		}
		seen[c.Key] = true
		if c.SheetName == "" {
			return fmt.Errorf("company %q has no sheet name", c.Key)
		}
	}

	switch cfg.Mapping.Kind {
	case model.MappingFixedLayout:
		if cfg.Mapping.Fixed == nil {
			return fmt.Errorf("fixed mapping has no layout")
		}
		return validateFixed(cfg.Mapping.Fixed)
	case model.MappingHeaderDriven:
		if cfg.Mapping.Header == nil {
			return fmt.Errorf("header mapping has no layout")
		}
		return validateHeader(cfg.Mapping.Header)
	default:
		return fmt.Errorf("unknown mapping kind %q", cfg.Mapping.Kind)
	}
}

func validateFixed(fixed *model.FixedLayout) error {
	for _, sg := range fixed.StatusGroups {
		if sg.Status == "" {
			return fmt.Errorf("status group without a status")
		}
		for _, sub := range sg.SubGroups {
			for _, lvl := range sub.Levels {
				for _, dim := range lvl.Dimensions {
					if dim.Dimension == "" {
						return fmt.Errorf("dimension without a name under %s/%s", sg.Status, lvl.Name)
					}
					for _, cat := range dim.Categories {
						if _, _, err := excelize.CellNameToCoordinates(cat.Cell); err != nil {
							return fmt.Errorf("bad cell %q for %s/%s: %w", cat.Cell, dim.Dimension, cat.Category, err)
						}
					}
				}
			}
		}
	}
	return nil
}

func validateHeader(hdr *model.HeaderDriven) error {
	if hdr.PeriodRow < 1 {
		return fmt.Errorf("period row must be >= 1")
	}
	if hdr.ScanFrom < 1 || hdr.ScanTo < hdr.ScanFrom {
		return fmt.Errorf("invalid scan range %d..%d", hdr.ScanFrom, hdr.ScanTo)
	}
	for _, row := range hdr.Rows {
		if row.Row < 1 {
			return fmt.Errorf("row mapping %q has invalid row %d", row.Description, row.Row)
		}
	}
	return nil
}
