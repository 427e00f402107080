package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open creates the KV named by cfg. When cfg is nil the settings are loaded
// from the environment.
func Open(cfg Config) (KV, error) {
	if cfg == nil {
		s, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = s
	}

	switch b := cfg.Backend(); b {
	case "", BackendDisk:
		return NewDiskKV(cfg.BasePath())
	case BackendSQLite:
		path := cfg.BasePath()
		if path == "" {
			return nil, fmt.Errorf("store: path required for sqlite backend")
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, "taskflow.sqlite")
		} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure sqlite dir: %w", err)
		}
		return NewSQLiteKV(path)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", b)
	}
}
