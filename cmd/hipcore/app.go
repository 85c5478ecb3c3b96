// File path: cmd/hipcore/app.go
package main

import (
	"fmt"

	"github.com/houdini-kb/hipcore/internal/cache"
	"github.com/houdini-kb/hipcore/internal/store"
)

func openStore() (*store.Store, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	if flagDBPath != "" {
		cfg.Path = flagDBPath
	}
	st, err := store.OpenWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return st, nil
}

func openCacheManager() (*cache.Manager, error) {
	cfg, err := cache.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load cache config: %w", err)
	}
	if flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}
	if flagInstallPath != "" {
		cfg.InstallPath = flagInstallPath
	}
	if flagMaxCacheMB > 0 {
		cfg.MaxBytes = flagMaxCacheMB * 1024 * 1024
	}
	mgr, err := cache.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return mgr, nil
}
