// File path: internal/cache/config.go
package cache

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultMaxBytes int64 = 2 << 30 // 2 GiB

// Config controls where the acquisition cache lives and how large it is
// permitted to grow before eviction runs.
type Config struct {
	CacheDir    string
	MaxBytes    int64
	InstallPath string
	VersionDirs []string
}

// Merge overlays non-zero fields of override onto c, following the same
// env-first pattern used by the catalog store's configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.CacheDir) != "" {
		result.CacheDir = strings.TrimSpace(override.CacheDir)
	}
	if override.MaxBytes > 0 {
		result.MaxBytes = override.MaxBytes
	}
	if strings.TrimSpace(override.InstallPath) != "" {
		result.InstallPath = strings.TrimSpace(override.InstallPath)
	}
	if len(override.VersionDirs) > 0 {
		result.VersionDirs = override.VersionDirs
	}
	return result
}

// LoadConfig reads cache configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	envCfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.CacheDir) == "" {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			home = "."
		}
		c.CacheDir = home + string(os.PathSeparator) + ".hipcore" + string(os.PathSeparator) + "cache"
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = defaultMaxBytes
	}
}

func loadConfigEnv() (Config, error) {
	cfg := Config{}
	if v := strings.TrimSpace(os.Getenv("CACHE_DIR")); v != "" {
		cfg.CacheDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CACHE_MAX_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse CACHE_MAX_BYTES: %w", err)
		}
		cfg.MaxBytes = n
	}
	if v := strings.TrimSpace(os.Getenv("HOUDINI_INSTALL_PATH")); v != "" {
		cfg.InstallPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HOUDINI_VERSION_DIRS")); v != "" {
		parts := strings.Split(v, string(os.PathListSeparator))
		dirs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				dirs = append(dirs, trimmed)
			}
		}
		cfg.VersionDirs = dirs
	}
	return cfg, nil
}
