package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheMaxAge bounds how long a release check result is trusted
// before the banner path refreshes it.
const DefaultCacheMaxAge = 24 * time.Hour

const cacheFileName = "version-check.json"

// VersionCache is the persisted result of the last release check.
type VersionCache struct {
	LatestVersion   string    `json:"latest_version"`
	CurrentVersion  string    `json:"current_version"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// Stale reports whether the cache is missing or older than maxAge.
func (c *VersionCache) Stale(maxAge time.Duration) bool {
	return c == nil || time.Since(c.CheckedAt) > maxAge
}

// LoadCache reads the cached check from configDir. A missing file returns
// nil, nil so first runs fall through to a fresh check.
func LoadCache(configDir string) (*VersionCache, error) {
	data, err := os.ReadFile(filepath.Join(configDir, cacheFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	var c VersionCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	return &c, nil
}

// SaveCache writes the check result to configDir. The write goes through a
// temp file and rename so an interrupted background refresh never leaves a
// torn cache behind.
func SaveCache(configDir string, c *VersionCache) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding version cache: %w", err)
	}

	path := filepath.Join(configDir, cacheFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return os.Rename(tmp, path)
}
