package updater

import (
	"io"
	"time"

	"github.com/occm-labs/occm/internal/branding"
	"github.com/occm-labs/occm/internal/ui"
)

// CheckAndPrintBanner prints an upgrade hint when the cached release check
// says a newer version exists. It never blocks the running command: a stale
// cache only queues a background refresh for the next invocation.
func (u *Updater) CheckAndPrintBanner(w io.Writer, configDir string) {
	cache, err := LoadCache(configDir)
	if err != nil {
		// An unreadable cache is not worth interrupting the command for.
		return
	}

	if cache != nil && cache.UpdateAvailable {
		ui.Info(w, "update available: %s -> %s (run `%s update`)",
			cache.CurrentVersion, cache.LatestVersion, branding.CLIName())
	}

	if cache.Stale(DefaultCacheMaxAge) {
		go u.refreshCache(configDir)
	}
}

// refreshCache fetches the latest release and rewrites the cache file. Runs
// in a background goroutine; failures are silent.
func (u *Updater) refreshCache(configDir string) {
	release, err := u.CheckLatestVersion()
	if err != nil {
		return
	}

	available, err := IsUpdateAvailable(u.currentVersion, release.Version)
	if err != nil {
		return
	}

	_ = SaveCache(configDir, &VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  u.currentVersion,
		CheckedAt:       time.Now(),
		UpdateAvailable: available,
	})
}
