package updater

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/occm-labs/occm/internal/branding"
)

// ArchiveName returns the expected archive filename for the current platform.
// Matches the release template: occm_{os}_{arch}.tar.gz.
func ArchiveName() string {
	return fmt.Sprintf("%s_%s_%s.tar.gz", branding.CLIName(), runtime.GOOS, runtime.GOARCH)
}

// SelectAssetForPlatform finds the asset matching the current OS/arch.
func SelectAssetForPlatform(assets []Asset) (*Asset, error) {
	expected := ArchiveName()
	for i := range assets {
		if assets[i].Name == expected {
			return &assets[i], nil
		}
	}

	// Flexible fallback: the os_arch pattern anywhere in an archive name.
	pattern := fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH)
	for i := range assets {
		if strings.Contains(assets[i].Name, pattern) && strings.HasSuffix(assets[i].Name, ".tar.gz") {
			return &assets[i], nil
		}
	}

	return nil, fmt.Errorf("no asset found for %s/%s (expected %s)", runtime.GOOS, runtime.GOARCH, expected)
}
