package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/occm-labs/occm/internal/branding"
	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/updater"
	"github.com/spf13/cobra"
)

var (
	updateCheck   bool
	updateForce   bool
	updateVersion string
)

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "Only check for updates, don't install")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Force update even if already on latest version")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Install a specific version (e.g., 1.2.0)")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"self-update"},
	Short:   "Update " + branding.CLIName() + " to the latest version",
	Long: `Downloads and installs the latest release from GitHub or a configured
mirror.

  occm update                  # update to latest
  occm update --check          # check only
  occm update --version 1.2.0  # install a specific version`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Resolve mirror from config or env var.
	config.Load()
	mirror := config.Get("mirror")
	if envMirror := os.Getenv(branding.EnvVar("MIRROR")); envMirror != "" {
		mirror = envMirror
	}

	var opts []updater.Option
	if mirror != "" {
		opts = append(opts, updater.WithMirror(mirror))
	}

	u := updater.New(buildVersion, opts...)

	var release *updater.Release
	var err error
	if updateVersion != "" {
		ui.Info(out, "checking for version %s...", updateVersion)
		release, err = u.CheckSpecificVersion(updateVersion)
	} else {
		ui.Info(out, "checking for updates...")
		release, err = u.CheckLatestVersion()
	}
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
	if err != nil {
		// A "dev" build has no comparable version; treat it as updatable.
		if buildVersion == "dev" {
			available = true
		} else {
			return fmt.Errorf("comparing versions: %w", err)
		}
	}

	if updateCheck {
		if available {
			fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, release.Version)
		} else {
			fmt.Fprintf(out, "You are on the latest version (%s)\n", buildVersion)
		}
		return nil
	}

	if !available && !updateForce {
		fmt.Fprintf(out, "You are on the latest version (%s)\n", buildVersion)
		return nil
	}

	ui.Info(out, "downloading %s %s for %s/%s...", branding.CLIName(), release.Version, runtime.GOOS, runtime.GOARCH)

	tmpDir, err := os.MkdirTemp("", branding.CLIName()+"-update-*")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath, err := u.DownloadAsset(release, tmpDir)
	if err != nil {
		return fmt.Errorf("downloading release: %w", err)
	}

	if err := u.VerifyChecksum(release, archivePath); err != nil {
		return fmt.Errorf("verifying download: %w", err)
	}

	newBinary, err := updater.ExtractBinary(archivePath, tmpDir)
	if err != nil {
		return fmt.Errorf("extracting binary: %w", err)
	}

	currentBinary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current binary: %w", err)
	}

	if err := updater.ReplaceBinary(newBinary, currentBinary); err != nil {
		return err
	}

	// Refresh the cache so the update banner disappears immediately.
	_ = updater.SaveCache(config.Dir(), &updater.VersionCache{
		LatestVersion:  release.Version,
		CurrentVersion: release.Version,
		CheckedAt:      time.Now(),
	})

	ui.Ok(out, "updated to %s", release.Version)
	return nil
}
