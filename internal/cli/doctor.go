package cli

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/occm-labs/occm/internal/collection"
	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/installer"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/updater"
	"github.com/occm-labs/occm/internal/workspace"
	"github.com/spf13/cobra"
)

var doctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment for problems",
	Long: `Run environment checks: project root resolution, destination directory
writability, config validity, collection reachability, and whether a newer
release of the CLI is available.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "Skip checks that need the network")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	problems := 0

	// Project root.
	projectRoot, err := workspace.ProjectRoot()
	if err != nil {
		ui.Fail(out, "project root: %v", err)
		problems++
	} else {
		ui.Ok(out, "project root: %s", projectRoot)
	}

	// Destination writability.
	if projectRoot != "" {
		for _, c := range installer.Categories {
			dest := workspace.DestDir(projectRoot, string(c))
			if workspace.IsWritable(filepath.Dir(dest)) {
				ui.Ok(out, "destination writable: %s", dest)
			} else {
				ui.Fail(out, "destination not writable: %s", dest)
				problems++
			}
		}
	}

	// Config.
	config.Load()
	ui.Ok(out, "collection: %s@%s", collection.Repo(), collection.Ref())

	if doctorOffline {
		ui.Info(out, "offline: skipping network checks")
	} else {
		// Collection reachability.
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Head(collection.ArchiveURL())
		if err != nil {
			ui.Fail(out, "collection unreachable: %v", err)
			problems++
		} else {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				ui.Ok(out, "collection reachable")
			} else {
				ui.Fail(out, "collection archive returned status %d", resp.StatusCode)
				problems++
			}
		}

		// Release check.
		u := updater.New(buildVersion, updater.WithHTTPClient(client))
		if release, err := u.CheckLatestVersion(); err == nil {
			if available, err := updater.IsUpdateAvailable(buildVersion, release.Version); err == nil && available {
				ui.Info(out, "update available: %s -> %s", buildVersion, release.Version)
			} else {
				ui.Ok(out, "CLI is up to date (%s)", buildVersion)
			}
		} else {
			ui.Info(out, "release check skipped: %v", err)
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	fmt.Fprintln(out)
	ui.Ok(out, "no problems found")
	return nil
}
