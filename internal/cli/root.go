package cli

import (
	"os"

	"github.com/occm-labs/occm/internal/branding"
	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs opencode agents, skills, and commands from a collection
repository into a project's .opencode/ directory, selectively or wholesale.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip the banner for commands that manage their own update state.
		name := cmd.Name()
		if name == "update" || name == "self-update" || name == "version" {
			return
		}

		// Non-blocking banner from the cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		ui.Fail(rootCmd.ErrOrStderr(), "%v", err)
	}
	return err
}
