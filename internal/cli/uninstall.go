package cli

import (
	"fmt"
	"strings"

	"github.com/occm-labs/occm/internal/installer"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/workspace"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <agent:<name> | skill:<name> | command:<name>> ...",
	Short: "Remove installed entries",
	Long: `Remove installed agents, skills, or commands from the project's
.opencode/ directory. Entries are named with the same tokens install uses:

  occm uninstall skill:writing-prose agent:reviewer`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sel := installer.ParseArgs(args)
	for _, raw := range sel.Unknown {
		ui.Warn(out, "ignoring unrecognized argument %q (expected %s)",
			raw, strings.Join(installer.ValidPrefixes(), ", "))
	}
	if sel.Empty() {
		return fmt.Errorf("nothing to uninstall: no recognized selections")
	}

	projectRoot, err := workspace.ProjectRoot()
	if err != nil {
		return err
	}

	progress := func(c installer.Category, name string, err error) {
		if err != nil {
			ui.Fail(out, "%s: %s (%v)", c.Singular(), name, err)
			return
		}
		ui.Ok(out, "removed %s: %s", c.Singular(), name)
	}

	result, err := installer.Uninstall(projectRoot, sel, installer.Options{Progress: progress})
	if err != nil {
		return err
	}

	for _, c := range result.Scope() {
		for _, name := range result.Missing[c] {
			ui.Warn(out, "no %s named %q is installed", c.Singular(), name)
		}
	}

	if result.Errors > 0 {
		return fmt.Errorf("%d entries failed to uninstall", result.Errors)
	}
	return nil
}
