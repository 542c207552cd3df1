package cli

import (
	"fmt"

	"github.com/occm-labs/occm/internal/manifest"
	"github.com/occm-labs/occm/internal/scaffold"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	newDescription string
	newForce       bool
)

var newCmd = &cobra.Command{
	Use:   "new <skill|agent|command> <name>",
	Short: "Scaffold a new collection entry in this project",
	Long: `Generate a skeleton entry under the project's .opencode/ directory:
a SKILL.md bundle for skills, or a frontmatter'd markdown file for agents
and commands.

  occm new skill writing-prose
  occm new agent reviewer --description "Reviews diffs for style"`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Description for the entry's frontmatter")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing entry")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	kind := manifest.Kind(args[0])
	switch kind {
	case manifest.KindSkill, manifest.KindAgent, manifest.KindCommand:
	default:
		return fmt.Errorf("unknown entry kind %q (expected skill, agent, or command)", args[0])
	}

	projectRoot, err := workspace.ProjectRoot()
	if err != nil {
		return err
	}

	result, err := scaffold.New(kind, args[1], newDescription, projectRoot, newForce)
	if err != nil {
		return err
	}

	ui.Ok(cmd.OutOrStdout(), "created %s", result.Path)
	return nil
}
