package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/occm-labs/occm/internal/collection"
	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/installer"
	"github.com/occm-labs/occm/internal/manifest"
	"github.com/occm-labs/occm/internal/ui"
	"github.com/occm-labs/occm/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	installFrom   string
	installStrict bool
	installDryRun bool
)

var installCmd = &cobra.Command{
	Use:   "install [agent:<name> | skill:<name> | command:<name> ...]",
	Short: "Install agents, skills, and commands from the collection",
	Long: `Install entries from the collection repository into the project's
.opencode/ directory.

With no arguments, every agent, skill, and command in the collection is
installed. With selection tokens, only exact name matches are installed:

  occm install                      # everything
  occm install skill:writing-prose  # one skill
  occm install agent:reviewer command:commit

Skills are replaced wholesale on reinstall so stale files from a previous
version never survive.`,
	Args: cobra.ArbitraryArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installFrom, "from", "", "Install from a local collection directory instead of fetching")
	installCmd.Flags().BoolVar(&installStrict, "strict", false, "Exit non-zero when a requested name matches nothing")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Report what would be installed without writing")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sel := installer.ParseArgs(args)
	for _, raw := range sel.Unknown {
		ui.Warn(out, "ignoring unrecognized argument %q (expected %s)",
			raw, strings.Join(installer.ValidPrefixes(), ", "))
	}
	if sel.Empty() {
		ui.Info(out, "nothing selected; run with no arguments to install everything")
		return nil
	}

	projectRoot, err := workspace.ProjectRoot()
	if err != nil {
		return err
	}

	config.Load()

	snap, err := openSnapshot(cmd.Context(), installFrom)
	if err != nil {
		return err
	}
	defer snap.Close()

	progress := func(c installer.Category, name string, err error) {
		if err != nil {
			ui.Fail(out, "%s: %s (%v)", c.Singular(), name, err)
			return
		}
		if installDryRun {
			fmt.Fprintf(out, "  would install %s: %s\n", c.Singular(), name)
			return
		}
		ui.Ok(out, "%s: %s", c.Singular(), name)
	}

	result, err := installer.Install(snap.Root, projectRoot, sel, installer.Options{
		DryRun:   installDryRun,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	if !installDryRun {
		warnManifests(cmd, projectRoot, result)
	}

	for _, c := range result.Scope() {
		for _, name := range result.Missing[c] {
			ui.Warn(out, "no %s named %q in the collection", c.Singular(), name)
		}
	}

	fmt.Fprintln(out)
	for _, c := range result.Scope() {
		dest, _ := filepath.Abs(result.Dests[c])
		n := len(result.Copied[c])
		noun := c.Singular()
		if n != 1 {
			noun += "s"
		}
		ui.Ok(out, "%d %s installed to %s", n, noun, ui.Dim(dest))
	}

	if installStrict && result.Unmatched() {
		return fmt.Errorf("some requested entries were not found in the collection")
	}
	if result.Errors > 0 {
		return fmt.Errorf("%d entries failed to install", result.Errors)
	}
	return nil
}

// openSnapshot resolves the collection source: a local directory when --from
// is set, otherwise a fresh tarball snapshot. The fetch is interruptible;
// Ctrl-C cancels the download and the temp directory is still removed.
func openSnapshot(parent context.Context, from string) (*collection.Snapshot, error) {
	if from != "" {
		return collection.LocalSnapshot(from)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := collection.NewFetcher()
	snap, err := fetcher.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching collection %s@%s: %w", collection.Repo(), collection.Ref(), err)
	}
	return snap, nil
}

// warnManifests validates the frontmatter of freshly installed entries and
// prints advisory warnings. A bad manifest never fails the install.
func warnManifests(cmd *cobra.Command, projectRoot string, result *installer.Result) {
	out := cmd.OutOrStdout()
	opencodeRoot := filepath.Join(projectRoot, workspace.OpencodeDir)

	for _, c := range result.Scope() {
		if len(result.Copied[c]) == 0 {
			continue
		}

		entries, err := installer.Discover(opencodeRoot, c)
		if err != nil {
			continue
		}
		byName := make(map[string]installer.Entry, len(entries))
		for _, e := range entries {
			byName[e.Name] = e
		}

		for _, name := range result.Copied[c] {
			entry, ok := byName[name]
			if !ok {
				continue
			}
			for _, issue := range validateEntry(entry) {
				ui.Warn(out, "%s %s: %s", c.Singular(), name, issue)
			}
		}
	}
}

// validateEntry returns human-readable manifest problems for one entry.
func validateEntry(entry installer.Entry) []string {
	var kind manifest.Kind
	path := entry.Path
	switch entry.Category {
	case installer.Skills:
		kind = manifest.KindSkill
		path = filepath.Join(entry.Path, manifest.SkillFileName)
	case installer.Agents:
		kind = manifest.KindAgent
	case installer.Commands:
		kind = manifest.KindCommand
	default:
		return nil
	}

	res, err := manifest.ValidateFile(kind, path)
	if err != nil {
		return []string{err.Error()}
	}

	var problems []string
	for _, issue := range res.Issues {
		if issue.Path != "" {
			problems = append(problems, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		} else {
			problems = append(problems, issue.Message)
		}
	}

	// A skill whose frontmatter name disagrees with its directory confuses
	// opencode's loader.
	if kind == manifest.KindSkill {
		if meta, err := manifest.ParseSkillDir(entry.Path); err == nil {
			if meta.Name != "" && meta.Name != entry.Name {
				problems = append(problems, fmt.Sprintf("frontmatter name %q does not match directory name %q", meta.Name, entry.Name))
			}
		}
	}

	return problems
}
