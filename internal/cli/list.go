package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/installer"
	"github.com/occm-labs/occm/internal/manifest"
	"github.com/occm-labs/occm/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	listInstalled bool
	listFrom      string
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collection entries",
	Long: `List the agents, skills, and commands available in the collection,
or those already installed under the project's .opencode/ directory.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "List installed entries instead of the remote collection")
	listCmd.Flags().StringVar(&listFrom, "from", "", "List a local collection directory instead of fetching")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one entry for display.
type listEntry struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	var root string

	if listInstalled {
		projectRoot, err := workspace.ProjectRoot()
		if err != nil {
			return err
		}
		root = filepath.Join(projectRoot, workspace.OpencodeDir)
	} else {
		config.Load()
		snap, err := openSnapshot(cmd.Context(), listFrom)
		if err != nil {
			return err
		}
		defer snap.Close()
		root = snap.Root
	}

	all, err := installer.DiscoverAll(root)
	if err != nil {
		return fmt.Errorf("discovering entries: %w", err)
	}

	var entries []listEntry
	for _, c := range installer.Categories {
		for _, e := range all[c] {
			entries = append(entries, listEntry{
				Category:    c.Singular(),
				Name:        e.Name,
				Description: describeEntry(e),
			})
		}
	}

	if len(entries) == 0 {
		if listInstalled {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing installed yet.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "The collection is empty.")
		}
		return nil
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNAME\tDESCRIPTION")
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Category, e.Name, desc)
	}
	return w.Flush()
}

// describeEntry pulls the description from an entry's frontmatter, best
// effort. Truncated so the table stays readable.
func describeEntry(e installer.Entry) string {
	const maxLen = 72

	var desc string
	switch e.Category {
	case installer.Skills:
		if meta, err := manifest.ParseSkillDir(e.Path); err == nil {
			desc = meta.Description
		}
	case installer.Agents:
		if meta, err := manifest.ParseAgent(e.Path); err == nil {
			desc = meta.Description
		}
	case installer.Commands:
		if meta, err := manifest.ParseCommand(e.Path); err == nil {
			desc = meta.Description
		}
	}

	if r := []rune(desc); len(r) > maxLen {
		desc = string(r[:maxLen-1]) + "…"
	}
	return desc
}
