package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/occm-labs/occm/internal/config"
	"github.com/occm-labs/occm/internal/updater"
	"github.com/occm-labs/occm/internal/workspace"
)

// setupEnv isolates HOME and the project root, and pre-warms the version
// cache so the update banner never spawns a network check.
func setupEnv(t *testing.T) (project string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := updater.SaveCache(config.Dir(), &updater.VersionCache{
		LatestVersion:  "0.0.0",
		CurrentVersion: "0.0.0",
		CheckedAt:      time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	project = t.TempDir()
	t.Setenv("OCCM_PROJECT", project)
	return project
}

// writeCollection lays out a minimal collection tree and returns its root.
func writeCollection(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"agents/reviewer.md":              "---\ndescription: Reviews pull requests\nmode: subagent\n---\nReview the diff.\n",
		"skills/writing-prose/SKILL.md":   "---\nname: writing-prose\ndescription: Write clear prose\n---\n# Writing Prose\n",
		"skills/writing-prose/style.md":   "Prefer short sentences.\n",
		"commands/commit.md":              "---\ndescription: Create a commit\n---\nCommit staged changes.\n",
		"skills/broken-manifest/SKILL.md": "---\nname: Broken Manifest\n---\nMissing description, bad name.\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	installFrom = ""
	installStrict = false
	installDryRun = false
	listInstalled = false
	listFrom = ""
	listJSON = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestInstallCommandAll(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll)
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	for _, rel := range []string{
		"agents/reviewer.md",
		"skills/writing-prose/SKILL.md",
		"skills/writing-prose/style.md",
		"commands/commit.md",
	} {
		path := filepath.Join(project, workspace.OpencodeDir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not installed: %v", rel, err)
		}
	}

	if !strings.Contains(out, "1 agent installed") {
		t.Errorf("missing agents summary in output:\n%s", out)
	}
	if strings.Contains(out, "1 agents installed") {
		t.Errorf("singular count rendered with a plural noun:\n%s", out)
	}
	if !strings.Contains(out, "2 skills installed") {
		t.Errorf("missing skills summary in output:\n%s", out)
	}
}

func TestInstallCommandSelective(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "skill:writing-prose")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(project, workspace.OpencodeDir, "skills", "writing-prose", "SKILL.md")); err != nil {
		t.Errorf("requested skill not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, workspace.OpencodeDir, "agents")); !os.IsNotExist(err) {
		t.Error("agents directory created for a skills-only install")
	}
}

func TestInstallCommandMalformedTokenDisablesInstallAll(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "writing-prose")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	if !strings.Contains(out, "unrecognized argument") {
		t.Errorf("missing malformed-token warning:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(project, workspace.OpencodeDir)); !os.IsNotExist(err) {
		t.Error("a malformed-only invocation must install nothing")
	}
}

func TestInstallCommandMissingNameWarnsButSucceeds(t *testing.T) {
	setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "agent:nonexistent")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "nonexistent") {
		t.Errorf("missing not-found warning:\n%s", out)
	}
}

func TestInstallCommandStrictFailsOnMissingName(t *testing.T) {
	setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "--strict", "agent:nonexistent")
	if err == nil {
		t.Fatalf("--strict should fail for a missing name\n%s", out)
	}
}

func TestInstallCommandDryRun(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "--dry-run", "command:commit")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if !strings.Contains(out, "would install command: commit") {
		t.Errorf("missing dry-run line:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(project, workspace.OpencodeDir)); !os.IsNotExist(err) {
		t.Error("dry run wrote to the project")
	}
}

func TestInstallCommandWarnsOnBadManifest(t *testing.T) {
	setupEnv(t)
	coll := writeCollection(t)

	out, err := runCLI(t, "install", "--from", coll, "skill:broken-manifest")
	if err != nil {
		t.Fatalf("a bad manifest must stay advisory: %v\n%s", err, out)
	}
	if !strings.Contains(out, "broken-manifest") {
		t.Errorf("missing manifest warning:\n%s", out)
	}
}

func TestInstallCommandReplacesSkillWholesale(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	stale := filepath.Join(project, workspace.OpencodeDir, "skills", "writing-prose", "old-notes.md")
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "install", "--from", coll, "skill:writing-prose")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived a skill reinstall")
	}
}

func TestUninstallCommand(t *testing.T) {
	project := setupEnv(t)
	coll := writeCollection(t)

	if out, err := runCLI(t, "install", "--from", coll, "agent:reviewer"); err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	out, err := runCLI(t, "uninstall", "agent:reviewer")
	if err != nil {
		t.Fatalf("uninstall: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(project, workspace.OpencodeDir, "agents", "reviewer.md")); !os.IsNotExist(err) {
		t.Error("agent survived uninstall")
	}
}
