// Package workspace resolves the project root and the .opencode destination
// directories that installs write into. Nothing in this package touches the
// network; it is pure path resolution over the local filesystem.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/occm-labs/occm/internal/branding"
)

// Directory name constants for the opencode convention.
const (
	OpencodeDir = ".opencode"
	AgentsDir   = "agents"
	SkillsDir   = "skills"
	CommandsDir = "commands"
)

// Permission constants.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// ProjectRoot resolves the directory whose .opencode/ tree installs target.
// It checks the OCCM_PROJECT environment variable first, then walks up from
// the working directory to the nearest directory containing .opencode/ or
// .git/, and finally falls back to the working directory itself.
func ProjectRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("PROJECT")); v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", branding.EnvVar("PROJECT"), err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}

	if root, ok := findUp(cwd); ok {
		return root, nil
	}
	return cwd, nil
}

// findUp walks from dir toward the filesystem root looking for a directory
// that contains .opencode/ or .git/.
func findUp(dir string) (string, bool) {
	for {
		for _, marker := range []string{OpencodeDir, ".git"} {
			info, err := os.Stat(filepath.Join(dir, marker))
			if err == nil && info.IsDir() {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DestDir returns the destination directory for a category subdirectory
// (agents, skills, commands) under the project's .opencode/ tree.
func DestDir(projectRoot, category string) string {
	return filepath.Join(projectRoot, OpencodeDir, category)
}

// EnsureDestDir creates the destination directory for a category if absent.
func EnsureDestDir(projectRoot, category string) (string, error) {
	dir := DestDir(projectRoot, category)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return "", fmt.Errorf("creating destination directory %s: %w", dir, err)
	}
	return dir, nil
}

// IsWritable reports whether the process can create files in dir. The check
// creates and removes a probe file; a missing dir counts as writable when its
// nearest existing parent is.
func IsWritable(dir string) bool {
	probe := dir
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return false
		}
		probe = parent
	}

	f, err := os.CreateTemp(probe, ".occm-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
