// Package collection obtains filesystem snapshots of a collection
// repository. The default path streams the repository's branch tarball from
// GitHub straight through gzip+tar into a per-process temporary directory;
// a local directory can stand in for the network fetch.
package collection

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/occm-labs/occm/internal/branding"
	"github.com/occm-labs/occm/internal/config"
)

// Repo returns the collection "owner/repo", checking (in order):
// 1. <PREFIX>_COLLECTION env var
// 2. config key "collection_repo"
// 3. branding default
func Repo() string {
	if v := os.Getenv(branding.EnvVar("COLLECTION")); v != "" {
		return v
	}
	if v := config.Get("collection_repo"); v != "" {
		return v
	}
	return branding.CollectionRepo()
}

// Ref returns the collection branch, with the same override chain as Repo.
func Ref() string {
	if v := os.Getenv(branding.EnvVar("COLLECTION_REF")); v != "" {
		return v
	}
	if v := config.Get("collection_ref"); v != "" {
		return v
	}
	return branding.CollectionRef()
}

// ArchiveURL returns the tarball endpoint for the configured repo and ref.
func ArchiveURL() string {
	return fmt.Sprintf("https://codeload.github.com/%s/tar.gz/refs/heads/%s", Repo(), Ref())
}

// Snapshot is an extracted collection tree. Close removes any temporary
// state; for local snapshots it is a no-op.
type Snapshot struct {
	// Root is the directory containing the agents/, skills/, and commands/
	// category directories.
	Root string

	tempDir string
}

// Close removes the snapshot's temporary directory, if any.
func (s *Snapshot) Close() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// LocalSnapshot wraps an existing directory as a snapshot without copying.
func LocalSnapshot(dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening local collection %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local collection %s is not a directory", dir)
	}
	return &Snapshot{Root: contentRoot(dir)}, nil
}

// contentRoot unwraps the single top-level directory GitHub archives place
// content under (<repo>-<ref>/). A tree with anything other than exactly one
// subdirectory and no files is its own root.
func contentRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}

	var only string
	for _, e := range entries {
		if !e.IsDir() {
			return dir
		}
		if only != "" {
			return dir
		}
		only = e.Name()
	}
	if only == "" {
		return dir
	}
	return filepath.Join(dir, only)
}
