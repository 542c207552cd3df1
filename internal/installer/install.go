package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/occm-labs/occm/internal/workspace"
)

// ProgressFunc is called once per entry as it is copied or removed.
// err is non-nil when the operation on that entry failed.
type ProgressFunc func(c Category, name string, err error)

// Options tunes an install run.
type Options struct {
	// DryRun reports what would be copied without writing anything.
	DryRun bool
	// Progress receives one callback per processed entry. May be nil.
	Progress ProgressFunc
}

// Result summarizes an install or uninstall run.
type Result struct {
	Copied  map[Category][]string // entries actually copied (or removed)
	Missing map[Category][]string // requested names with no matching entry
	Dests   map[Category]string   // absolute destination dir per in-scope category
	Errors  int                   // per-entry copy failures
}

// Scope returns the in-scope categories, in install order.
func (r *Result) Scope() []Category {
	var scope []Category
	for _, c := range Categories {
		if _, ok := r.Dests[c]; ok {
			scope = append(scope, c)
		}
	}
	return scope
}

// Unmatched reports whether any requested name matched nothing.
func (r *Result) Unmatched() bool {
	for _, c := range Categories {
		if len(r.Missing[c]) > 0 {
			return true
		}
	}
	return false
}

func newResult() *Result {
	return &Result{
		Copied:  make(map[Category][]string),
		Missing: make(map[Category][]string),
		Dests:   make(map[Category]string),
	}
}

// Install copies matching entries from the snapshot root into the project's
// .opencode/ tree. Each category runs independently: install-all copies every
// entry, selective mode copies exact key matches only. Per-entry copy
// failures are counted and reported through Progress but do not abort the
// remaining entries.
func Install(snapshotRoot, projectRoot string, sel Selection, opts Options) (*Result, error) {
	result := newResult()

	for _, c := range Categories {
		if !sel.InScope(c) {
			continue
		}

		entries, err := Discover(snapshotRoot, c)
		if err != nil {
			return nil, fmt.Errorf("reading %s from snapshot: %w", c, err)
		}

		dest := workspace.DestDir(projectRoot, string(c))
		if !opts.DryRun {
			if dest, err = workspace.EnsureDestDir(projectRoot, string(c)); err != nil {
				return nil, err
			}
		}
		result.Dests[c] = dest

		matched := make(map[string]bool)
		for _, entry := range entries {
			if !sel.Wants(c, entry.Name) {
				continue
			}
			matched[entry.Name] = true

			if opts.DryRun {
				result.Copied[c] = append(result.Copied[c], entry.Name)
				if opts.Progress != nil {
					opts.Progress(c, entry.Name, nil)
				}
				continue
			}

			err := copyEntry(entry, dest)
			if opts.Progress != nil {
				opts.Progress(c, entry.Name, err)
			}
			if err != nil {
				result.Errors++
				continue
			}
			result.Copied[c] = append(result.Copied[c], entry.Name)
		}

		// Selected names that matched no snapshot entry.
		for _, name := range sel.Names(c) {
			if !matched[name] {
				result.Missing[c] = append(result.Missing[c], name)
			}
		}
	}

	return result, nil
}

// copyEntry writes one entry into dest. Skills replace the destination
// directory wholesale so stale files from a previous version never survive;
// agent and command files keep their original file name (extension included)
// and are truncate-overwritten.
func copyEntry(entry Entry, dest string) error {
	target := filepath.Join(dest, filepath.Base(entry.Path))

	if entry.IsDir {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("removing previous %s: %w", target, err)
		}
		return copyDir(entry.Path, target)
	}
	return copyFile(entry.Path, target)
}

// Uninstall removes matching entries from the project's .opencode/ tree using
// the same selection grammar as Install. Install-all mode is rejected here;
// callers must name what to remove.
func Uninstall(projectRoot string, sel Selection, opts Options) (*Result, error) {
	if sel.All {
		return nil, fmt.Errorf("uninstall requires explicit selections")
	}

	result := newResult()

	for _, c := range Categories {
		if !sel.InScope(c) {
			continue
		}

		dest := workspace.DestDir(projectRoot, string(c))
		result.Dests[c] = dest

		entries, err := Discover(filepath.Join(projectRoot, workspace.OpencodeDir), c)
		if err != nil {
			return nil, fmt.Errorf("reading installed %s: %w", c, err)
		}

		byName := make(map[string]Entry, len(entries))
		for _, e := range entries {
			byName[e.Name] = e
		}

		for _, name := range sel.Names(c) {
			entry, ok := byName[name]
			if !ok {
				result.Missing[c] = append(result.Missing[c], name)
				continue
			}

			err := os.RemoveAll(entry.Path)
			if opts.Progress != nil {
				opts.Progress(c, name, err)
			}
			if err != nil {
				result.Errors++
				continue
			}
			result.Copied[c] = append(result.Copied[c], name)
		}
	}

	return result, nil
}

// copyDir recursively copies src to dst, skipping ignored names, symlinks,
// and other special files.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if ignoredNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode().Perm())
}
