package installer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ignoredNames are entries never surfaced or copied from a snapshot.
var ignoredNames = map[string]bool{
	".git":         true,
	".github":      true,
	".DS_Store":    true,
	"node_modules": true,
}

// Entry is one installable item found under a category directory.
type Entry struct {
	Category Category
	Name     string // match key: file base name minus extension, or directory name
	Path     string // absolute path within the snapshot (or installed tree)
	IsDir    bool
}

// Discover enumerates the immediate children of root's category directory.
// A missing category directory yields no entries and no error; collections
// are not required to ship all three categories.
//
// For file categories (agents, commands) only regular files are returned and
// the match key strips the extension. For skills only directories are
// returned and the key is the directory name.
func Discover(root string, c Category) ([]Entry, error) {
	dir := filepath.Join(root, string(c))
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, de := range dirEntries {
		if ignoredNames[de.Name()] || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		if de.IsDir() != c.IsDirectory() {
			continue
		}

		name := de.Name()
		if !c.IsDirectory() {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}

		entries = append(entries, Entry{
			Category: c,
			Name:     name,
			Path:     filepath.Join(dir, de.Name()),
			IsDir:    de.IsDir(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// DiscoverAll enumerates every category under root.
func DiscoverAll(root string) (map[Category][]Entry, error) {
	all := make(map[Category][]Entry, len(Categories))
	for _, c := range Categories {
		entries, err := Discover(root, c)
		if err != nil {
			return nil, err
		}
		all[c] = entries
	}
	return all, nil
}
