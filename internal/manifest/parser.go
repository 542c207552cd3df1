package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ErrNoFrontmatter is returned when a file has no leading frontmatter block.
var ErrNoFrontmatter = errors.New("no frontmatter block")

var frontmatterDelim = []byte("---")

// ExtractFrontmatter returns the YAML between the leading "---" fence pair.
func ExtractFrontmatter(data []byte) ([]byte, error) {
	rest, ok := bytes.CutPrefix(data, frontmatterDelim)
	if !ok {
		return nil, ErrNoFrontmatter
	}
	rest, ok = bytes.CutPrefix(rest, []byte("\n"))
	if !ok {
		// Tolerate CRLF files.
		rest, ok = bytes.CutPrefix(rest, []byte("\r\n"))
		if !ok {
			return nil, ErrNoFrontmatter
		}
	}

	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelim...))
	if end < 0 {
		return nil, ErrNoFrontmatter
	}
	return rest[:end], nil
}

// ParseSkillDir reads and parses SKILL.md frontmatter from a skill directory.
func ParseSkillDir(dir string) (*SkillMeta, error) {
	return parseAs[SkillMeta](filepath.Join(dir, SkillFileName))
}

// ParseAgent reads and parses an agent file's frontmatter.
func ParseAgent(path string) (*AgentMeta, error) {
	return parseAs[AgentMeta](path)
}

// ParseCommand reads and parses a command file's frontmatter.
func ParseCommand(path string) (*CommandMeta, error) {
	return parseAs[CommandMeta](path)
}

func parseAs[T any](path string) (*T, error) {
	fm, err := frontmatterOf(path)
	if err != nil {
		return nil, err
	}

	var meta T
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter of %s: %w", path, err)
	}
	return &meta, nil
}

func frontmatterOf(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fm, err := ExtractFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fm, nil
}
