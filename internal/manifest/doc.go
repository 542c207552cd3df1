// Package manifest parses and validates the YAML frontmatter carried by
// collection entries: SKILL.md inside skill directories, and the agent and
// command markdown files themselves. Validation is advisory: installs never
// fail on a bad manifest, they warn.
package manifest
