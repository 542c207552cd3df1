package installer

import (
	"github.com/occm-labs/occm/internal/workspace"
)

// Category identifies one of the three installable entry kinds. Its string
// value doubles as the directory name used in both the collection snapshot
// and the .opencode/ destination tree.
type Category string

const (
	// Agents are flat markdown files defining named assistant configurations.
	Agents Category = workspace.AgentsDir
	// Skills are directory bundles copied atomically.
	Skills Category = workspace.SkillsDir
	// Commands are flat markdown files defining custom slash-commands.
	Commands Category = workspace.CommandsDir
)

// Categories lists all categories in install order.
var Categories = []Category{Agents, Skills, Commands}

// Singular returns the token prefix and display noun for the category.
func (c Category) Singular() string {
	switch c {
	case Agents:
		return "agent"
	case Skills:
		return "skill"
	case Commands:
		return "command"
	default:
		return string(c)
	}
}

// IsDirectory reports whether entries of this category are directories
// (skills) rather than flat files (agents, commands).
func (c Category) IsDirectory() bool {
	return c == Skills
}
