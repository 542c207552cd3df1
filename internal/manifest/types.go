package manifest

// Kind names the frontmatter shape being parsed or validated.
type Kind string

const (
	KindSkill   Kind = "skill"
	KindAgent   Kind = "agent"
	KindCommand Kind = "command"
)

// SkillFileName is the manifest file every skill directory carries.
const SkillFileName = "SKILL.md"

// SkillMeta is the frontmatter of a SKILL.md file.
type SkillMeta struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	License     string   `yaml:"license,omitempty" json:"license,omitempty"`
	Compatible  []string `yaml:"compatibility,omitempty" json:"compatibility,omitempty"`
}

// AgentMeta is the frontmatter of an agent markdown file.
type AgentMeta struct {
	Description string          `yaml:"description" json:"description"`
	Mode        string          `yaml:"mode,omitempty" json:"mode,omitempty"`
	Model       string          `yaml:"model,omitempty" json:"model,omitempty"`
	Temperature *float64        `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Tools       map[string]bool `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// CommandMeta is the frontmatter of a command markdown file.
type CommandMeta struct {
	Description string `yaml:"description" json:"description"`
	Agent       string `yaml:"agent,omitempty" json:"agent,omitempty"`
	Model       string `yaml:"model,omitempty" json:"model,omitempty"`
}
