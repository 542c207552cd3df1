// Package scaffold generates skeleton collection entries from embedded
// templates. It powers the "occm new" command, producing a SKILL.md bundle
// for skills and a frontmatter'd markdown file for agents and commands.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/occm-labs/occm/internal/manifest"
	"github.com/occm-labs/occm/internal/workspace"
)

//go:embed templates
var templatesFS embed.FS

// namePattern constrains entry names to the kebab-case the collection uses.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Data holds the template variables for a scaffolded entry.
type Data struct {
	Name        string
	Description string
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Path string // the created file
}

// New generates a skeleton entry of the given kind under the project's
// .opencode/ tree. Existing entries are never overwritten unless force is
// set.
func New(kind manifest.Kind, name, description, projectRoot string, force bool) (*Result, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid name %q: use lowercase letters, digits, and hyphens", name)
	}
	if description == "" {
		description = fmt.Sprintf("Describe what the %s %s does.", name, kind)
	}

	var tmplPath, outPath string
	switch kind {
	case manifest.KindSkill:
		tmplPath = "templates/skill.md.tmpl"
		outPath = filepath.Join(workspace.DestDir(projectRoot, workspace.SkillsDir), name, manifest.SkillFileName)
	case manifest.KindAgent:
		tmplPath = "templates/agent.md.tmpl"
		outPath = filepath.Join(workspace.DestDir(projectRoot, workspace.AgentsDir), name+".md")
	case manifest.KindCommand:
		tmplPath = "templates/command.md.tmpl"
		outPath = filepath.Join(workspace.DestDir(projectRoot, workspace.CommandsDir), name+".md")
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
		}
		// A skill is its whole directory, not just SKILL.md.
		if kind == manifest.KindSkill {
			if _, err := os.Stat(filepath.Dir(outPath)); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Dir(outPath))
			}
		}
	}

	tmplData, err := templatesFS.ReadFile(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(filepath.Base(tmplPath)).Parse(string(tmplData))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Data{Name: name, Description: description}); err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), workspace.DirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), workspace.FilePerm); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}

	return &Result{Path: outPath}, nil
}
