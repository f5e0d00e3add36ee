// Package skills loads workspace skills: directories containing a
// SKILL.md file with optional YAML frontmatter describing the skill.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one loaded workspace skill.
type Skill struct {
	Name        string
	Description string
	Always      bool     // include full content in every prompt
	Requires    []string // external dependencies the skill needs
	Content     string   // SKILL.md body without frontmatter
	Path        string
}

type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Always      bool     `yaml:"always"`
	Requires    []string `yaml:"requires"`
}

// Loader reads skills from a workspace's skills directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for workspace/skills.
func NewLoader(workspace string) *Loader {
	return &Loader{dir: filepath.Join(workspace, "skills")}
}

// List returns every readable skill, sorted by name. A missing skills
// directory yields an empty list.
func (l *Loader) List() []Skill {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}

	var skills []Skill
	for _, dir := range entries {
		if !dir.IsDir() {
			continue
		}
		path := filepath.Join(l.dir, dir.Name(), "SKILL.md")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		skill := parseSkill(dir.Name(), path, string(data))
		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills
}

// AlwaysSkills returns the skills flagged for inclusion in every prompt.
func (l *Loader) AlwaysSkills() []Skill {
	var out []Skill
	for _, s := range l.List() {
		if s.Always {
			out = append(out, s)
		}
	}
	return out
}

// parseSkill splits optional YAML frontmatter from the body. Invalid
// frontmatter degrades to the directory name with no description.
func parseSkill(dirName, path, raw string) Skill {
	skill := Skill{Name: dirName, Path: path, Content: strings.TrimSpace(raw)}

	rest, ok := strings.CutPrefix(raw, "---\n")
	if !ok {
		return skill
	}
	meta, body, ok := strings.Cut(rest, "\n---")
	if !ok {
		return skill
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return skill
	}
	if fm.Name != "" {
		skill.Name = fm.Name
	}
	skill.Description = fm.Description
	skill.Always = fm.Always
	skill.Requires = fm.Requires
	skill.Content = strings.TrimSpace(strings.TrimPrefix(body, "\n"))
	return skill
}

// Summary renders one line per skill for the available-skills prompt
// block. Empty when no skills exist.
func Summary(skills []Skill) string {
	if len(skills) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range skills {
		fmt.Fprintf(&b, "- **%s**", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, ": %s", s.Description)
		}
		if len(s.Requires) > 0 {
			fmt.Fprintf(&b, " (requires: %s)", strings.Join(s.Requires, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Render joins full skill contents for the active-skills prompt block.
func Render(skills []Skill) string {
	var parts []string
	for _, s := range skills {
		if s.Content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("### %s\n%s", s.Name, s.Content))
	}
	return strings.Join(parts, "\n\n")
}
