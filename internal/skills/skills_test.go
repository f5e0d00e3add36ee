package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, workspace, name, content string) {
	t.Helper()
	dir := filepath.Join(workspace, "skills", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListParsesFrontmatter(t *testing.T) {
	ws := t.TempDir()
	writeSkill(t, ws, "weather", `---
name: weather
description: Fetch weather reports
always: true
requires:
  - curl
---
Use the wttr.in API.`)

	skills := NewLoader(ws).List()
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	s := skills[0]
	if s.Name != "weather" || s.Description != "Fetch weather reports" {
		t.Errorf("unexpected metadata: %+v", s)
	}
	if !s.Always {
		t.Errorf("expected always=true")
	}
	if len(s.Requires) != 1 || s.Requires[0] != "curl" {
		t.Errorf("unexpected requires: %v", s.Requires)
	}
	if s.Content != "Use the wttr.in API." {
		t.Errorf("unexpected content: %q", s.Content)
	}
}

func TestListWithoutFrontmatter(t *testing.T) {
	ws := t.TempDir()
	writeSkill(t, ws, "notes", "Just a body, no metadata.")

	skills := NewLoader(ws).List()
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Name != "notes" {
		t.Errorf("expected directory name fallback, got %q", skills[0].Name)
	}
	if skills[0].Content != "Just a body, no metadata." {
		t.Errorf("unexpected content: %q", skills[0].Content)
	}
}

func TestInvalidFrontmatterDegrades(t *testing.T) {
	ws := t.TempDir()
	writeSkill(t, ws, "broken", "---\n: [not yaml\n---\nbody")

	skills := NewLoader(ws).List()
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Name != "broken" {
		t.Errorf("expected directory name, got %q", skills[0].Name)
	}
	// raw content kept when the frontmatter cannot be parsed
	if !strings.Contains(skills[0].Content, "body") {
		t.Errorf("expected body retained, got %q", skills[0].Content)
	}
}

func TestMissingDirectory(t *testing.T) {
	if got := NewLoader(t.TempDir()).List(); len(got) != 0 {
		t.Errorf("expected no skills, got %d", len(got))
	}
}

func TestAlwaysSkills(t *testing.T) {
	ws := t.TempDir()
	writeSkill(t, ws, "a", "---\nalways: true\n---\nA")
	writeSkill(t, ws, "b", "---\nalways: false\n---\nB")
	writeSkill(t, ws, "c", "C")

	always := NewLoader(ws).AlwaysSkills()
	if len(always) != 1 || always[0].Name != "a" {
		t.Fatalf("expected only skill a, got %+v", always)
	}
}

func TestListSortedByName(t *testing.T) {
	ws := t.TempDir()
	writeSkill(t, ws, "zeta", "Z")
	writeSkill(t, ws, "alpha", "A")

	skills := NewLoader(ws).List()
	if len(skills) != 2 || skills[0].Name != "alpha" || skills[1].Name != "zeta" {
		t.Fatalf("expected sorted skills, got %+v", skills)
	}
}

func TestSummaryAndRender(t *testing.T) {
	skills := []Skill{
		{Name: "weather", Description: "Fetch weather", Requires: []string{"curl"}, Content: "Call the API."},
		{Name: "notes", Content: "Keep notes."},
	}

	sum := Summary(skills)
	if !strings.Contains(sum, "**weather**: Fetch weather (requires: curl)") {
		t.Errorf("unexpected summary: %q", sum)
	}
	if !strings.Contains(sum, "**notes**") {
		t.Errorf("summary missing notes: %q", sum)
	}

	rendered := Render(skills)
	if !strings.Contains(rendered, "### weather\nCall the API.") {
		t.Errorf("unexpected render: %q", rendered)
	}

	if Summary(nil) != "" {
		t.Errorf("expected empty summary for no skills")
	}
}
