package preset

import (
	"strings"
	"testing"
	"time"
)

func TestParsePreset(t *testing.T) {
	data := []byte(`{
		"temperature": 0.7,
		"top_p": 0.9,
		"top_k": 40,
		"prompts": [
			{"identifier": "main", "content": "Main instructions", "injection_order": 10},
			{"identifier": "jailbreak", "content": "Extra", "enabled": false},
			{"identifier": "chat_history", "marker": true}
		]
	}`)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Temperature != 0.7 || p.TopP != 0.9 || p.TopK != 40 {
		t.Errorf("sampling params not parsed: %+v", p)
	}
	if len(p.Prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(p.Prompts))
	}
	if p.Prompts[0].Name != "main" {
		t.Errorf("name should fall back to identifier, got %q", p.Prompts[0].Name)
	}
	if p.Prompts[0].Role != "system" {
		t.Errorf("role should default to system, got %q", p.Prompts[0].Role)
	}
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Temperature != 1.0 || p.TopP != 1.0 {
		t.Errorf("expected temperature/top_p defaults of 1.0, got %+v", p)
	}
}

func TestParsePromptOrderFallback(t *testing.T) {
	data := []byte(`{"prompt_order": [{"identifier": "alt", "content": "hi"}]}`)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Prompts) != 1 || p.Prompts[0].Identifier != "alt" {
		t.Errorf("prompt_order not honored: %+v", p.Prompts)
	}
}

func TestEnabledPrompts(t *testing.T) {
	p := &Preset{Prompts: []PromptEntry{
		{Identifier: "a", Enabled: true, Content: "keep"},
		{Identifier: "b", Enabled: false, Content: "disabled"},
		{Identifier: "c", Enabled: true, Marker: true, Content: "marker"},
		{Identifier: "d", Enabled: true, Content: "   "},
	}}
	got := p.EnabledPrompts()
	if len(got) != 1 || got[0].Identifier != "a" {
		t.Errorf("expected only entry a, got %+v", got)
	}
}

func TestBuildPromptSortsByInjectionOrder(t *testing.T) {
	prompts := []PromptEntry{
		{Content: "second", InjectionOrder: 20},
		{Content: "first", InjectionOrder: 10},
	}
	got := BuildPrompt(prompts, nil)
	want := "first\n\nsecond"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuildPromptPositionFilter(t *testing.T) {
	prompts := []PromptEntry{
		{Content: "top", InjectionPosition: 0},
		{Content: "deep", InjectionPosition: 1},
	}
	pos := 1
	got := BuildPrompt(prompts, &pos)
	if got != "deep" {
		t.Errorf("expected only position-1 entries, got %q", got)
	}
}

// --- Macros ---

func TestApplyMacrosUserAndChar(t *testing.T) {
	m := DefaultMacros()
	m.User = "Chris"
	m.Char = "Aria"
	got := ApplyMacros("{{char}} greets {{user}}.", m)
	if got != "Aria greets Chris." {
		t.Errorf("expected substitution, got %q", got)
	}
}

func TestApplyMacrosDate(t *testing.T) {
	got := ApplyMacros("Today is {{date}}.", DefaultMacros())
	want := "Today is " + time.Now().Format("2006-01-02") + "."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestApplyMacrosCustomVariables(t *testing.T) {
	m := DefaultMacros()
	m.Custom = map[string]string{"realm": "Highmoor"}
	got := ApplyMacros("Welcome to {{realm}}.", m)
	if got != "Welcome to Highmoor." {
		t.Errorf("custom variable not substituted: %q", got)
	}
}

func TestApplyMacrosLeavesUnknown(t *testing.T) {
	got := ApplyMacros("{{mystery}} remains.", DefaultMacros())
	if got != "{{mystery}} remains." {
		t.Errorf("unknown macro should be untouched, got %q", got)
	}
}

func TestApplyMacrosRoll(t *testing.T) {
	got := ApplyMacros("{{roll}}", DefaultMacros())
	if !strings.ContainsAny(got, "0123456789") || strings.Contains(got, "{{") {
		t.Errorf("expected a numeric roll, got %q", got)
	}
}

func TestLayoutFor(t *testing.T) {
	if got := layoutFor("YYYY-MM-DD"); got != "2006-01-02" {
		t.Errorf("expected 2006-01-02, got %q", got)
	}
	if got := layoutFor("HH:mm"); got != "15:04" {
		t.Errorf("expected 15:04, got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	p := &Preset{Temperature: 0.5, Prompts: []PromptEntry{
		{Enabled: true, Content: "x"},
		{Enabled: false, Content: "y"},
	}}
	got := p.Summarize()
	want := "2 prompts (1 enabled), temp=0.5"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
