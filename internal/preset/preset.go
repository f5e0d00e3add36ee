// Package preset parses SillyTavern generation presets: sampling
// parameters plus an ordered list of prompt entries, with macro
// substitution for persona templates.
package preset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PromptEntry is one preset prompt slot. Marker entries are placeholders
// in the original format and never render.
type PromptEntry struct {
	Identifier        string `json:"identifier"`
	Name              string `json:"name"`
	Enabled           bool   `json:"enabled"`
	Role              string `json:"role"`
	Content           string `json:"content"`
	InjectionPosition int    `json:"injection_position"`
	InjectionDepth    int    `json:"injection_depth"`
	InjectionOrder    int    `json:"injection_order"`
	SystemPrompt      bool   `json:"system_prompt"`
	Marker            bool   `json:"marker"`
}

// Preset holds sampling parameters and prompt entries.
type Preset struct {
	Temperature      float64       `json:"temperature"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	TopP             float64       `json:"top_p"`
	TopK             int           `json:"top_k"`
	Prompts          []PromptEntry `json:"prompts"`
}

type presetJSON struct {
	Temperature      *float64          `json:"temperature"`
	FrequencyPenalty float64           `json:"frequency_penalty"`
	PresencePenalty  float64           `json:"presence_penalty"`
	TopP             *float64          `json:"top_p"`
	TopK             int               `json:"top_k"`
	Prompts          []json.RawMessage `json:"prompts"`
	PromptOrder      []json.RawMessage `json:"prompt_order"`
}

type promptEntryJSON struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Enabled    *bool  `json:"enabled"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	Marker     bool   `json:"marker"`

	InjectionPosition      *int `json:"injection_position"`
	InjectionPositionCamel *int `json:"injectionPosition"`
	InjectionDepth         *int `json:"injection_depth"`
	InjectionDepthCamel    *int `json:"injectionDepth"`
	InjectionOrder         *int `json:"injection_order"`
	Order                  *int `json:"order"`

	SystemPrompt      *bool `json:"system_prompt"`
	SystemPromptCamel *bool `json:"systemPrompt"`
}

// Parse decodes a preset JSON document. Prompt entries may live under
// "prompts" or "prompt_order", with camelCase or snake_case injection
// fields.
func Parse(data []byte) (*Preset, error) {
	var pj presetJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	raws := pj.Prompts
	if len(raws) == 0 {
		raws = pj.PromptOrder
	}

	var prompts []PromptEntry
	for _, raw := range raws {
		var ej promptEntryJSON
		if err := json.Unmarshal(raw, &ej); err != nil {
			continue
		}
		prompts = append(prompts, buildPromptEntry(ej))
	}

	preset := &Preset{
		Temperature:      floatOr(pj.Temperature, 1.0),
		FrequencyPenalty: pj.FrequencyPenalty,
		PresencePenalty:  pj.PresencePenalty,
		TopP:             floatOr(pj.TopP, 1.0),
		TopK:             pj.TopK,
		Prompts:          prompts,
	}
	return preset, nil
}

func buildPromptEntry(ej promptEntryJSON) PromptEntry {
	name := ej.Name
	if name == "" {
		name = ej.Identifier
	}
	role := ej.Role
	if role == "" {
		role = "system"
	}
	enabled := true
	if ej.Enabled != nil {
		enabled = *ej.Enabled
	}
	return PromptEntry{
		Identifier:        ej.Identifier,
		Name:              name,
		Enabled:           enabled,
		Role:              role,
		Content:           ej.Content,
		InjectionPosition: intCoalesce(0, ej.InjectionPosition, ej.InjectionPositionCamel),
		InjectionDepth:    intCoalesce(4, ej.InjectionDepth, ej.InjectionDepthCamel),
		InjectionOrder:    intCoalesce(100, ej.InjectionOrder, ej.Order),
		SystemPrompt:      boolCoalesce(false, ej.SystemPrompt, ej.SystemPromptCamel),
		Marker:            ej.Marker,
	}
}

// EnabledPrompts returns the entries that render: enabled, not a marker,
// with non-blank content.
func (p *Preset) EnabledPrompts() []PromptEntry {
	var out []PromptEntry
	for _, entry := range p.Prompts {
		if entry.Enabled && !entry.Marker && strings.TrimSpace(entry.Content) != "" {
			out = append(out, entry)
		}
	}
	return out
}

// BuildPrompt joins prompt entries into one block, sorted by injection
// order. When position is non-nil only entries at that injection position
// are included.
func BuildPrompt(prompts []PromptEntry, position *int) string {
	filtered := make([]PromptEntry, 0, len(prompts))
	for _, p := range prompts {
		if position != nil && p.InjectionPosition != *position {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].InjectionOrder < filtered[j].InjectionOrder
	})

	var parts []string
	for _, p := range filtered {
		if c := strings.TrimSpace(p.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Summarize returns a short human-readable description of a preset.
func (p *Preset) Summarize() string {
	return fmt.Sprintf("%d prompts (%d enabled), temp=%g", len(p.Prompts), len(p.EnabledPrompts()), p.Temperature)
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func intCoalesce(def int, ps ...*int) int {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return def
}

func boolCoalesce(def bool, ps ...*bool) bool {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return def
}
