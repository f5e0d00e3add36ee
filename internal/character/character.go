// Package character parses SillyTavern character cards (V1/V2/V3 JSON) and
// renders them as markdown prompt blocks.
package character

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BookEntry is an embedded character-book lore entry.
type BookEntry struct {
	Keys           []string `json:"keys"`
	Content        string   `json:"content"`
	Enabled        bool     `json:"enabled"`
	InsertionOrder int      `json:"insertion_order"`
	Name           string   `json:"name"`
}

// Card is the canonical character record, independent of which card spec
// it was imported from.
type Card struct {
	Name                    string      `json:"name"`
	Description             string      `json:"description"`
	Personality             string      `json:"personality"`
	Scenario                string      `json:"scenario"`
	FirstMessage            string      `json:"first_mes"`
	ExampleDialogue         string      `json:"mes_example"`
	CreatorNotes            string      `json:"creator_notes"`
	SystemPrompt            string      `json:"system_prompt"`
	PostHistoryInstructions string      `json:"post_history_instructions"`
	AlternateGreetings      []string    `json:"alternate_greetings,omitempty"`
	Tags                    []string    `json:"tags,omitempty"`
	Creator                 string      `json:"creator"`
	Version                 string      `json:"character_version"`
	Book                    []BookEntry `json:"character_book,omitempty"`
}

// cardFile covers the three on-disk shapes: V2/V3 (spec + data), legacy
// (data without spec), and flat V1 (the object itself is the card).
type cardFile struct {
	Spec string    `json:"spec"`
	Data *cardJSON `json:"data"`
	cardJSON
}

type cardJSON struct {
	Name                    string          `json:"name"`
	Description             string          `json:"description"`
	Personality             string          `json:"personality"`
	Scenario                string          `json:"scenario"`
	FirstMessage            string          `json:"first_mes"`
	ExampleDialogue         string          `json:"mes_example"`
	CreatorNotes            string          `json:"creator_notes"`
	SystemPrompt            string          `json:"system_prompt"`
	PostHistoryInstructions string          `json:"post_history_instructions"`
	AlternateGreetings      []string        `json:"alternate_greetings"`
	Tags                    []string        `json:"tags"`
	Creator                 string          `json:"creator"`
	Version                 string          `json:"character_version"`
	CharacterBook           json.RawMessage `json:"character_book"`
}

// Parse decodes a character card document. It returns the card and the
// spec it was recognized as ("chara_card_v2" for legacy and flat cards).
func Parse(data []byte) (*Card, string, error) {
	var file cardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("invalid JSON: %w", err)
	}

	// V2/V3: spec plus nested data.
	if (file.Spec == "chara_card_v2" || file.Spec == "chara_card_v3") && file.Data != nil {
		card, err := buildCard(file.Data)
		if err != nil {
			return nil, file.Spec, err
		}
		return card, file.Spec, nil
	}

	// Legacy: nested data without a recognized spec.
	if file.Data != nil {
		if card, err := buildCard(file.Data); err == nil {
			return card, "chara_card_v2", nil
		}
	}

	// Flat V1: the top-level object is the card.
	if strings.TrimSpace(file.cardJSON.Name) != "" {
		card, err := buildCard(&file.cardJSON)
		if err != nil {
			return nil, "", err
		}
		return card, "chara_card_v2", nil
	}

	return nil, "", fmt.Errorf("unknown character card format, expected chara_card_v2 or chara_card_v3")
}

func buildCard(cj *cardJSON) (*Card, error) {
	name := strings.TrimSpace(cj.Name)
	if name == "" {
		return nil, fmt.Errorf("character name is required")
	}
	return &Card{
		Name:                    name,
		Description:             cj.Description,
		Personality:             cj.Personality,
		Scenario:                cj.Scenario,
		FirstMessage:            cj.FirstMessage,
		ExampleDialogue:         cj.ExampleDialogue,
		CreatorNotes:            cj.CreatorNotes,
		SystemPrompt:            cj.SystemPrompt,
		PostHistoryInstructions: cj.PostHistoryInstructions,
		AlternateGreetings:      cj.AlternateGreetings,
		Tags:                    cj.Tags,
		Creator:                 cj.Creator,
		Version:                 cj.Version,
		Book:                    parseBook(cj.CharacterBook),
	}, nil
}

// parseBook decodes an optional embedded character book. Malformed books
// are dropped rather than failing the card.
func parseBook(raw json.RawMessage) []BookEntry {
	if len(raw) == 0 {
		return nil
	}
	var book struct {
		Entries []struct {
			Keys           []string `json:"keys"`
			Content        string   `json:"content"`
			Enabled        *bool    `json:"enabled"`
			InsertionOrder int      `json:"insertion_order"`
			Name           string   `json:"name"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil
	}
	var entries []BookEntry
	for _, e := range book.Entries {
		enabled := true
		if e.Enabled != nil {
			enabled = *e.Enabled
		}
		entries = append(entries, BookEntry{
			Keys:           e.Keys,
			Content:        e.Content,
			Enabled:        enabled,
			InsertionOrder: e.InsertionOrder,
			Name:           e.Name,
		})
	}
	return entries
}

// PromptOptions select which card sections render. The zero value renders
// everything except post-history instructions.
type PromptOptions struct {
	IncludePostHistory bool
}

// BuildPrompt renders a card as a markdown persona block.
func BuildPrompt(card *Card, opts PromptOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Character: %s", card.Name)

	section := func(title, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		fmt.Fprintf(&b, "\n\n## %s\n%s", title, strings.TrimSpace(content))
	}

	section("System Instructions", card.SystemPrompt)
	section("Description", card.Description)
	section("Personality", card.Personality)
	section("Scenario", card.Scenario)
	section("Example Dialogue", card.ExampleDialogue)
	if opts.IncludePostHistory {
		section("Additional Instructions", card.PostHistoryInstructions)
	}

	return b.String()
}
