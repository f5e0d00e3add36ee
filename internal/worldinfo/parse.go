package worldinfo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Parse decodes a world info JSON document. Both SillyTavern layouts are
// accepted: entries as an object keyed by stringified integers, or entries
// as an array. Entry fields may use either camelCase or snake_case names,
// and key lists may be JSON arrays or comma-separated strings.
func Parse(data []byte) (*Book, error) {
	var doc struct {
		Entries json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(doc.Entries) == 0 || string(doc.Entries) == "null" {
		return nil, fmt.Errorf("world info has no entries field")
	}

	// Object layout: { "entries": { "0": {...}, "1": {...} } }
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(doc.Entries, &asMap); err == nil {
		return parseEntryMap(asMap)
	}

	// Array layout: { "entries": [{...}, {...}] }
	var asList []json.RawMessage
	if err := json.Unmarshal(doc.Entries, &asList); err == nil {
		book := &Book{}
		for i, raw := range asList {
			e, ok := parseEntry(raw, i)
			if !ok {
				continue
			}
			book.Entries = append(book.Entries, e)
		}
		return book, nil
	}

	return nil, fmt.Errorf("world info entries are neither an object nor an array")
}

// parseEntryMap decodes the object layout. Map iteration order is not
// stable, so keys are sorted numerically (lexically for non-numeric keys)
// to recover the export order before assigning UIDs.
func parseEntryMap(raw map[string]json.RawMessage) (*Book, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	book := &Book{}
	for i, k := range keys {
		e, ok := parseEntry(raw[k], i)
		if !ok {
			continue
		}
		book.Entries = append(book.Entries, e)
	}
	return book, nil
}

// entryJSON accepts both naming conventions found in exported books. The
// canonical Entry never carries this ambiguity.
type entryJSON struct {
	UID          *int            `json:"uid"`
	Key          json.RawMessage `json:"key"`
	KeySecondary json.RawMessage `json:"keysecondary"`
	Comment      string          `json:"comment"`
	Content      string          `json:"content"`
	Constant     bool            `json:"constant"`
	Selective    bool            `json:"selective"`
	Disable      bool            `json:"disable"`

	SelectiveLogic      *int `json:"selectiveLogic"`
	SelectiveLogicSnake *int `json:"selective_logic"`

	Probability         *int  `json:"probability"`
	UseProbability      *bool `json:"useProbability"`
	UseProbabilitySnake *bool `json:"use_probability"`

	Order    *int `json:"order"`
	Position *int `json:"position"`
	Depth    *int `json:"depth"`

	CaseSensitive      *bool `json:"caseSensitive"`
	CaseSensitiveSnake *bool `json:"case_sensitive"`

	MatchWholeWords      *bool `json:"matchWholeWords"`
	MatchWholeWordsSnake *bool `json:"match_whole_words"`
}

func parseEntry(raw json.RawMessage, index int) (Entry, bool) {
	var ej entryJSON
	if err := json.Unmarshal(raw, &ej); err != nil {
		return Entry{}, false
	}
	e := Entry{
		UID:             intOr(ej.UID, index),
		Keys:            coerceStrings(ej.Key),
		SecondaryKeys:   coerceStrings(ej.KeySecondary),
		Comment:         ej.Comment,
		Content:         ej.Content,
		Constant:        ej.Constant,
		Selective:       ej.Selective,
		SelectiveLogic:  SelectiveLogic(intOr(firstInt(ej.SelectiveLogic, ej.SelectiveLogicSnake), 0)),
		Disabled:        ej.Disable,
		Probability:     intOr(ej.Probability, 100),
		UseProbability:  boolOr(firstBool(ej.UseProbability, ej.UseProbabilitySnake), false),
		Order:           intOr(ej.Order, 100),
		Position:        intOr(ej.Position, 0),
		Depth:           intOr(ej.Depth, 4),
		CaseSensitive:   boolOr(firstBool(ej.CaseSensitive, ej.CaseSensitiveSnake), false),
		MatchWholeWords: boolOr(firstBool(ej.MatchWholeWords, ej.MatchWholeWordsSnake), false),
	}
	return e, true
}

// coerceStrings accepts a JSON array of values or a single comma-separated
// string, returning trimmed non-empty strings.
func coerceStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []string
		for _, v := range list {
			s := strings.TrimSpace(fmt.Sprint(v))
			if s != "" && v != nil {
				out = append(out, s)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		var out []string
		for _, part := range strings.Split(single, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	return nil
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func firstInt(ps ...*int) *int {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}

func firstBool(ps ...*bool) *bool {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}
