// Package storage persists imported persona content (character cards,
// world info books, presets) as JSON documents with small index files,
// the way SillyTavern exports are managed on disk.
//
// Reads degrade gracefully: a missing or malformed file is treated as
// "not found" and is recreated on the next write, never surfaced as an
// error to the caller.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Store is a flat-file JSON store rooted at a single directory.
type Store struct {
	root string
}

// New opens a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

func (s *Store) subdir(name string) string {
	return filepath.Join(s.root, name)
}

// readJSON decodes a JSON file into v. Returns false when the file is
// missing or malformed.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// writeJSON writes v as indented JSON, creating parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating storage dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

var slugRE = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fff}]+`)

// NewID derives a stable identifier from a display name: a lowercase slug
// plus a short random suffix.
func NewID(name string) string {
	slug := strings.Trim(slugRE.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if runes := []rune(slug); len(runes) > 40 {
		slug = string(runes[:40])
	}
	if slug == "" {
		slug = "item"
	}
	return slug + "-" + uuid.NewString()[:8]
}
