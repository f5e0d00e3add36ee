package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris/lorekeeper/internal/character"
)

// StoredCharacter wraps a parsed card with import metadata.
type StoredCharacter struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Spec       string         `json:"spec"`
	ImportedAt time.Time      `json:"imported_at"`
	SourcePath string         `json:"source_path,omitempty"`
	Data       character.Card `json:"data"`
}

// CharacterRef is an index row for a stored character.
type CharacterRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImportedAt time.Time `json:"imported_at"`
}

type characterIndex struct {
	Version int            `json:"version"`
	Entries []CharacterRef `json:"entries"`
	Active  string         `json:"active"`
}

func (s *Store) charDir() string       { return s.subdir("characters") }
func (s *Store) charIndexPath() string { return filepath.Join(s.charDir(), "characters.json") }
func (s *Store) charPath(id string) string {
	return filepath.Join(s.charDir(), id+".json")
}

func (s *Store) loadCharIndex() characterIndex {
	idx := characterIndex{Version: 1}
	readJSON(s.charIndexPath(), &idx)
	return idx
}

// ImportCharacter stores a card and registers it in the index, replacing
// any previous import with the same name.
func (s *Store) ImportCharacter(card StoredCharacter) error {
	if err := writeJSON(s.charPath(card.ID), card); err != nil {
		return err
	}
	idx := s.loadCharIndex()
	kept := idx.Entries[:0:0]
	for _, ref := range idx.Entries {
		if ref.Name != card.Name {
			kept = append(kept, ref)
		}
	}
	idx.Entries = append(kept, CharacterRef{ID: card.ID, Name: card.Name, ImportedAt: card.ImportedAt})
	return writeJSON(s.charIndexPath(), idx)
}

// ListCharacters returns the character index rows.
func (s *Store) ListCharacters() []CharacterRef {
	return s.loadCharIndex().Entries
}

// GetCharacter loads a stored character by ID, nil when absent or
// unreadable.
func (s *Store) GetCharacter(id string) *StoredCharacter {
	var card StoredCharacter
	if !readJSON(s.charPath(id), &card) {
		return nil
	}
	return &card
}

// GetCharacterByName finds a character by display name, case-insensitive.
func (s *Store) GetCharacterByName(name string) *StoredCharacter {
	for _, ref := range s.loadCharIndex().Entries {
		if strings.EqualFold(ref.Name, name) {
			return s.GetCharacter(ref.ID)
		}
	}
	return nil
}

// ActivateCharacter marks a character active. Returns false for unknown
// IDs.
func (s *Store) ActivateCharacter(id string) bool {
	idx := s.loadCharIndex()
	found := false
	for _, ref := range idx.Entries {
		if ref.ID == id {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	idx.Active = id
	return writeJSON(s.charIndexPath(), idx) == nil
}

// DeactivateCharacter clears the active character.
func (s *Store) DeactivateCharacter() error {
	idx := s.loadCharIndex()
	idx.Active = ""
	return writeJSON(s.charIndexPath(), idx)
}

// ActiveCharacter returns the active character, nil when none is set.
func (s *Store) ActiveCharacter() *StoredCharacter {
	idx := s.loadCharIndex()
	if idx.Active == "" {
		return nil
	}
	return s.GetCharacter(idx.Active)
}

// DeleteCharacter removes a character and its index row. Returns false
// when the character does not exist.
func (s *Store) DeleteCharacter(id string) bool {
	if err := os.Remove(s.charPath(id)); err != nil {
		return false
	}
	idx := s.loadCharIndex()
	kept := idx.Entries[:0:0]
	for _, ref := range idx.Entries {
		if ref.ID != id {
			kept = append(kept, ref)
		}
	}
	idx.Entries = kept
	if idx.Active == id {
		idx.Active = ""
	}
	_ = writeJSON(s.charIndexPath(), idx)
	return true
}
