package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris/lorekeeper/internal/worldinfo"
)

// StoredBook wraps a parsed world info book with import metadata and the
// book-level enabled toggle.
type StoredBook struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ImportedAt time.Time         `json:"imported_at"`
	SourcePath string            `json:"source_path,omitempty"`
	Enabled    bool              `json:"enabled"`
	Entries    []worldinfo.Entry `json:"entries"`
}

// BookRef is an index row for a stored world info book.
type BookRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImportedAt time.Time `json:"imported_at"`
	Enabled    bool      `json:"enabled"`
	EntryCount int       `json:"entry_count"`
}

type worldInfoIndex struct {
	Version int       `json:"version"`
	Entries []BookRef `json:"entries"`
}

func (s *Store) wiDir() string       { return s.subdir("worldinfo") }
func (s *Store) wiIndexPath() string { return filepath.Join(s.wiDir(), "worldinfo.json") }
func (s *Store) wiPath(id string) string {
	return filepath.Join(s.wiDir(), id+".json")
}

func (s *Store) loadWIIndex() worldInfoIndex {
	idx := worldInfoIndex{Version: 1}
	readJSON(s.wiIndexPath(), &idx)
	return idx
}

// ImportWorldInfo stores a book and registers it in the index, replacing
// any previous import with the same name.
func (s *Store) ImportWorldInfo(book StoredBook) error {
	if err := writeJSON(s.wiPath(book.ID), book); err != nil {
		return err
	}
	idx := s.loadWIIndex()
	kept := idx.Entries[:0:0]
	for _, ref := range idx.Entries {
		if ref.Name != book.Name {
			kept = append(kept, ref)
		}
	}
	idx.Entries = append(kept, BookRef{
		ID:         book.ID,
		Name:       book.Name,
		ImportedAt: book.ImportedAt,
		Enabled:    book.Enabled,
		EntryCount: len(book.Entries),
	})
	return writeJSON(s.wiIndexPath(), idx)
}

// ListWorldInfo returns the world info index rows.
func (s *Store) ListWorldInfo() []BookRef {
	return s.loadWIIndex().Entries
}

// GetWorldInfo loads a stored book by ID, nil when absent or unreadable.
func (s *Store) GetWorldInfo(id string) *StoredBook {
	var book StoredBook
	if !readJSON(s.wiPath(id), &book) {
		return nil
	}
	return &book
}

// FindWorldInfo resolves a book by name (case-insensitive) or ID.
func (s *Store) FindWorldInfo(nameOrID string) *StoredBook {
	for _, ref := range s.loadWIIndex().Entries {
		if strings.EqualFold(ref.Name, nameOrID) || ref.ID == nameOrID {
			return s.GetWorldInfo(ref.ID)
		}
	}
	return nil
}

// EnabledWorldInfo returns every enabled, readable book.
func (s *Store) EnabledWorldInfo() []StoredBook {
	var books []StoredBook
	for _, ref := range s.loadWIIndex().Entries {
		if !ref.Enabled {
			continue
		}
		if book := s.GetWorldInfo(ref.ID); book != nil {
			books = append(books, *book)
		}
	}
	return books
}

// SetWorldInfoEnabled toggles a book. Returns false for unknown IDs.
func (s *Store) SetWorldInfoEnabled(id string, enabled bool) bool {
	idx := s.loadWIIndex()
	for i := range idx.Entries {
		if idx.Entries[i].ID == id {
			idx.Entries[i].Enabled = enabled
			if err := writeJSON(s.wiIndexPath(), idx); err != nil {
				return false
			}
			if book := s.GetWorldInfo(id); book != nil {
				book.Enabled = enabled
				_ = writeJSON(s.wiPath(id), book)
			}
			return true
		}
	}
	return false
}

// DeleteWorldInfo removes a book and its index row. Returns false when
// the book does not exist.
func (s *Store) DeleteWorldInfo(id string) bool {
	if err := os.Remove(s.wiPath(id)); err != nil {
		return false
	}
	idx := s.loadWIIndex()
	kept := idx.Entries[:0:0]
	for _, ref := range idx.Entries {
		if ref.ID != id {
			kept = append(kept, ref)
		}
	}
	idx.Entries = kept
	_ = writeJSON(s.wiIndexPath(), idx)
	return true
}
