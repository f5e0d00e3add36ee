package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store keeps memory books as JSON documents, one file per book. A
// malformed or missing file reads as a missing book — persistence
// corruption self-heals on the next write.
type Store struct {
	dir string
}

// NewStore opens a store rooted at dir (the files live in dir/memories).
func NewStore(dir string) (*Store, error) {
	path := filepath.Join(dir, "memories")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating memory dir: %w", err)
	}
	return &Store{dir: path}, nil
}

func (s *Store) bookPath(bookID string) string {
	return filepath.Join(s.dir, bookID+".json")
}

// LoadBook reads a book by ID. Returns nil when the book does not exist or
// its file cannot be parsed.
func (s *Store) LoadBook(bookID string) *Book {
	data, err := os.ReadFile(s.bookPath(bookID))
	if err != nil {
		return nil
	}
	return decodeBook(data)
}

// decodeBook unmarshals over seeded defaults so absent settings fields
// keep their default values. Unknown fields are ignored.
func decodeBook(data []byte) *Book {
	book := &Book{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, book); err != nil {
		return nil
	}
	return book
}

// SaveBook writes a book, overwriting any previous version.
func (s *Store) SaveBook(book *Book) error {
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding memory book: %w", err)
	}
	if err := os.WriteFile(s.bookPath(book.ID), data, 0o644); err != nil {
		return fmt.Errorf("writing memory book: %w", err)
	}
	return nil
}

// BookInfo is a listing row for a stored book.
type BookInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CharacterID string `json:"character_id,omitempty"`
	Entries     int    `json:"entries"`
}

// ListBooks returns a listing of every readable book. Unreadable files are
// skipped.
func (s *Store) ListBooks() []BookInfo {
	matches, _ := filepath.Glob(filepath.Join(s.dir, "*.json"))
	var infos []BookInfo
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		book := decodeBook(data)
		if book == nil {
			continue
		}
		id := book.ID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		infos = append(infos, BookInfo{
			ID:          id,
			Name:        book.Name,
			CharacterID: book.CharacterID,
			Entries:     len(book.Entries),
		})
	}
	return infos
}

// GetOrCreateBook finds the book bound to a character ID, or creates a new
// book for the character/session and saves it immediately.
func (s *Store) GetOrCreateBook(characterID, characterName, sessionKey string) (*Book, error) {
	if characterID != "" {
		matches, _ := filepath.Glob(filepath.Join(s.dir, "*.json"))
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if book := decodeBook(data); book != nil && book.CharacterID == characterID {
				return book, nil
			}
		}
	}

	name := characterName
	if name == "" {
		name = sessionKey
	}
	if name == "" {
		name = "Default"
	}
	now := time.Now()
	book := &Book{
		ID:          newBookID(name),
		Name:        name,
		CharacterID: characterID,
		SessionKey:  sessionKey,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    DefaultSettings(),
	}
	if err := s.SaveBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book file. Returns false when the book is absent.
func (s *Store) DeleteBook(bookID string) bool {
	if err := os.Remove(s.bookPath(bookID)); err != nil {
		return false
	}
	return true
}

// AddParams are the caller-supplied fields of a new memory.
type AddParams struct {
	Content    string
	Type       EntryType
	Keywords   []string
	Importance int
	Category   string
	Source     string
}

// AddMemory appends a new entry to a book and persists it.
func (s *Store) AddMemory(bookID string, p AddParams) (*Entry, error) {
	book := s.LoadBook(bookID)
	if book == nil {
		return nil, fmt.Errorf("memory book %s not found", bookID)
	}

	if p.Type == "" {
		p.Type = TypeManual
	}
	now := time.Now()
	entry := &Entry{
		ID:             "mem-" + uuid.NewString(),
		Content:        p.Content,
		CreatedAt:      now,
		LastAccessedAt: now,
		EntryType:      p.Type,
		Keywords:       p.Keywords,
		Importance:     p.Importance,
		Category:       p.Category,
		Source:         p.Source,
		Enabled:        true,
	}
	book.Entries = append(book.Entries, entry)
	book.UpdatedAt = now
	if err := s.SaveBook(book); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteMemory removes an entry by ID. Returns false when the book or the
// entry does not exist.
func (s *Store) DeleteMemory(bookID, memoryID string) bool {
	book := s.LoadBook(bookID)
	if book == nil {
		return false
	}
	kept := book.Entries[:0:0]
	for _, e := range book.Entries {
		if e.ID != memoryID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(book.Entries) {
		return false
	}
	book.Entries = kept
	if err := s.SaveBook(book); err != nil {
		return false
	}
	return true
}

// RetrieveMemories runs Retrieve against a stored book and persists the
// access bookkeeping when any entries were returned. A missing book yields
// an empty result.
func (s *Store) RetrieveMemories(bookID, context string, opts RetrieveOptions) []*Entry {
	book := s.LoadBook(bookID)
	if book == nil {
		return nil
	}
	result := Retrieve(book, context, opts)
	if len(result) > 0 {
		// Best effort: a failed persistence write must not block retrieval.
		_ = s.SaveBook(book)
	}
	return result
}

var bookSlugRE = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fff}]+`)

func newBookID(name string) string {
	slug := strings.Trim(bookSlugRE.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if runes := []rune(slug); len(runes) > 20 {
		slug = string(runes[:20])
	}
	if slug == "" {
		slug = "book"
	}
	return fmt.Sprintf("mb-%s-%s", slug, uuid.NewString()[:8])
}
