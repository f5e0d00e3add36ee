// Package memory implements structured long-term memory books: recorded
// facts with importance, tags and access bookkeeping, retrieved by keyword
// relevance against a context string.
package memory

import "time"

// EntryType distinguishes user-recorded facts from agent-recorded ones.
type EntryType string

const (
	TypeManual EntryType = "manual"
	TypeAuto   EntryType = "auto"
)

// Sort strategies for retrieval.
const (
	SortByImportance  = "importance"
	SortByRecency     = "recency"
	SortByAccessCount = "access_count"
)

// Entry is one recorded fact. Retrieval mutates LastAccessedAt and
// AccessCount in place (see Retrieve); everything else changes only
// through explicit edits.
type Entry struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	AccessCount    int       `json:"access_count"`
	EntryType      EntryType `json:"entry_type"`
	Keywords       []string  `json:"keywords,omitempty"`
	Importance     int       `json:"importance"`
	Category       string    `json:"category,omitempty"`
	Source         string    `json:"source,omitempty"`
	Enabled        bool      `json:"enabled"`
}

// Settings are the per-book retrieval defaults. MaxMemoryTokens is accepted
// for format compatibility but not consumed by retrieval.
type Settings struct {
	MaxMemoriesPerRequest int    `json:"max_memories_per_request"`
	MaxMemoryTokens       int    `json:"max_memory_tokens"`
	UseKeywordRetrieval   bool   `json:"use_keyword_retrieval"`
	MinImportance         int    `json:"min_importance"`
	SortBy                string `json:"sort_by"`
}

// DefaultSettings returns the retrieval defaults for a new book.
func DefaultSettings() Settings {
	return Settings{
		MaxMemoriesPerRequest: 10,
		MaxMemoryTokens:       1000,
		UseKeywordRetrieval:   true,
		MinImportance:         50,
		SortBy:                SortByImportance,
	}
}

// Book owns a sequence of entries plus retrieval settings. One book per
// character or session key.
type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CharacterID string    `json:"character_id,omitempty"`
	SessionKey  string    `json:"session_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Entries     []*Entry  `json:"entries"`
	Settings    Settings  `json:"settings"`
}
