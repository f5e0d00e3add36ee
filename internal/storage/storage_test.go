package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chris/lorekeeper/internal/character"
	"github.com/chris/lorekeeper/internal/preset"
	"github.com/chris/lorekeeper/internal/worldinfo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func storedChar(name string) StoredCharacter {
	return StoredCharacter{
		ID:         NewID(name),
		Name:       name,
		Spec:       "chara_card_v2",
		ImportedAt: time.Now(),
		Data:       character.Card{Name: name, Description: "a test character"},
	}
}

// --- Characters ---

func TestImportAndGetCharacter(t *testing.T) {
	s := openTestStore(t)
	card := storedChar("Aria")
	if err := s.ImportCharacter(card); err != nil {
		t.Fatalf("ImportCharacter: %v", err)
	}

	got := s.GetCharacter(card.ID)
	if got == nil {
		t.Fatal("imported character not found")
	}
	if got.Data.Description != "a test character" {
		t.Errorf("card data not persisted: %+v", got.Data)
	}

	if byName := s.GetCharacterByName("aria"); byName == nil || byName.ID != card.ID {
		t.Error("case-insensitive name lookup failed")
	}
}

func TestImportCharacterReplacesByName(t *testing.T) {
	s := openTestStore(t)
	s.ImportCharacter(storedChar("Aria"))
	s.ImportCharacter(storedChar("Aria"))
	if got := len(s.ListCharacters()); got != 1 {
		t.Errorf("expected 1 index entry after re-import, got %d", got)
	}
}

func TestActivateCharacter(t *testing.T) {
	s := openTestStore(t)
	card := storedChar("Aria")
	s.ImportCharacter(card)

	if s.ActivateCharacter("no-such-id") {
		t.Error("activating an unknown id should fail")
	}
	if !s.ActivateCharacter(card.ID) {
		t.Fatal("ActivateCharacter failed")
	}
	if active := s.ActiveCharacter(); active == nil || active.ID != card.ID {
		t.Error("active character not resolved")
	}

	if err := s.DeactivateCharacter(); err != nil {
		t.Fatalf("DeactivateCharacter: %v", err)
	}
	if s.ActiveCharacter() != nil {
		t.Error("character still active after deactivate")
	}
}

func TestDeleteCharacterClearsActive(t *testing.T) {
	s := openTestStore(t)
	card := storedChar("Aria")
	s.ImportCharacter(card)
	s.ActivateCharacter(card.ID)

	if !s.DeleteCharacter(card.ID) {
		t.Fatal("DeleteCharacter failed")
	}
	if s.DeleteCharacter(card.ID) {
		t.Error("deleting twice should fail")
	}
	if s.ActiveCharacter() != nil {
		t.Error("deleted character still active")
	}
	if len(s.ListCharacters()) != 0 {
		t.Error("index row not removed")
	}
}

// --- World info ---

func storedBook(name string, enabled bool) StoredBook {
	return StoredBook{
		ID:         NewID(name),
		Name:       name,
		ImportedAt: time.Now(),
		Enabled:    enabled,
		Entries: []worldinfo.Entry{
			{UID: 0, Keys: []string{"dragon"}, Content: "Dragons are extinct."},
		},
	}
}

func TestImportWorldInfoAndEnabledBooks(t *testing.T) {
	s := openTestStore(t)
	on := storedBook("Lore", true)
	off := storedBook("Hidden", false)
	s.ImportWorldInfo(on)
	s.ImportWorldInfo(off)

	books := s.EnabledWorldInfo()
	if len(books) != 1 || books[0].ID != on.ID {
		t.Errorf("expected only the enabled book, got %+v", books)
	}

	refs := s.ListWorldInfo()
	if len(refs) != 2 {
		t.Fatalf("expected 2 index rows, got %d", len(refs))
	}
	for _, ref := range refs {
		if ref.EntryCount != 1 {
			t.Errorf("entry count not recorded for %s: %d", ref.Name, ref.EntryCount)
		}
	}
}

func TestSetWorldInfoEnabled(t *testing.T) {
	s := openTestStore(t)
	book := storedBook("Lore", true)
	s.ImportWorldInfo(book)

	if !s.SetWorldInfoEnabled(book.ID, false) {
		t.Fatal("SetWorldInfoEnabled failed")
	}
	if len(s.EnabledWorldInfo()) != 0 {
		t.Error("book still enabled after toggle")
	}
	if got := s.GetWorldInfo(book.ID); got == nil || got.Enabled {
		t.Error("toggle not persisted to the book file")
	}
	if s.SetWorldInfoEnabled("no-such-id", true) {
		t.Error("toggling an unknown id should fail")
	}
}

func TestFindWorldInfo(t *testing.T) {
	s := openTestStore(t)
	book := storedBook("The Frozen North", true)
	s.ImportWorldInfo(book)

	if got := s.FindWorldInfo("the frozen north"); got == nil || got.ID != book.ID {
		t.Error("lookup by name failed")
	}
	if got := s.FindWorldInfo(book.ID); got == nil {
		t.Error("lookup by id failed")
	}
	if s.FindWorldInfo("atlantis") != nil {
		t.Error("expected nil for unknown book")
	}
}

func TestDeleteWorldInfo(t *testing.T) {
	s := openTestStore(t)
	book := storedBook("Lore", true)
	s.ImportWorldInfo(book)

	if !s.DeleteWorldInfo(book.ID) {
		t.Fatal("DeleteWorldInfo failed")
	}
	if s.DeleteWorldInfo(book.ID) {
		t.Error("deleting twice should fail")
	}
	if len(s.ListWorldInfo()) != 0 {
		t.Error("index row not removed")
	}
}

// --- Presets ---

func storedPreset(name string) StoredPreset {
	return StoredPreset{
		ID:         NewID(name),
		Name:       name,
		ImportedAt: time.Now(),
		Data: preset.Preset{
			Temperature: 0.8,
			TopP:        1.0,
			Prompts:     []preset.PromptEntry{{Identifier: "main", Enabled: true, Role: "system", Content: "Be helpful."}},
		},
	}
}

func TestImportActivateDeletePreset(t *testing.T) {
	s := openTestStore(t)
	p := storedPreset("Creative")
	if err := s.ImportPreset(p); err != nil {
		t.Fatalf("ImportPreset: %v", err)
	}

	if !s.ActivatePreset(p.ID) {
		t.Fatal("ActivatePreset failed")
	}
	if active := s.ActivePreset(); active == nil || active.Data.Temperature != 0.8 {
		t.Errorf("active preset not resolved: %+v", active)
	}

	if !s.DeletePreset(p.ID) {
		t.Fatal("DeletePreset failed")
	}
	if s.ActivePreset() != nil {
		t.Error("deleted preset still active")
	}
}

// --- Status and corruption ---

func TestGetStatus(t *testing.T) {
	s := openTestStore(t)
	card := storedChar("Aria")
	s.ImportCharacter(card)
	s.ActivateCharacter(card.ID)
	s.ImportWorldInfo(storedBook("Lore", true))
	s.ImportWorldInfo(storedBook("Hidden", false))
	s.ImportPreset(storedPreset("Creative"))

	st := s.GetStatus()
	if st.Characters != 1 || st.ActiveCharacter != "Aria" {
		t.Errorf("character status wrong: %+v", st)
	}
	if st.WorldInfoBooks != 2 || st.WorldInfoEnabled != 1 {
		t.Errorf("world info status wrong: %+v", st)
	}
	if st.Presets != 1 || st.ActivePreset != "" {
		t.Errorf("preset status wrong: %+v", st)
	}
}

func TestCorruptIndexReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	path := filepath.Join(dir, "characters", "characters.json")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{{{"), 0o644)

	if got := s.ListCharacters(); len(got) != 0 {
		t.Errorf("corrupt index should read as empty, got %+v", got)
	}

	// The next import rewrites a healthy index.
	card := storedChar("Aria")
	if err := s.ImportCharacter(card); err != nil {
		t.Fatalf("ImportCharacter after corruption: %v", err)
	}
	if len(s.ListCharacters()) != 1 {
		t.Error("index not recreated after corruption")
	}
}

func TestNewID(t *testing.T) {
	id := NewID("The Frozen North!")
	if !strings.HasPrefix(id, "the-frozen-north-") {
		t.Errorf("unexpected slug: %q", id)
	}
	if NewID("Aria") == NewID("Aria") {
		t.Error("ids should be unique per call")
	}
}
