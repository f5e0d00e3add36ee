package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris/lorekeeper/internal/preset"
)

// StoredPreset wraps a parsed preset with import metadata.
type StoredPreset struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ImportedAt time.Time     `json:"imported_at"`
	SourcePath string        `json:"source_path,omitempty"`
	Data       preset.Preset `json:"data"`
}

// PresetRef is an index row for a stored preset.
type PresetRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImportedAt time.Time `json:"imported_at"`
}

type presetIndex struct {
	Version int         `json:"version"`
	Entries []PresetRef `json:"entries"`
	Active  string      `json:"active"`
}

func (s *Store) presetDir() string       { return s.subdir("presets") }
func (s *Store) presetIndexPath() string { return filepath.Join(s.presetDir(), "presets.json") }
func (s *Store) presetPath(id string) string {
	return filepath.Join(s.presetDir(), id+".json")
}

func (s *Store) loadPresetIndex() presetIndex {
	idx := presetIndex{Version: 1}
	readJSON(s.presetIndexPath(), &idx)
	return idx
}

// ImportPreset stores a preset and registers it in the index, replacing
// any previous import with the same name.
func (s *Store) ImportPreset(p StoredPreset) error {
	if err := writeJSON(s.presetPath(p.ID), p); err != nil {
		return err
	}
	idx := s.loadPresetIndex()
	kept := idx.Entries[:0:0]
	for _, ref := range idx.Entries {
		if ref.Name != p.Name {
			kept = append(kept, ref)
		}
	}
	idx.Entries = append(kept, PresetRef{ID: p.ID, Name: p.Name, ImportedAt: p.ImportedAt})
	return writeJSON(s.presetIndexPath(), idx)
}

// ListPresets returns the preset index rows.
func (s *Store) ListPresets() []PresetRef {
	return s.loadPresetIndex().Entries
}

// GetPreset loads a stored preset by ID, nil when absent or unreadable.
func (s *Store) GetPreset(id string) *StoredPreset {
	var p StoredPreset
	if !readJSON(s.presetPath(id), &p) {
		return nil
	}
	return &p
}

// GetPresetByName finds a preset by display name, case-insensitive.
func (s *Store) GetPresetByName(name string) *StoredPreset {
	for _, ref := range s.loadPresetIndex().Entries {
		if strings.EqualFold(ref.Name, name) {
			return s.GetPreset(ref.ID)
		}
	}
	return nil
}

// ActivatePreset marks a preset active. Returns false for unknown IDs.
func (s *Store) ActivatePreset(id string) bool {
	idx := s.loadPresetIndex()
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
	return writeJSON(s.presetIndexPath(), idx) == nil
}

// DeactivatePreset clears the active preset.
func (s *Store) DeactivatePreset() error {
	idx := s.loadPresetIndex()
	idx.Active = ""
	return writeJSON(s.presetIndexPath(), idx)
}

// ActivePreset returns the active preset, nil when none is set.
func (s *Store) ActivePreset() *StoredPreset {
	idx := s.loadPresetIndex()
	if idx.Active == "" {
		return nil
	}
	return s.GetPreset(idx.Active)
}

// DeletePreset removes a preset and its index row. Returns false when
// the preset does not exist.
func (s *Store) DeletePreset(id string) bool {
	if err := os.Remove(s.presetPath(id)); err != nil {
		return false
	}
	idx := s.loadPresetIndex()
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
	_ = writeJSON(s.presetIndexPath(), idx)
	return true
}
