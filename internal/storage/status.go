package storage

// Status summarizes the store contents.
type Status struct {
	Characters       int    `json:"characters"`
	ActiveCharacter  string `json:"active_character,omitempty"`
	WorldInfoBooks   int    `json:"world_info_books"`
	WorldInfoEnabled int    `json:"world_info_enabled"`
	Presets          int    `json:"presets"`
	ActivePreset     string `json:"active_preset,omitempty"`
}

// GetStatus reports counts and active selections across all content kinds.
func (s *Store) GetStatus() Status {
	st := Status{}

	charIdx := s.loadCharIndex()
	st.Characters = len(charIdx.Entries)
	if charIdx.Active != "" {
		if c := s.GetCharacter(charIdx.Active); c != nil {
			st.ActiveCharacter = c.Name
		}
	}

	wiIdx := s.loadWIIndex()
	st.WorldInfoBooks = len(wiIdx.Entries)
	for _, ref := range wiIdx.Entries {
		if ref.Enabled {
			st.WorldInfoEnabled++
		}
	}

	presetIdx := s.loadPresetIndex()
	st.Presets = len(presetIdx.Entries)
	if presetIdx.Active != "" {
		if p := s.GetPreset(presetIdx.Active); p != nil {
			st.ActivePreset = p.Name
		}
	}

	return st
}
