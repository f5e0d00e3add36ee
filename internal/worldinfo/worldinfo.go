// Package worldinfo implements SillyTavern-style lorebooks: keyword-triggered
// knowledge entries that activate against a context string and render into
// a prompt block.
package worldinfo

// SelectiveLogic combines secondary key match results into an activation
// decision. The numeric values match the SillyTavern export format.
type SelectiveLogic int

const (
	LogicAndAny SelectiveLogic = 0 // at least one secondary key matches
	LogicNotAll SelectiveLogic = 1 // not every secondary key matches
	LogicNotAny SelectiveLogic = 2 // no secondary key matches
	LogicAndAll SelectiveLogic = 3 // every secondary key matches
)

// Entry is a single lore unit. Entries are immutable after parsing; the
// enabled/disabled toggle lives at the stored-book level.
type Entry struct {
	UID           int      `json:"uid"`
	Keys          []string `json:"key"`
	SecondaryKeys []string `json:"keysecondary,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	Content       string   `json:"content"`

	Constant       bool           `json:"constant"`
	Selective      bool           `json:"selective"`
	SelectiveLogic SelectiveLogic `json:"selectiveLogic"`
	Disabled       bool           `json:"disable"`

	Probability    int  `json:"probability"`
	UseProbability bool `json:"useProbability"`

	Order    int `json:"order"`
	Position int `json:"position"`
	Depth    int `json:"depth"`

	CaseSensitive   bool `json:"caseSensitive"`
	MatchWholeWords bool `json:"matchWholeWords"`
}

// Book is an ordered collection of entries. Order is the import order, not
// the render order — rendering sorts by each entry's Order field.
type Book struct {
	Entries []Entry `json:"entries"`
}

// Config controls activation. ScanDepth, MaxTokens and RecursiveScan are
// accepted for format compatibility but not consumed by activation.
type Config struct {
	Enabled       bool `json:"enabled"`
	ScanDepth     int  `json:"scan_depth"`
	MaxEntries    int  `json:"max_entries"`
	MaxTokens     int  `json:"max_tokens"`
	RecursiveScan bool `json:"recursive_scan"`
}

// DefaultConfig returns the activation defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		ScanDepth:  5,
		MaxEntries: 10,
		MaxTokens:  2048,
	}
}
