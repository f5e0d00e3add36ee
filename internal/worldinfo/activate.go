package worldinfo

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
)

// randIntN draws the probability gate. Swapped out in tests.
var randIntN = rand.Intn

// Activate evaluates every entry in the book against the context and
// returns the activated entries sorted ascending by Order (stable — ties
// keep import order), truncated to cfg.MaxEntries when positive.
//
// Aside from the probability draw this is a pure function; the book is
// never mutated.
func Activate(book *Book, context string, cfg Config) []Entry {
	var activated []Entry
	for _, e := range book.Entries {
		if Evaluate(e, context) {
			activated = append(activated, e)
		}
	}

	sort.SliceStable(activated, func(i, j int) bool {
		return activated[i].Order < activated[j].Order
	})

	if cfg.MaxEntries > 0 && len(activated) > cfg.MaxEntries {
		activated = activated[:cfg.MaxEntries]
	}
	return activated
}

// Evaluate decides whether a single entry fires against the context.
//
// The check order matters: disabled and blank-content entries are excluded
// before anything else, constant entries bypass key matching and the
// probability gate entirely, and the probability gate runs before primary
// matching so a failed draw skips matching work.
func Evaluate(e Entry, context string) bool {
	if e.Disabled {
		return false
	}
	if strings.TrimSpace(e.Content) == "" {
		return false
	}
	if e.Constant {
		return true
	}
	if len(e.Keys) == 0 {
		return false
	}

	if e.UseProbability && e.Probability < 100 {
		if randIntN(100)+1 > e.Probability {
			return false
		}
	}

	if !anyKeyMatches(e.Keys, context, e.CaseSensitive, e.MatchWholeWords) {
		return false
	}

	if e.Selective && len(e.SecondaryKeys) > 0 {
		return checkSelective(e, context)
	}
	return true
}

func checkSelective(e Entry, context string) bool {
	matched := 0
	for _, k := range e.SecondaryKeys {
		if keyMatches(k, context, e.CaseSensitive, e.MatchWholeWords) {
			matched++
		}
	}
	total := len(e.SecondaryKeys)

	switch e.SelectiveLogic {
	case LogicAndAny:
		return matched > 0
	case LogicNotAll:
		return matched < total
	case LogicNotAny:
		return matched == 0
	case LogicAndAll:
		return matched == total
	}
	// Unknown logic codes activate permissively.
	return true
}

func anyKeyMatches(keys []string, context string, caseSensitive, wholeWords bool) bool {
	for _, k := range keys {
		if keyMatches(k, context, caseSensitive, wholeWords) {
			return true
		}
	}
	return false
}

// keyMatches reports whether a single trigger key occurs in the context.
// Blank keys never match. Whole-word mode requires word boundaries around
// the key; substring mode is a plain (optionally case-folded) containment
// test.
func keyMatches(key, context string, caseSensitive, wholeWords bool) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}

	if wholeWords {
		pattern := `\b` + regexp.QuoteMeta(key) + `\b`
		if !caseSensitive {
			pattern = `(?i)` + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(context)
	}

	if caseSensitive {
		return strings.Contains(context, key)
	}
	return strings.Contains(strings.ToLower(context), strings.ToLower(key))
}

// BuildPrompt renders activated entries as a titled markdown block.
// An empty entry list renders to an empty string so callers can omit the
// block entirely.
func BuildPrompt(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## World Information\n\n")
	for _, e := range entries {
		if e.Comment != "" {
			fmt.Fprintf(&b, "### %s\n", e.Comment)
		}
		b.WriteString(strings.TrimSpace(e.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// Summarize returns a short human-readable description of a book.
func Summarize(book *Book) string {
	enabled, constant := 0, 0
	for _, e := range book.Entries {
		if e.Disabled {
			continue
		}
		enabled++
		if e.Constant {
			constant++
		}
	}
	return fmt.Sprintf("%d entries (%d enabled, %d always-on)", len(book.Entries), enabled, constant)
}
