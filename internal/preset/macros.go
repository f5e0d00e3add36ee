package preset

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Macros configures {{...}} template substitution in preset content.
type Macros struct {
	User       string
	Char       string
	DateFormat string // SillyTavern tokens: YYYY, MM, DD, ...
	TimeFormat string // SillyTavern tokens: HH, mm, ...
	Custom     map[string]string
}

// DefaultMacros returns the substitution defaults.
func DefaultMacros() Macros {
	return Macros{
		User:       "User",
		Char:       "Assistant",
		DateFormat: "YYYY-MM-DD",
		TimeFormat: "HH:mm",
	}
}

// ApplyMacros substitutes {{user}}, {{char}}, date/time macros and custom
// variables in content. Unknown macros are left untouched.
func ApplyMacros(content string, m Macros) string {
	if content == "" {
		return content
	}
	if m.User == "" {
		m.User = "User"
	}
	if m.Char == "" {
		m.Char = "Assistant"
	}
	if m.DateFormat == "" {
		m.DateFormat = "YYYY-MM-DD"
	}
	if m.TimeFormat == "" {
		m.TimeFormat = "HH:mm"
	}

	now := time.Now()
	replacements := map[string]string{
		"user":    m.User,
		"char":    m.Char,
		"date":    now.Format(layoutFor(m.DateFormat)),
		"time":    now.Format(layoutFor(m.TimeFormat)),
		"weekday": now.Weekday().String(),
		"month":   now.Month().String(),
		"year":    strconv.Itoa(now.Year()),
		"isotime": now.Format(time.RFC3339),
		"random":  strconv.Itoa(rand.Intn(1000)),
		"roll":    strconv.Itoa(rand.Intn(20) + 1), // d20
		"// ":     "",                              // comment macro, removed
	}
	for k, v := range m.Custom {
		replacements[k] = v
	}

	result := content
	for key, value := range replacements {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// macroLayouts maps SillyTavern format tokens to Go reference-time
// layouts. Longer tokens first so YYYY is not consumed as two YYs.
var macroLayouts = [][2]string{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"A", "PM"},
}

func layoutFor(format string) string {
	layout := format
	for _, pair := range macroLayouts {
		layout = strings.ReplaceAll(layout, pair[0], pair[1])
	}
	return layout
}
