package memory

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// stopWords are common English function words excluded from extraction.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "and": true, "or": true,
	"but": true, "if": true, "then": true, "else": true, "when": true,
	"where": true, "why": true, "how": true, "what": true, "which": true,
	"who": true, "whom": true, "this": true, "that": true, "these": true,
	"those": true, "for": true, "with": true, "about": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "from": true, "up": true, "down": true,
	"in": true, "out": true, "on": true, "off": true, "over": true,
	"under": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "just": true,
}

// nonKeywordRE matches everything that is not a letter, digit,
// underscore or whitespace. \p classes rather than \w so accented and
// CJK text survives tokenization.
var nonKeywordRE = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// ExtractKeywords tokenizes a context string into lowercase search
// keywords: punctuation becomes whitespace, tokens of two runes or fewer
// and stop words are dropped, and duplicates are removed while preserving
// first-seen order.
func ExtractKeywords(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cleaned := nonKeywordRE.ReplaceAllString(strings.ToLower(text), " ")
	seen := make(map[string]bool)
	var keywords []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) <= 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// KeywordScore rates an entry against extracted keywords: 2.0 for every
// keyword contained in one of the entry's own tags, 1.0 for every keyword
// contained in the entry content. Additive and unbounded, no
// normalization — a heavily tagged or long entry can outscore anything.
func KeywordScore(e *Entry, keywords []string) float64 {
	score := 0.0

	for _, tag := range e.Keywords {
		lowered := strings.ToLower(tag)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				score += 2.0
			}
		}
	}

	content := strings.ToLower(e.Content)
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			score += 1.0
		}
	}

	return score
}
