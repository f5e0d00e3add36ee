package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RetrieveOptions override the book's own settings for a single retrieval.
// Zero MaxMemories and empty SortBy fall back to the book settings;
// MinImportance is a pointer because zero is a meaningful explicit floor.
type RetrieveOptions struct {
	MaxMemories   int
	MinImportance *int
	SortBy        string
}

// Retrieve returns the relevant entries of a book for a context string and
// performs access bookkeeping on every returned entry.
//
// Candidate selection: enabled entries at or above the importance floor.
// When keyword retrieval is on and the context yields keywords, entries
// scoring above zero replace the candidate set (ordered by score
// descending); when nothing scores, the full filtered set is kept rather
// than returning empty. The configured sort strategy then re-orders the
// candidates — keyword relevance chooses the set, never the final order,
// unless the strategy is unrecognized. Finally the result is truncated to
// the limit.
//
// The returned entries are mutated in place: LastAccessedAt is set to now
// and AccessCount is incremented exactly once per retrieval. Callers
// sharing a book across goroutines must serialize access themselves.
func Retrieve(book *Book, context string, opts RetrieveOptions) []*Entry {
	limit := opts.MaxMemories
	if limit <= 0 {
		limit = book.Settings.MaxMemoriesPerRequest
	}
	minImportance := book.Settings.MinImportance
	if opts.MinImportance != nil {
		minImportance = *opts.MinImportance
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = book.Settings.SortBy
	}

	var filtered []*Entry
	for _, e := range book.Entries {
		if e.Enabled && e.Importance >= minImportance {
			filtered = append(filtered, e)
		}
	}

	if strings.TrimSpace(context) != "" && book.Settings.UseKeywordRetrieval {
		if keywords := ExtractKeywords(context); len(keywords) > 0 {
			type scored struct {
				entry *Entry
				score float64
			}
			var hits []scored
			for _, e := range filtered {
				if s := KeywordScore(e, keywords); s > 0 {
					hits = append(hits, scored{e, s})
				}
			}
			// Positive scores replace the candidate set; zero hits means
			// keyword retrieval found nothing useful and is ignored.
			if len(hits) > 0 {
				sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
				filtered = filtered[:0:0]
				for _, h := range hits {
					filtered = append(filtered, h.entry)
				}
			}
		}
	}

	switch sortBy {
	case SortByImportance:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Importance > filtered[j].Importance })
	case SortByRecency:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].LastAccessedAt.After(filtered[j].LastAccessedAt) })
	case SortByAccessCount:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].AccessCount > filtered[j].AccessCount })
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	now := time.Now()
	for _, e := range filtered {
		e.LastAccessedAt = now
		e.AccessCount++
	}
	if len(filtered) > 0 {
		book.UpdatedAt = now
	}
	return filtered
}

// BuildPrompt renders retrieved memories as a titled bullet list for
// prompt injection. Empty input renders to an empty string.
func BuildPrompt(memories []*Entry) string {
	if len(memories) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Long-term Memories\n\n")
	for _, m := range memories {
		if m.Category != "" {
			fmt.Fprintf(&b, "- [%s] %s\n", m.Category, m.Content)
		} else {
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
