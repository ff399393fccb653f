package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"reel/internal/model"
)

// Match reports whether query matches target. A case-insensitive substring
// is an immediate match; otherwise the query matches if its characters
// appear in the target in the same relative order, not necessarily
// contiguously. No edit-distance computation.
func Match(query, target string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	tgt := strings.ToLower(target)

	if strings.Contains(tgt, q) {
		return true
	}
	return subsequence(q, tgt)
}

// subsequence checks in-order character containment.
func subsequence(query, target string) bool {
	qr := []rune(query)
	i := 0
	for _, r := range target {
		if i < len(qr) && unicode.ToLower(r) == qr[i] {
			i++
		}
	}
	return i == len(qr)
}

// MatchItem matches a query against an item's name, and, when metadata
// search is enabled, against its descriptive fields as well. An item
// matches if any field matches.
func MatchItem(query string, it model.Item, includeMetadata bool) bool {
	if Match(query, it.Name) {
		return true
	}
	if !includeMetadata {
		return false
	}
	for _, field := range []string{it.Prompt, it.Model, it.Source} {
		if field != "" && Match(query, field) {
			return true
		}
	}
	return false
}

// Result represents a ranked search match.
type Result struct {
	Item           *model.Item
	MatchedIndexes []int
	Score          int
}

// itemNames implements fuzzy.Source over an item slice.
type itemNames []*model.Item

func (in itemNames) String(i int) string {
	return in[i].Name
}

func (in itemNames) Len() int {
	return len(in)
}

// Rank searches all items by name using fuzzy matching.
// Returns results sorted by match score (best first).
func Rank(lib *model.Library, query string) []Result {
	if query == "" {
		return nil
	}

	items := make(itemNames, len(lib.Items))
	for i := range lib.Items {
		items[i] = &lib.Items[i]
	}

	matches := fuzzy.FindFrom(query, items)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Filter returns the items of a list matching the query, preserving order.
func Filter(items []model.Item, query string, includeMetadata bool) []model.Item {
	if query == "" {
		return items
	}
	var result []model.Item
	for _, it := range items {
		if MatchItem(query, it, includeMetadata) {
			result = append(result, it)
		}
	}
	return result
}
