// Package dupes flags probable duplicate media entries without content
// hashing. Items are grouped by exact byte size, then by a normalized name
// key, which catches serially-numbered copies like photo1.jpg/photo2.jpg.
// The result is advisory: equal size plus a similar name is a heuristic,
// not proof of identical content.
package dupes

import (
	"fmt"
	"strings"

	"reel/internal/model"
)

// Group is a cluster of probable duplicates, derived on demand and never
// persisted.
type Group struct {
	Key     string
	Members []string // item ids, in input order
}

// Detect groups the given items into probable-duplicate clusters.
// Groups appear in order of their first member; only clusters with at
// least two members are reported.
func Detect(items []model.Item) []Group {
	buckets := map[string][]string{}
	var order []string

	for _, it := range items {
		key := fmt.Sprintf("%d:%s", it.SizeBytes, NormalizeName(it.Name))
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], it.ID)
	}

	var groups []Group
	for _, key := range order {
		if members := buckets[key]; len(members) >= 2 {
			groups = append(groups, Group{Key: key, Members: members})
		}
	}
	return groups
}

// NormalizeName produces the duplicate-matching key for a file name:
// extension removed, embedded digit runs stripped, lowercased.
// "IMG_0142 (2).png" and "img_9999.png" normalize identically.
func NormalizeName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	var b strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
