package model

import (
	"sort"
	"strings"
)

// Visible derives the list for a tab from the full collection: partition by
// archive flag, filter by search query (case-insensitive substring on title
// or any tag), then sort pinned-first and by due date ascending within each
// pin group. Targets without a due date sort last in their group. The sort
// is stable, so equal targets keep their input order. The input slice is
// never mutated.
func Visible(targets []Target, archived bool, query string) []Target {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Target
	for _, t := range targets {
		if t.Archived != archived {
			continue
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if (a.DueDate == "") != (b.DueDate == "") {
			return a.DueDate != ""
		}
		return a.DueDate < b.DueDate
	})
	return out
}

func matches(t Target, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// TagCount is one entry of the tag frequency summary.
type TagCount struct {
	Tag   string
	Count int
}

// TagSummary counts tag occurrences across the given targets, sorted
// descending by count. Ties keep encounter order.
func TagSummary(targets []Target) []TagCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range targets {
		for _, tag := range t.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// MostActiveTag returns the highest-count tag, or "" when no tags exist.
func MostActiveTag(targets []Target) string {
	summary := TagSummary(targets)
	if len(summary) == 0 {
		return ""
	}
	return summary[0].Tag
}

// UniqueTags lists each distinct tag once, in encounter order.
func UniqueTags(targets []Target) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range targets {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
