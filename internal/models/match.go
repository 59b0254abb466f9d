package models

import "strings"

// Each Matches method takes an already lowercased query and reports a
// substring hit on title, body text or any tag. An empty query matches.

func (t Task) Matches(lowerQuery string) bool {
	return containsFold(t.Title, lowerQuery) ||
		containsFold(t.Description, lowerQuery) ||
		anyTagContains(t.Tags, lowerQuery)
}

func (e Event) Matches(lowerQuery string) bool {
	return containsFold(e.Title, lowerQuery) ||
		containsFold(e.Description, lowerQuery) ||
		(e.Location != nil && containsFold(*e.Location, lowerQuery)) ||
		anyTagContains(e.Tags, lowerQuery)
}

func (n Note) Matches(lowerQuery string) bool {
	return containsFold(n.Title, lowerQuery) ||
		containsFold(n.Content, lowerQuery) ||
		anyTagContains(n.Tags, lowerQuery)
}

// HasAnyTag reports whether the record carries one of wanted (exact match)
func HasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if t == w {
				return true
			}
		}
	}
	return false
}

func containsFold(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

func anyTagContains(tags []string, lowerQuery string) bool {
	for _, tag := range tags {
		if containsFold(tag, lowerQuery) {
			return true
		}
	}
	return false
}
