package domain

import "strings"

const tagSeparator = ","

// NormalizeTags trims and lowercases each tag, drops empties and duplicates,
// and keeps first-seen order. An item holding the separator is split into
// several tags.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		for _, t := range strings.Split(item, tagSeparator) {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// SplitTags parses the stored comma-delimited form.
func SplitTags(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(stored, tagSeparator))
}

// JoinTags renders normalized tags into the stored comma-delimited form.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), tagSeparator)
}

// TagsOverlap reports whether any tag in want equals a tag in have.
// Both sides are compared as normalized whole tokens.
func TagsOverlap(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, t := range NormalizeTags(have) {
		set[t] = struct{}{}
	}
	for _, t := range NormalizeTags(want) {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
