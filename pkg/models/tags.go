package models

import "strings"

// NormalizeTags reduces raw tag input to its canonical form: each tag is
// trimmed and lowercased, empty results are dropped, and duplicates are
// removed keeping the first occurrence. The same normalization applies on
// create and on update, so stored tag sets are always canonical.
func NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTagsCSV splits a comma-separated tag parameter and normalizes the
// pieces. Used by the search endpoint's tags query parameter.
func SplitTagsCSV(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(csv, ","))
}
