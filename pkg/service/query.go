package service

import (
	"sort"
	"strings"

	"github.com/knowledgebox/knowledgebox/pkg/models"
)

// searchRecords filters the full record set down to what callerID may see,
// then applies the free-text and tag filters. Both filters combine with
// logical AND when present; tags combine with logical OR among themselves.
func searchRecords(records []*models.KnowledgeBox, callerID, query string, tags []string) []*models.KnowledgeBox {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*models.KnowledgeBox, 0, len(records))
	for _, kb := range records {
		if !CanRead(kb, callerID) {
			continue
		}
		if query != "" && !matchesQuery(kb, query) {
			continue
		}
		if len(tags) > 0 && !matchesAnyTag(kb, tags) {
			continue
		}
		out = append(out, kb)
	}
	sortByRecency(out)
	return out
}

// matchesQuery reports whether the lowercase query is a substring of the
// record's title, topic, or content. No tokenization: a plain
// case-insensitive substring match, same as the search endpoint always did.
func matchesQuery(kb *models.KnowledgeBox, query string) bool {
	return strings.Contains(strings.ToLower(kb.Title), query) ||
		strings.Contains(strings.ToLower(kb.Topic), query) ||
		strings.Contains(strings.ToLower(kb.Content), query)
}

// matchesAnyTag reports whether the record's tag set intersects the
// requested (already normalized) tags.
func matchesAnyTag(kb *models.KnowledgeBox, tags []string) bool {
	for _, tag := range tags {
		if kb.HasTag(tag) {
			return true
		}
	}
	return false
}

// sortByRecency orders records by UpdatedAt descending. The sort is stable
// so records sharing a timestamp keep their snapshot (insertion) order.
func sortByRecency(records []*models.KnowledgeBox) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
}
