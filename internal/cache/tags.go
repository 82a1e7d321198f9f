// Package cache derives invalidation tags for contact request reads and
// mutations and provides an in-process, tag-indexed read cache.
//
// Tag derivation lives only here. The query layer calls ListTags/RecordTags
// to label what it stores; the mutation layer calls MutationTags to release
// what a state change can make stale. Both sides therefore agree by
// construction.
package cache

import (
	"fmt"
	"sort"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

const (
	// TagBase labels every list read. Invalidating it flushes all lists.
	TagBase = "contact-requests"
	// TagAllStatuses labels list reads without a status filter; every
	// mutation touches it since those pages show every record.
	TagAllStatuses = "contact-requests:status:all"
	// TagSearch labels list reads with an active search.
	TagSearch = "contact-requests:search"
)

// StatusTag labels list reads filtered on status s.
func StatusTag(s domain.Status) string { return "contact-requests:status:" + string(s) }

// SortTag labels list reads with a given ordering.
func SortTag(by domain.SortField, order domain.SortOrder) string {
	return fmt.Sprintf("contact-requests:sort:%s:%s", by, order)
}

// PageTag labels list reads for a page/perPage pair.
func PageTag(page, perPage int) string {
	return fmt.Sprintf("contact-requests:page:%d:%d", page, perPage)
}

// RecordTag labels reads of a single request.
func RecordTag(id string) string { return "contact-request:" + id }

// ListTags returns the tags of a normalized list query.
func ListTags(q domain.ListQuery) []string {
	tags := []string{TagBase}
	if q.Status != "" {
		tags = append(tags, StatusTag(q.Status))
	} else {
		tags = append(tags, TagAllStatuses)
	}
	if q.Search != "" {
		tags = append(tags, TagSearch)
	}
	return append(tags, SortTag(q.SortBy, q.SortOrder), PageTag(q.Page, q.PerPage))
}

// RecordTags returns the tags of a single-request read.
func RecordTags(id string) []string { return []string{RecordTag(id)} }

// MutationTags returns the tags a change of record id from status `from` to
// status `to` can make stale. Empty arguments are skipped: creation passes no
// previous status, deletion no next status.
func MutationTags(id string, from, to domain.Status) []string {
	set := map[string]struct{}{TagAllStatuses: {}}
	if from != "" {
		set[StatusTag(from)] = struct{}{}
	}
	if to != "" {
		set[StatusTag(to)] = struct{}{}
	}
	if id != "" {
		set[RecordTag(id)] = struct{}{}
	}
	return sortedKeys(set)
}

// Merge unions tag lists, dropping duplicates. Used by bulk mutations to
// invalidate once for the whole batch.
func Merge(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, t := range l {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// ListKey is the cache key of a normalized list query.
func ListKey(q domain.ListQuery) string {
	return fmt.Sprintf("list|q=%s|s=%s|p=%d|pp=%d|by=%s|o=%s",
		q.Search, q.Status, q.Page, q.PerPage, q.SortBy, q.SortOrder)
}

// RecordKey is the cache key of a single-request read.
func RecordKey(id string) string { return "record|" + id }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
