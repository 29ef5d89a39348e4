// Package filter applies user selections to the combined record set.
package filter

import (
	"time"

	"github.com/okian/roas/internal/domain/model"
)

// DateRange is an inclusive calendar-date bound.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether both endpoints are set.
func (r *DateRange) Valid() bool {
	return r != nil && !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports start <= d <= end on calendar dates.
func (r *DateRange) Contains(d time.Time) bool {
	day := dateOf(d)
	return !day.Before(dateOf(r.Start)) && !day.After(dateOf(r.End))
}

// Selection is the set of inclusion predicates chosen by the user.
// Every predicate is ANDed. An empty set selects nothing.
type Selection struct {
	Platforms  []string
	Products   []string
	Categories []string
	DateRange  *DateRange
}

// Usable reports whether the selection can select anything at all:
// platforms and products must be non-empty and the date range must have
// both endpoints. An unusable selection yields an empty result.
func (s Selection) Usable() bool {
	return len(s.Platforms) > 0 && len(s.Products) > 0 && s.DateRange.Valid()
}

// Apply returns the records matching sel as a new slice; records is not
// modified. Null attributes never match a set.
func Apply(records []model.CombinedRecord, sel Selection) []model.CombinedRecord {
	out := []model.CombinedRecord{}
	if !sel.Usable() {
		return out
	}
	platforms := setOf(sel.Platforms)
	products := setOf(sel.Products)
	categories := setOf(sel.Categories)

	for _, r := range records {
		if !member(platforms, r.Platform) ||
			!member(products, r.Product) ||
			!member(categories, r.Category) ||
			!sel.DateRange.Contains(r.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func setOf(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func member(set map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := set[v]
	return ok
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
