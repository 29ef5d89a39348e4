package filter

import (
	"slices"
	"time"

	"github.com/okian/roas/internal/domain/model"
)

// Options lists the values a user can pick from.
type Options struct {
	Platforms  []string  `json:"platforms"`
	Products   []string  `json:"products"`
	Categories []string  `json:"categories"`
	Names      []string  `json:"names"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
}

// OptionsOf collects the distinct, sorted, non-null selectable values and
// the date span of records.
func OptionsOf(records []model.CombinedRecord) Options {
	var o Options
	platforms := map[string]struct{}{}
	products := map[string]struct{}{}
	categories := map[string]struct{}{}
	names := map[string]struct{}{}

	for i, r := range records {
		add(platforms, r.Platform)
		add(products, r.Product)
		add(categories, r.Category)
		add(names, r.Name)
		if i == 0 || r.Date.Before(o.MinDate) {
			o.MinDate = r.Date
		}
		if i == 0 || r.Date.After(o.MaxDate) {
			o.MaxDate = r.Date
		}
	}
	o.Platforms = sorted(platforms)
	o.Products = sorted(products)
	o.Categories = sorted(categories)
	o.Names = sorted(names)
	return o
}

// DefaultSelection selects every option and the full date span.
func DefaultSelection(o Options) Selection {
	sel := Selection{
		Platforms:  slices.Clone(o.Platforms),
		Products:   slices.Clone(o.Products),
		Categories: slices.Clone(o.Categories),
	}
	if !o.MinDate.IsZero() && !o.MaxDate.IsZero() {
		sel.DateRange = &DateRange{Start: o.MinDate, End: o.MaxDate}
	}
	return sel
}

func add(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
