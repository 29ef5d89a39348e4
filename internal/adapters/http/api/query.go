package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/roas/internal/domain/filter"
)

// Query parameters of the report endpoints.
const (
	paramPlatform = "platform"
	paramProduct  = "product"
	paramCategory = "category"
	paramStart    = "start"
	paramEnd      = "end"
	paramAll      = "all"
)

// parseSelection builds a selection from the query. An empty query or
// all=1 selects everything in opts. Otherwise the query is taken as is:
// an omitted set selects nothing and a missing date endpoint leaves the
// range unusable, both of which produce an empty report.
func parseSelection(q url.Values, opts filter.Options) (filter.Selection, error) {
	if wantsDefault(q) {
		return filter.DefaultSelection(opts), nil
	}

	sel := filter.Selection{
		Platforms:  values(q[paramPlatform]),
		Products:   values(q[paramProduct]),
		Categories: values(q[paramCategory]),
	}

	start, err := parseDate(q.Get(paramStart))
	if err != nil {
		return filter.Selection{}, fmt.Errorf("%s: %w", paramStart, err)
	}
	end, err := parseDate(q.Get(paramEnd))
	if err != nil {
		return filter.Selection{}, fmt.Errorf("%s: %w", paramEnd, err)
	}
	if !start.IsZero() && !end.IsZero() {
		if end.Before(start) {
			return filter.Selection{}, fmt.Errorf("%s is before %s", paramEnd, paramStart)
		}
		sel.DateRange = &filter.DateRange{Start: start, End: end}
	}
	return sel, nil
}

// wantsDefault reports whether q asks for the everything-selected default.
func wantsDefault(q url.Values) bool {
	return len(q) == 0 || q.Get(paramAll) == "1"
}

// values drops blanks and splits comma separated lists.
func values(raw []string) []string {
	out := []string{}
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; must be YYYY-MM-DD", s)
	}
	return t, nil
}
