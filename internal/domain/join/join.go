// Package join builds the combined table: tracking events left-joined with
// influencer attributes and the slim payout projection.
package join

import (
	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/table"
)

// CombinedTableName names the joiner output.
const CombinedTableName = "combined"

// Collision prefixes for right-hand columns that clash with existing ones.
const (
	influencerPrefix = "influencer_"
	payoutPrefix     = "payout_"
)

// Option configures a join.
type Option func(*joiner)

// WithDateLayouts replaces the accepted string date layouts.
func WithDateLayouts(layouts ...string) Option {
	return func(j *joiner) {
		if len(layouts) > 0 {
			j.layouts = layouts
		}
	}
}

type joiner struct {
	layouts []string
}

// Join combines tracking rows with influencers (on influencer_id = id) and
// payouts (on influencer_id). Both joins are left joins on the tracking
// table. Influencer ids are identities, so the first influencer row per id
// is used. Payouts are not de-duplicated: an influencer with k payout rows
// yields k combined rows per tracking row.
//
// Tracking columns keep their names. An influencer column that clashes is
// renamed influencer_<col>; a payout column that clashes is renamed
// payout_<col>. The influencer id key is dropped.
//
// The date column, when present, is normalized to a calendar date. A null
// or unparseable date fails the join with *MalformedDateError.
func Join(influencers, tracking, payouts *table.Table, opts ...Option) (*table.Table, error) {
	j := &joiner{layouts: DefaultDateLayouts()}
	for _, opt := range opts {
		opt(j)
	}

	if err := schema.Validate(tracking, []string{schema.ColInfluencerID}); err != nil {
		return nil, err
	}
	if err := schema.Validate(influencers, []string{schema.ColID}); err != nil {
		return nil, err
	}
	slim, missing := payouts.Project(schema.PayoutColumns()...)
	if missing != "" {
		return nil, &schema.MissingColumnError{Table: payouts.Name, Column: missing}
	}

	columns := append([]string(nil), tracking.Columns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	infRename := rename(influencers.Columns, schema.ColID, influencerPrefix, seen, &columns)
	payRename := rename(slim.Columns, schema.ColInfluencerID, payoutPrefix, seen, &columns)

	infByID := make(map[string]table.Row, len(influencers.Rows))
	for _, r := range influencers.Rows {
		id, ok := table.Key(r[schema.ColID])
		if !ok {
			continue
		}
		if _, dup := infByID[id]; !dup {
			infByID[id] = r
		}
	}
	payByID := make(map[string][]table.Row, len(slim.Rows))
	for _, r := range slim.Rows {
		id, ok := table.Key(r[schema.ColInfluencerID])
		if !ok {
			continue
		}
		payByID[id] = append(payByID[id], r)
	}

	normalizeDates := tracking.Has(schema.ColDate)
	out := table.New(CombinedTableName, columns...)
	out.Rows = make([]table.Row, 0, len(tracking.Rows))

	for i, tr := range tracking.Rows {
		base := make(table.Row, len(columns))
		for _, c := range tracking.Columns {
			if v, ok := tr[c]; ok {
				base[c] = v
			}
		}
		if normalizeDates {
			d, ok := NormalizeDate(tr[schema.ColDate], j.layouts)
			if !ok {
				return nil, &MalformedDateError{Row: i, Value: tr[schema.ColDate]}
			}
			base[schema.ColDate] = d
		}

		id, hasID := table.Key(tr[schema.ColInfluencerID])
		if hasID {
			if inf, ok := infByID[id]; ok {
				copyRenamed(base, inf, infRename)
			}
		}

		matches := payByID[id]
		if !hasID || len(matches) == 0 {
			out.Rows = append(out.Rows, base)
			continue
		}
		for k, p := range matches {
			row := base
			if k < len(matches)-1 {
				row = cloneRow(base)
			}
			copyRenamed(row, p, payRename)
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// rename maps right-hand columns (minus key) to output names and appends
// them to columns.
func rename(cols []string, key, prefix string, seen map[string]bool, columns *[]string) map[string]string {
	m := make(map[string]string, len(cols))
	for _, c := range cols {
		if c == key {
			continue
		}
		name := c
		if seen[name] {
			name = prefix + c
		}
		seen[name] = true
		m[c] = name
		*columns = append(*columns, name)
	}
	return m
}

func copyRenamed(dst, src table.Row, names map[string]string) {
	for from, to := range names {
		if v, ok := src[from]; ok {
			dst[to] = v
		}
	}
}

func cloneRow(r table.Row) table.Row {
	c := make(table.Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
