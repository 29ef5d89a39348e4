// Package schema validates that tables carry the columns the pipeline reads.
package schema

import (
	"github.com/okian/roas/internal/domain/table"
)

// Column names shared across the pipeline.
const (
	ColInfluencerID = "influencer_id"
	ColID           = "id"
	ColDate         = "date"
	ColPlatform     = "platform"
	ColProduct      = "product"
	ColOrders       = "orders"
	ColRevenue      = "revenue"
	ColName         = "name"
	ColCategory     = "category"
	ColBasis        = "basis"
	ColTotalPayout  = "total_payout"
)

// RequiredColumns lists, in check order, the columns every combined table
// must carry.
func RequiredColumns() []string {
	return []string{ColOrders, ColRevenue, ColTotalPayout, ColPlatform, ColProduct, ColName, ColDate}
}

// PayoutColumns is the slim payout projection joined onto tracking rows.
func PayoutColumns() []string {
	return []string{ColInfluencerID, ColBasis, ColTotalPayout}
}

// Validate checks column presence only, in the order given, and fails on
// the first absent column. Null cells are not inspected.
func Validate(t *table.Table, required []string) error {
	for _, c := range required {
		if !t.Has(c) {
			return &MissingColumnError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// ValidatePayoutUniqueness fails when any influencer owns more than one
// payout row. Rows with a null influencer_id are ignored. The first
// offending influencer in row order is reported.
func ValidatePayoutUniqueness(payouts *table.Table) error {
	if err := Validate(payouts, []string{ColInfluencerID}); err != nil {
		return err
	}
	counts := make(map[string]int, len(payouts.Rows))
	order := make([]string, 0, len(payouts.Rows))
	for _, r := range payouts.Rows {
		id, ok := table.Key(r[ColInfluencerID])
		if !ok {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		if counts[id] > 1 {
			return &DuplicatePayoutError{InfluencerID: id, Count: counts[id]}
		}
	}
	return nil
}
