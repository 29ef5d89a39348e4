// Package types contains the report shapes returned to rendering and export
// collaborators.
package types

import (
	"bytes"
	"math"
	"strconv"
)

// Grouped table names.
const (
	TableByProduct       = "by_product"
	TableByPlatform      = "by_platform"
	TableTopInfluencers  = "top_influencers"
	TablePayoutVsRevenue = "payout_vs_revenue"
	TableDetail          = "influencer_detail"
)

// Number is a ratio or amount that may be undefined. NaN and ±Inf are kept
// in memory so callers can tell "no payout" from zero, and are written as
// JSON null.
type Number float64

// Finite reports whether n is a real number.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns n as float64.
func (n Number) Float() float64 { return float64(n) }

// String formats n for tabular output; non-finite values are empty.
func (n Number) String() string {
	if !n.Finite() {
		return ""
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MarshalJSON writes non-finite values as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// UnmarshalJSON reads null as NaN.
func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Summary holds the headline KPIs over the working subset.
type Summary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalOrders        int64   `json:"total_orders"`
	TotalPayout        float64 `json:"total_payout"`
	BaselineRevenue    float64 `json:"baseline_revenue"`
	IncrementalRevenue float64 `json:"incremental_revenue"`
	ROAS               float64 `json:"roas"`
	IncrementalROAS    float64 `json:"incremental_roas"`
	Influencers        int     `json:"influencers"`
}

// GroupRow is one group of a grouped table. Keys follow the table's
// Dimensions order.
type GroupRow struct {
	Keys    []string `json:"keys"`
	Revenue float64  `json:"revenue"`
	Orders  int64    `json:"orders"`
	Payout  Number   `json:"payout"`
	ROAS    Number   `json:"roas"`
}

// GroupTable is a named aggregation.
type GroupTable struct {
	Name       string     `json:"name"`
	Dimensions []string   `json:"dimensions"`
	Rows       []GroupRow `json:"rows"`
}

// Report is everything computed for one selection.
type Report struct {
	RunID        string       `json:"run_id"`
	CombinedRows int          `json:"combined_rows"`
	FilteredRows int          `json:"filtered_rows"`
	Summary      Summary      `json:"summary"`
	Tables       []GroupTable `json:"tables"`
}

// Table looks a grouped table up by name.
func (r Report) Table(name string) (GroupTable, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return GroupTable{}, false
}
