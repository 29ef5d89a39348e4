// Package report computes ROAS KPIs and grouped aggregations over a
// filtered combined record set.
//
// Payout rule: total_payout is a per-influencer contract total repeated on
// every order row of that influencer. Every payout aggregate first takes
// one value per influencer (the first non-null one in row order) and only
// then sums across influencers.
package report

import (
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/types"
)

// Engine computes report numbers. It holds configuration only and is safe
// for concurrent use.
type Engine struct {
	organicRatio decimal.Decimal
	topN         int
}

// NewEngine creates an engine with the default organic ratio and top-N.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		organicRatio: decimal.NewFromFloat(DefaultOrganicRatio),
		topN:         DefaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OrganicRatio returns the configured organic baseline share.
func (e *Engine) OrganicRatio() float64 { return e.organicRatio.InexactFloat64() }

// TopN returns the configured top performers size.
func (e *Engine) TopN() int { return e.topN }

// Compute returns the headline KPIs and every grouped table.
func (e *Engine) Compute(records []model.CombinedRecord) (types.Summary, []types.GroupTable) {
	return e.Summary(records), []types.GroupTable{
		e.ByProduct(records),
		e.ByPlatform(records),
		e.TopInfluencers(records),
		e.PayoutVsRevenue(records),
		e.Detail(records),
	}
}

// Summary computes the headline KPIs. With no payout, ROAS and incremental
// ROAS are 0 by definition.
func (e *Engine) Summary(records []model.CombinedRecord) types.Summary {
	revenue := decimal.Zero
	var orders int64
	payouts := newPayoutSet()

	for _, r := range records {
		revenue = revenue.Add(r.Revenue)
		orders += r.Orders
		payouts.add(r)
	}

	payout := payouts.total()
	baseline := revenue.Mul(e.organicRatio)
	incremental := revenue.Sub(baseline)

	s := types.Summary{
		TotalRevenue:       revenue.InexactFloat64(),
		TotalOrders:        orders,
		TotalPayout:        payout.InexactFloat64(),
		BaselineRevenue:    baseline.InexactFloat64(),
		IncrementalRevenue: incremental.InexactFloat64(),
		Influencers:        payouts.influencers(),
	}
	if payout.IsPositive() {
		s.ROAS = revenue.Div(payout).InexactFloat64()
		s.IncrementalROAS = incremental.Div(payout).InexactFloat64()
	}
	return s
}

// ByProduct aggregates per product, highest revenue first.
func (e *Engine) ByProduct(records []model.CombinedRecord) types.GroupTable {
	t := e.GroupBy(types.TableByProduct, records, DimProduct)
	sortByRevenue(t.Rows)
	return t
}

// ByPlatform aggregates per platform, highest revenue first.
func (e *Engine) ByPlatform(records []model.CombinedRecord) types.GroupTable {
	t := e.GroupBy(types.TableByPlatform, records, DimPlatform)
	sortByRevenue(t.Rows)
	return t
}

// TopInfluencers keeps the top-N (name, category) groups by revenue. Ties
// keep group key order.
func (e *Engine) TopInfluencers(records []model.CombinedRecord) types.GroupTable {
	t := e.GroupBy(types.TableTopInfluencers, records, DimName, DimCategory)
	sortByRevenue(t.Rows)
	if len(t.Rows) > e.topN {
		t.Rows = t.Rows[:e.topN]
	}
	return t
}

// PayoutVsRevenue aggregates per (name, payout basis) in key order.
func (e *Engine) PayoutVsRevenue(records []model.CombinedRecord) types.GroupTable {
	return e.GroupBy(types.TablePayoutVsRevenue, records, DimName, DimBasis)
}

// Detail aggregates per (name, platform, category, basis), highest revenue
// first, with ROAS rounded to two decimals.
func (e *Engine) Detail(records []model.CombinedRecord) types.GroupTable {
	t := e.GroupBy(types.TableDetail, records, DimName, DimPlatform, DimCategory, DimBasis)
	for i := range t.Rows {
		if t.Rows[i].ROAS.Finite() {
			t.Rows[i].ROAS = types.Number(round(t.Rows[i].ROAS.Float(), detailROASPlaces))
		}
	}
	sortByRevenue(t.Rows)
	return t
}

// GroupBy aggregates records by dims. Rows with a null value in any
// dimension are left out. Rows come back in ascending key order.
//
// Payout per group is the sum over the group's influencers of each one's
// first non-null payout. A group where no influencer has a payout gets a
// NaN payout, and ROAS is revenue / payout with no zero fallback, so a
// zero or missing payout surfaces as a non-finite ROAS.
func (e *Engine) GroupBy(name string, records []model.CombinedRecord, dims ...Dimension) types.GroupTable {
	t := types.GroupTable{Name: name, Dimensions: make([]string, len(dims)), Rows: []types.GroupRow{}}
	for i, d := range dims {
		t.Dimensions[i] = d.Name
	}

	type acc struct {
		keys    []string
		revenue decimal.Decimal
		orders  int64
		payouts *payoutSet
	}
	groups := map[string]*acc{}
	var order []string

	for _, r := range records {
		keys := make([]string, len(dims))
		skip := false
		for i, d := range dims {
			keys[i] = d.Value(r)
			if keys[i] == "" {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		id := strings.Join(keys, "\x1f")
		g, ok := groups[id]
		if !ok {
			g = &acc{keys: keys, revenue: decimal.Zero, payouts: newPayoutSet()}
			groups[id] = g
			order = append(order, id)
		}
		g.revenue = g.revenue.Add(r.Revenue)
		g.orders += r.Orders
		g.payouts.add(r)
	}

	slices.SortFunc(order, func(a, b string) int {
		return slices.Compare(groups[a].keys, groups[b].keys)
	})

	for _, id := range order {
		g := groups[id]
		row := types.GroupRow{
			Keys:    g.keys,
			Revenue: g.revenue.InexactFloat64(),
			Orders:  g.orders,
			Payout:  types.Number(math.NaN()),
			ROAS:    types.Number(math.NaN()),
		}
		if g.payouts.known() {
			payout := g.payouts.total()
			row.Payout = types.Number(payout.InexactFloat64())
			row.ROAS = ratio(g.revenue, payout)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ratio divides without a zero fallback: x/0 is +Inf, 0/0 is NaN.
func ratio(num, den decimal.Decimal) types.Number {
	if den.IsZero() {
		n, d := num.InexactFloat64(), 0.0
		return types.Number(n / d)
	}
	return types.Number(num.Div(den).InexactFloat64())
}

func sortByRevenue(rows []types.GroupRow) {
	slices.SortStableFunc(rows, func(a, b types.GroupRow) int {
		switch {
		case a.Revenue > b.Revenue:
			return -1
		case a.Revenue < b.Revenue:
			return 1
		default:
			return 0
		}
	})
}

func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).RoundBank(places).InexactFloat64()
}
