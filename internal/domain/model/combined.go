package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/table"
)

// CombinedRecord is one tracking event joined with its influencer and
// payout. Null text attributes are "". TotalPayout is a per-influencer
// contract total, never a per-order amount.
type CombinedRecord struct {
	InfluencerID string
	Date         time.Time
	Platform     string
	Product      string
	Orders       int64
	Revenue      decimal.Decimal
	Name         string
	Category     string
	Basis        string
	TotalPayout  decimal.NullDecimal
}

// Decode converts a validated combined table into typed records. Null
// orders and revenue count as zero; a null total_payout stays null.
// Optional columns (category, basis, influencer_id) may be absent.
func Decode(t *table.Table) ([]CombinedRecord, error) {
	if err := schema.Validate(t, schema.RequiredColumns()); err != nil {
		return nil, err
	}
	out := make([]CombinedRecord, len(t.Rows))
	for i, r := range t.Rows {
		rec := CombinedRecord{
			InfluencerID: text(r[schema.ColInfluencerID]),
			Platform:     text(r[schema.ColPlatform]),
			Product:      text(r[schema.ColProduct]),
			Name:         text(r[schema.ColName]),
			Category:     text(r[schema.ColCategory]),
			Basis:        text(r[schema.ColBasis]),
		}
		if d, ok := r[schema.ColDate].(time.Time); ok {
			rec.Date = d
		}

		orders, err := toOrders(r[schema.ColOrders])
		if err != nil {
			return nil, &MalformedValueError{Row: i, Column: schema.ColOrders, Value: r[schema.ColOrders]}
		}
		rec.Orders = orders

		revenue, err := toDecimal(r[schema.ColRevenue])
		if err != nil {
			return nil, &MalformedValueError{Row: i, Column: schema.ColRevenue, Value: r[schema.ColRevenue]}
		}
		rec.Revenue = revenue.Decimal

		payout, err := toDecimal(r[schema.ColTotalPayout])
		if err != nil {
			return nil, &MalformedValueError{Row: i, Column: schema.ColTotalPayout, Value: r[schema.ColTotalPayout]}
		}
		rec.TotalPayout = payout

		out[i] = rec
	}
	return out, nil
}

func text(v any) string {
	if v == nil {
		return ""
	}
	s, _ := table.Key(v)
	return s
}

func toDecimal(v any) (decimal.NullDecimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(x)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(x))), nil
	case float64:
		if math.IsNaN(x) {
			return decimal.NullDecimal{}, nil
		}
		if math.IsInf(x, 0) {
			return decimal.NullDecimal{}, ErrMalformedValue
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(x)), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, ErrMalformedValue
	}
}

func toOrders(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if math.IsNaN(x) {
			return 0, nil
		}
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, ErrMalformedValue
		}
		return int64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return 0, ErrMalformedValue
		}
		return int64(f), nil
	default:
		return 0, ErrMalformedValue
	}
}
