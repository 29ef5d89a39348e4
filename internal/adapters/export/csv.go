// Package export serializes computed reports for download.
package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/okian/roas/internal/domain/types"
)

// ErrUnknownTable is returned when a report has no table of the requested name.
var ErrUnknownTable = errors.New("unknown report table")

// Value columns appended after a grouped table's dimensions.
var valueColumns = []string{"revenue", "orders", "payout", "roas"}

// GroupTableCSV writes one grouped table with a header row. Non-finite
// payout and ROAS values are written as empty cells.
func GroupTableCSV(w io.Writer, t types.GroupTable) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, t.Dimensions...), valueColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, r := range t.Rows {
		n := copy(rec, r.Keys)
		rec[n] = formatFloat(r.Revenue)
		rec[n+1] = strconv.FormatInt(r.Orders, 10)
		rec[n+2] = r.Payout.String()
		rec[n+3] = r.ROAS.String()
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportTableCSV writes the named table of rep.
func ReportTableCSV(w io.Writer, rep types.Report, name string) error {
	t, ok := rep.Table(name)
	if !ok {
		return ErrUnknownTable
	}
	return GroupTableCSV(w, t)
}

// SummaryCSV writes the headline KPIs as metric,value rows.
func SummaryCSV(w io.Writer, s types.Summary) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"total_revenue", formatFloat(s.TotalRevenue)},
		{"total_orders", strconv.FormatInt(s.TotalOrders, 10)},
		{"total_payout", formatFloat(s.TotalPayout)},
		{"baseline_revenue", formatFloat(s.BaselineRevenue)},
		{"incremental_revenue", formatFloat(s.IncrementalRevenue)},
		{"roas", formatFloat(s.ROAS)},
		{"incremental_roas", formatFloat(s.IncrementalROAS)},
		{"influencers", strconv.Itoa(s.Influencers)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
