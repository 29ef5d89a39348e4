package cache

import (
	"encoding/binary"
	"math"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/roas/internal/domain/filter"
)

// Key derives the content address of one report: the source digest, the
// selection (as sets, so order does not matter) and the metric settings.
func Key(sourceDigest uint64, sel filter.Selection, organicRatio float64, topN int) uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}

	writeU64(sourceDigest)
	for _, set := range [][]string{sel.Platforms, sel.Products, sel.Categories} {
		values := slices.Clone(set)
		slices.Sort(values)
		values = slices.Compact(values)
		writeU64(uint64(len(values)))
		for _, v := range values {
			_, _ = h.WriteString(v)
			_, _ = h.Write([]byte{0})
		}
	}
	if sel.DateRange == nil {
		_, _ = h.WriteString("nil")
	} else {
		_, _ = h.WriteString(sel.DateRange.Start.UTC().Format(time.DateOnly))
		_, _ = h.WriteString(sel.DateRange.End.UTC().Format(time.DateOnly))
	}
	writeU64(math.Float64bits(organicRatio))
	writeU64(uint64(topN))
	return h.Sum64()
}
