package table

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Digest returns a content hash of the table: name, column order and every
// cell in row order. Two tables with equal digests are treated as the same
// input by the report cache.
func (t *Table) Digest() uint64 {
	h := xxhash.New()
	t.WriteDigest(h)
	return h.Sum64()
}

// WriteDigest feeds the table content into h so several tables can share
// one hash.
func (t *Table) WriteDigest(h *xxhash.Digest) {
	if t == nil {
		_, _ = h.WriteString("\x00nil")
		return
	}
	_, _ = h.WriteString(t.Name)
	_, _ = h.WriteString("\x1f")
	for _, c := range t.Columns {
		_, _ = h.WriteString(c)
		_, _ = h.WriteString("\x1e")
	}
	var buf [8]byte
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			switch v := r[c].(type) {
			case nil:
				_, _ = h.Write([]byte{0})
			case string:
				_, _ = h.Write([]byte{1})
				_, _ = h.WriteString(v)
			case int64:
				_, _ = h.Write([]byte{2})
				binary.LittleEndian.PutUint64(buf[:], uint64(v))
				_, _ = h.Write(buf[:])
			case float64:
				_, _ = h.Write([]byte{3})
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				_, _ = h.Write(buf[:])
			case time.Time:
				_, _ = h.Write([]byte{4})
				_, _ = h.WriteString(v.Format(time.RFC3339Nano))
			default:
				_, _ = h.Write([]byte{5})
				_, _ = h.WriteString(fmt.Sprint(v))
			}
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
}
