package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// naTokens are the cell spellings read as null, the same set a dataframe
// reader uses by default. Matching is exact.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// parseCell infers a cell type the way a dataframe reader would: integers
// become int64, other decimal numbers float64, empty cells and NA tokens
// become null and everything else stays text.
func parseCell(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if _, ok := naTokens[t]; ok {
		return nil
	}
	if !numeric(t) {
		return s
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// numeric reports whether t is made only of digits, signs, a decimal point
// and an exponent marker, with at least one digit. Spellings such as "Inf"
// or "Nan" stay text.
func numeric(t string) bool {
	digit := false
	for _, r := range t {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r == '+', r == '-', r == '.', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return digit
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
