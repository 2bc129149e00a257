package dataset

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Source column names and prefixes.
const (
	ColYear         = "anno_inf"
	ColDepartment   = "departamento"
	ColFemalePrefix = "matriculacion_fem"
	ColMalePrefix   = "matriculacion_masc"
	ColRatePrefix   = "tasa"
	ColParityPrefix = "ipg"
)

// Normalize coerces raw rows into Records and reports the optional columns seen.
//
// Unparseable, negative or non-finite numbers become 0. Age-group counts are
// rounded to whole students; rate and parity values keep their precision. A year that is not an
// integral number is recorded as absent. Normalize never fails.
func Normalize(rows []map[string]any) ([]Record, Schema) {
	schema := discoverSchema(rows)
	rateIdx := indexOf(schema.RateColumns)
	parityIdx := indexOf(schema.ParityColumns)

	groups := AgeGroups()
	out := make([]Record, 0, len(rows))
	for _, raw := range rows {
		row := trimKeys(raw)
		var r Record
		r.Year, r.HasYear = toYear(row[ColYear])
		r.Department = toDepartment(row[ColDepartment])
		for _, g := range groups {
			r.Female[g] = toCount(row[g.FemaleColumn()])
			r.Male[g] = toCount(row[g.MaleColumn()])
		}
		r.deriveTotals()
		if len(rateIdx) > 0 {
			r.Rates = make([]float64, len(rateIdx))
		}
		if len(parityIdx) > 0 {
			r.Parity = make([]float64, len(parityIdx))
		}
		for k, v := range row {
			if i, ok := rateIdx[k]; ok {
				r.Rates[i] = toMeasure(v)
			} else if i, ok := parityIdx[k]; ok {
				r.Parity[i] = toMeasure(v)
			}
		}
		out = append(out, r)
	}
	return out, schema
}

// discoverSchema collects rate/parity column names across all rows, sorted.
func discoverSchema(rows []map[string]any) Schema {
	rates := map[string]struct{}{}
	parity := map[string]struct{}{}
	for _, raw := range rows {
		for k := range raw {
			name := strings.TrimSpace(k)
			switch {
			case strings.HasPrefix(name, ColRatePrefix):
				rates[name] = struct{}{}
			case strings.HasPrefix(name, ColParityPrefix):
				parity[name] = struct{}{}
			}
		}
	}
	return Schema{RateColumns: sortedKeys(rates), ParityColumns: sortedKeys(parity)}
}

func trimKeys(row map[string]any) map[string]any {
	clean := true
	for k := range row {
		if strings.TrimSpace(k) != k {
			clean = false
			break
		}
	}
	if clean {
		return row
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// toCount coerces a raw cell to a whole, non-negative student count (0 on failure).
// Whole counts keep every float64 sum exact, so totals do not depend on row order.
func toCount(v any) float64 {
	return math.Round(toMeasure(v))
}

// toMeasure coerces a raw rate or index cell to a finite, non-negative number.
func toMeasure(v any) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// toYear coerces a raw cell to an integral year.
func toYear(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toDepartment(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func indexOf(cols []string) map[string]int {
	m := make(map[string]int, len(cols))
	for i, c := range cols {
		m[c] = i
	}
	return m
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
