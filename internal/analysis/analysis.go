// Package analysis computes the dashboard aggregates over a filtered view.
//
// Every function here is pure: it reads the view, allocates its own result and
// never mutates the records. Degenerate inputs produce a Status sentinel or a
// documented substitute value instead of an error.
package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

// Status distinguishes a computed result from a deliberate empty outcome.
type Status string

const (
	StatusOK               Status = "ok"
	StatusNoYearData       Status = "no_year_data"
	StatusInsufficientData Status = "insufficient_data"
)

// NoDepartment is reported as the top department when the view has none.
const NoDepartment = "-"

// TopN is the number of departments kept by RankDepartments.
const TopN = 15

// DepartmentTotal is a department with its summed enrollment.
type DepartmentTotal struct {
	Department string  `json:"department" yaml:"department"`
	Total      float64 `json:"total" yaml:"total"`
}

// departmentTotals sums Total per non-empty department, sorted by name.
func departmentTotals(v dataset.View) []DepartmentTotal {
	sums := map[string]float64{}
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if r.Department == "" {
			continue
		}
		sums[r.Department] += r.Total
	}
	out := make([]DepartmentTotal, 0, len(sums))
	for d, t := range sums {
		out = append(out, DepartmentTotal{Department: d, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
