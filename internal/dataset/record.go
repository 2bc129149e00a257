package dataset

// AgeGroup identifies one of the fixed enrollment age brackets.
type AgeGroup int

const (
	Age3to4 AgeGroup = iota
	Age5
	Age6to10
	Age11to14
	Age15to16
)

// NumAgeGroups is the size of the closed age-group set.
const NumAgeGroups = 5

// ageGroupDefs maps each bracket to its display label and source column suffix.
var ageGroupDefs = [NumAgeGroups]struct {
	label  string
	suffix string
}{
	Age3to4:   {"3-4", "3y4"},
	Age5:      {"5", "5"},
	Age6to10:  {"6-10", "6a10"},
	Age11to14: {"11-14", "11a14"},
	Age15to16: {"15-16", "15y16"},
}

// AgeGroups returns the brackets in display order.
func AgeGroups() []AgeGroup {
	return []AgeGroup{Age3to4, Age5, Age6to10, Age11to14, Age15to16}
}

// Label returns the display label, e.g. "6-10".
func (g AgeGroup) Label() string {
	if g < 0 || int(g) >= NumAgeGroups {
		return ""
	}
	return ageGroupDefs[g].label
}

// FemaleColumn returns the source column carrying female counts for the bracket.
func (g AgeGroup) FemaleColumn() string { return ColFemalePrefix + "_" + ageGroupDefs[g].suffix }

// MaleColumn returns the source column carrying male counts for the bracket.
func (g AgeGroup) MaleColumn() string { return ColMalePrefix + "_" + ageGroupDefs[g].suffix }

// Record is one normalized row of the enrollment dataset.
//
// Rates and Parity are aligned with the owning dataset's Schema.RateColumns and
// Schema.ParityColumns. Records are shared read-only between views.
type Record struct {
	Year       int    `json:"year,omitempty"`
	HasYear    bool   `json:"has_year"`
	Department string `json:"department"`

	Female [NumAgeGroups]float64 `json:"female"`
	Male   [NumAgeGroups]float64 `json:"male"`

	TotalFemale float64 `json:"total_female"`
	TotalMale   float64 `json:"total_male"`
	Total       float64 `json:"total"`

	Rates  []float64 `json:"rates,omitempty"`
	Parity []float64 `json:"parity,omitempty"`
}

// deriveTotals recomputes the per-record totals from the age-group counts.
func (r *Record) deriveTotals() {
	var f, m float64
	for i := 0; i < NumAgeGroups; i++ {
		f += r.Female[i]
		m += r.Male[i]
	}
	r.TotalFemale = f
	r.TotalMale = m
	r.Total = f + m
}

// Schema lists the optional pass-through columns present in a dataset.
type Schema struct {
	RateColumns   []string `json:"rate_columns"`
	ParityColumns []string `json:"parity_columns"`
}
