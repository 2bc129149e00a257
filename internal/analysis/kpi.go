package analysis

import "github.com/KaramelBytes/enrollboard/internal/dataset"

// KPISummary holds the headline figures shown above every tab.
type KPISummary struct {
	TotalFemale   int64   `json:"total_female" yaml:"total_female"`
	TotalMale     int64   `json:"total_male" yaml:"total_male"`
	ParityIndex   float64 `json:"parity_index" yaml:"parity_index"`
	TopDepartment string  `json:"top_department" yaml:"top_department"`
}

// Summarize computes the KPI summary. Totals are truncated to whole students.
// ParityIndex is female/male rounded to 2 decimals, or exactly 0 when there are
// no male enrollments. TopDepartment is the department with the largest summed
// total (ties go to the smallest name), or NoDepartment for an empty view.
func Summarize(v dataset.View) KPISummary {
	var f, m float64
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		f += r.TotalFemale
		m += r.TotalMale
	}
	s := KPISummary{
		TotalFemale:   int64(f),
		TotalMale:     int64(m),
		TopDepartment: NoDepartment,
	}
	if s.TotalMale > 0 {
		s.ParityIndex = roundTo2(float64(s.TotalFemale) / float64(s.TotalMale))
	}
	// departmentTotals is name-ordered, so a strict > keeps the first name on ties.
	best := -1.0
	for _, dt := range departmentTotals(v) {
		if dt.Total > best {
			best = dt.Total
			s.TopDepartment = dt.Department
		}
	}
	return s
}
