package analysis

import (
	"sort"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

// Ranking is the top-N department list in display order (ascending total).
type Ranking struct {
	Departments []DepartmentTotal `json:"departments" yaml:"departments"`
}

// RankDepartments keeps the TopN departments by total and returns them sorted
// ascending by total. Ties are broken by department name ascending in both
// the selection and the display order.
func RankDepartments(v dataset.View) Ranking {
	totals := departmentTotals(v)
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	if len(totals) > TopN {
		totals = totals[:TopN]
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Total == totals[j].Total {
			return totals[i].Department < totals[j].Department
		}
		return totals[i].Total < totals[j].Total
	})
	return Ranking{Departments: totals}
}
