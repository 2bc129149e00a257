package analysis

import (
	"sort"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

// TrendPoint is the enrollment of one year.
type TrendPoint struct {
	Year        int     `json:"year" yaml:"year"`
	TotalFemale float64 `json:"total_female" yaml:"total_female"`
	TotalMale   float64 `json:"total_male" yaml:"total_male"`
	Total       float64 `json:"total" yaml:"total"`
}

// Trend is the yearly enrollment series.
type Trend struct {
	Status Status       `json:"status" yaml:"status"`
	Points []TrendPoint `json:"points" yaml:"points"`
}

// YearlyTrend groups the view by year, ascending. Records without a year are
// skipped; if none has one the result is StatusNoYearData.
func YearlyTrend(v dataset.View) Trend {
	byYear := map[int]*TrendPoint{}
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if !r.HasYear {
			continue
		}
		p := byYear[r.Year]
		if p == nil {
			p = &TrendPoint{Year: r.Year}
			byYear[r.Year] = p
		}
		p.TotalFemale += r.TotalFemale
		p.TotalMale += r.TotalMale
		p.Total += r.Total
	}
	if len(byYear) == 0 {
		return Trend{Status: StatusNoYearData, Points: []TrendPoint{}}
	}
	points := make([]TrendPoint, 0, len(byYear))
	for _, p := range byYear {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return Trend{Status: StatusOK, Points: points}
}
