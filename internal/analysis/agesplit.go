package analysis

import "github.com/KaramelBytes/enrollboard/internal/dataset"

// AgeSplit holds enrollment per age bracket. Female and Male are nil when the
// gender selector excludes them and are then omitted from serialized output.
type AgeSplit struct {
	Groups []string  `json:"groups" yaml:"groups"`
	Female []float64 `json:"female,omitempty" yaml:"female,omitempty"`
	Male   []float64 `json:"male,omitempty" yaml:"male,omitempty"`
}

// SplitByAge sums female and male counts per age bracket, populating only the
// series selected by g.
func SplitByAge(v dataset.View, g dataset.Gender) AgeSplit {
	groups := dataset.AgeGroups()
	var female, male [dataset.NumAgeGroups]float64
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		for _, ag := range groups {
			female[ag] += r.Female[ag]
			male[ag] += r.Male[ag]
		}
	}
	out := AgeSplit{Groups: make([]string, len(groups))}
	for i, ag := range groups {
		out.Groups[i] = ag.Label()
	}
	if g.IncludesFemale() {
		out.Female = append([]float64{}, female[:]...)
	}
	if g.IncludesMale() {
		out.Male = append([]float64{}, male[:]...)
	}
	return out
}
