package analysis

import (
	"math"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

// Correlation column names for the derived totals.
const (
	ColTotal       = "total"
	ColTotalFemale = "total_female"
	ColTotalMale   = "total_male"
)

// maxRateColumns and maxParityColumns cap the optional columns entering the matrix.
const (
	maxRateColumns   = 3
	maxParityColumns = 3
)

// Correlation is a symmetric Pearson matrix, Values[i][j] for Columns[i], Columns[j].
// Columns that are constant over the view are omitted, so the shape follows the filter.
// When fewer than two columns vary across the view, Status is
// StatusInsufficientData and Columns/Values are empty.
type Correlation struct {
	Status  Status      `json:"status" yaml:"status"`
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

type column struct {
	name string
	val  func(r *dataset.Record) float64
}

// candidateColumns lists the totals, then up to three rate and three parity columns.
func candidateColumns(s dataset.Schema) []column {
	cols := []column{
		{ColTotal, func(r *dataset.Record) float64 { return r.Total }},
		{ColTotalFemale, func(r *dataset.Record) float64 { return r.TotalFemale }},
		{ColTotalMale, func(r *dataset.Record) float64 { return r.TotalMale }},
	}
	for i, name := range s.RateColumns {
		if i >= maxRateColumns {
			break
		}
		i := i
		cols = append(cols, column{name, func(r *dataset.Record) float64 { return r.Rates[i] }})
	}
	for i, name := range s.ParityColumns {
		if i >= maxParityColumns {
			break
		}
		i := i
		cols = append(cols, column{name, func(r *dataset.Record) float64 { return r.Parity[i] }})
	}
	return cols
}

// Correlate computes the Pearson correlation matrix over the candidate columns
// that are not constant across the view.
func Correlate(v dataset.View) Correlation {
	cands := candidateColumns(v.Schema())
	n := v.Len()
	data := make([][]float64, len(cands))
	for c := range cands {
		data[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		r := v.At(i)
		for c, col := range cands {
			data[c][i] = col.val(&r)
		}
	}

	var names []string
	var usable [][]float64
	for c, col := range cands {
		if varies(data[c]) {
			names = append(names, col.name)
			usable = append(usable, data[c])
		}
	}
	if len(usable) < 2 {
		return Correlation{Status: StatusInsufficientData, Columns: []string{}, Values: [][]float64{}}
	}

	k := len(usable)
	mat := make([][]float64, k)
	for a := range mat {
		mat[a] = make([]float64, k)
		mat[a][a] = 1
	}
	for a := 0; a < k; a++ {
		for b := 0; b < a; b++ {
			r := pearson(usable[a], usable[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return Correlation{Status: StatusOK, Columns: names, Values: mat}
}

func varies(xs []float64) bool {
	if len(xs) < 2 {
		return false
	}
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// pairAcc accumulates the sums needed for a Pearson coefficient.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the coefficient clamped to [-1, 1]; degenerate inputs yield 0.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func pearson(xs, ys []float64) float64 {
	var pa pairAcc
	for i := range xs {
		pa.add(xs[i], ys[i])
	}
	return pa.r()
}
