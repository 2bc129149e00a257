package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

func filterFixture() *dataset.Dataset {
	rows := []map[string]any{
		{"anno_inf": "2020", "departamento": "A", "matriculacion_fem_5": "1"},
		{"anno_inf": "2021", "departamento": "B", "matriculacion_fem_5": "2"},
		{"anno_inf": "2020", "departamento": "C", "matriculacion_fem_5": "3"},
		{"anno_inf": "", "departamento": "A", "matriculacion_fem_5": "4"},
		{"anno_inf": "2021", "departamento": "A", "matriculacion_fem_5": "5"},
		{"anno_inf": "2022", "departamento": "C", "matriculacion_fem_5": "6"},
	}
	return dataset.Build("fixture", rows)
}

func femaleTotals(v dataset.View) []float64 {
	out := make([]float64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		out = append(out, v.At(i).TotalFemale)
	}
	return out
}

func TestApply_NoFilterPassesEverything(t *testing.T) {
	ds := filterFixture()
	v := dataset.Apply(ds, dataset.FilterState{})
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, femaleTotals(v))
}

func TestApply_YearExactMatchExcludesAbsentYear(t *testing.T) {
	ds := filterFixture()
	v := dataset.Apply(ds, dataset.FilterState{}.WithYear(2020))
	assert.Equal(t, []float64{1, 3}, femaleTotals(v))
}

func TestApply_EmptyDepartmentsEqualsYearOnly(t *testing.T) {
	ds := filterFixture()
	for _, y := range []int{2020, 2021, 2022, 1999} {
		withEmpty := dataset.Apply(ds, dataset.FilterState{Departments: []string{}}.WithYear(y))
		yearOnly := ds.View().ByYear(y)
		assert.Equal(t, femaleTotals(yearOnly), femaleTotals(withEmpty), "year %d", y)
	}
	assert.Equal(t, ds.Len(), dataset.Apply(ds, dataset.FilterState{Departments: nil}).Len())
}

func TestApply_DepartmentMembership(t *testing.T) {
	ds := filterFixture()
	v := dataset.Apply(ds, dataset.FilterState{Departments: []string{"A", "C"}})
	assert.Equal(t, []float64{1, 3, 4, 5, 6}, femaleTotals(v))

	none := dataset.Apply(ds, dataset.FilterState{Departments: []string{"Z"}})
	assert.Equal(t, 0, none.Len())
}

func TestFilters_Commute(t *testing.T) {
	ds := filterFixture()
	deptSets := [][]string{nil, {"A"}, {"B", "C"}, {"Z"}}
	for _, y := range []int{2020, 2021, 2022, 2030} {
		for _, depts := range deptSets {
			yearFirst := ds.View().ByYear(y).ByDepartments(depts)
			deptFirst := ds.View().ByDepartments(depts).ByYear(y)
			assert.Equal(t, femaleTotals(yearFirst), femaleTotals(deptFirst), "year %d depts %v", y, depts)
		}
	}
}

func TestApply_DoesNotMutateDataset(t *testing.T) {
	ds := filterFixture()
	_ = dataset.Apply(ds, dataset.FilterState{Departments: []string{"B"}}.WithYear(2021))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, femaleTotals(ds.View()))
}

func TestApply_EmptyDataset(t *testing.T) {
	v := dataset.Apply(dataset.Empty("none"), dataset.FilterState{Departments: []string{"A"}}.WithYear(2020))
	assert.Equal(t, 0, v.Len())
}

func TestParseGender(t *testing.T) {
	cases := map[string]dataset.Gender{
		"":       dataset.GenderBoth,
		"both":   dataset.GenderBoth,
		"fem":    dataset.GenderFemale,
		"Female": dataset.GenderFemale,
		"masc":   dataset.GenderMale,
		"male":   dataset.GenderMale,
	}
	for in, want := range cases {
		got, err := dataset.ParseGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := dataset.ParseGender("other")
	assert.Error(t, err)

	assert.True(t, dataset.GenderMale.IncludesMale())
	assert.False(t, dataset.GenderMale.IncludesFemale())
	assert.True(t, dataset.GenderBoth.IncludesFemale())
}

func TestGender_UnknownSelectsBothSeries(t *testing.T) {
	for _, g := range []dataset.Gender{"", "x", "FEMALE"} {
		assert.True(t, g.IncludesFemale(), "%q", g)
		assert.True(t, g.IncludesMale(), "%q", g)
	}
	assert.False(t, dataset.GenderFemale.IncludesMale())
}

func TestNewView_PadsShortOptionalColumns(t *testing.T) {
	schema := dataset.Schema{RateColumns: []string{"tasa_x", "tasa_y"}, ParityColumns: []string{"ipg_x"}}
	recs := []dataset.Record{{Total: 1}, {Total: 2, Rates: []float64{7}}}
	v := dataset.NewView(schema, recs)
	require.Equal(t, 2, v.Len())
	for i := 0; i < v.Len(); i++ {
		assert.Len(t, v.At(i).Rates, 2)
		assert.Len(t, v.At(i).Parity, 1)
	}
	assert.Equal(t, []float64{7, 0}, v.At(1).Rates)
	assert.Nil(t, recs[0].Rates, "caller records are not modified")
	assert.Equal(t, []float64{7}, recs[1].Rates)
}
