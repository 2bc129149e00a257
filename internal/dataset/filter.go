package dataset

import (
	"fmt"
	"strings"
)

// Gender selects which series the age split displays.
type Gender string

const (
	GenderBoth   Gender = "both"
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParseGender accepts the canonical names plus the source's short forms.
// An empty string means GenderBoth.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "total", "all":
		return GenderBoth, nil
	case "female", "fem", "f":
		return GenderFemale, nil
	case "male", "masc", "m":
		return GenderMale, nil
	default:
		return "", fmt.Errorf("invalid gender %q (use both|female|male)", s)
	}
}

// IncludesFemale reports whether the female series is selected.
// Values other than GenderMale, including unknown ones, select it.
func (g Gender) IncludesFemale() bool { return g != GenderMale }

// IncludesMale reports whether the male series is selected.
// Values other than GenderFemale, including unknown ones, select it.
func (g Gender) IncludesMale() bool { return g != GenderFemale }

// FilterState is the user's current filter selection.
// A nil Year means all years; an empty Departments set means all departments.
// Gender is not applied when filtering; aggregations consume it.
type FilterState struct {
	Year        *int     `json:"year,omitempty" yaml:"year,omitempty"`
	Departments []string `json:"departments,omitempty" yaml:"departments,omitempty"`
	Gender      Gender   `json:"gender" yaml:"gender"`
}

// WithYear returns a copy of f restricted to year y.
func (f FilterState) WithYear(y int) FilterState {
	f.Year = &y
	return f
}

// View is an ordered subsequence of a dataset's records.
type View struct {
	schema  Schema
	records []Record
}

// NewView builds a view over records laid out by schema. Mostly useful in tests.
// Records whose Rates or Parity are shorter than the schema are padded with zeros
// on a copy; the caller's records are left untouched.
func NewView(schema Schema, records []Record) View {
	out := records
	copied := false
	for i := range records {
		r := &records[i]
		if len(r.Rates) >= len(schema.RateColumns) && len(r.Parity) >= len(schema.ParityColumns) {
			continue
		}
		if !copied {
			out = append([]Record(nil), records...)
			copied = true
		}
		out[i].Rates = padTo(r.Rates, len(schema.RateColumns))
		out[i].Parity = padTo(r.Parity, len(schema.ParityColumns))
	}
	return View{schema: schema, records: out}
}

func padTo(xs []float64, n int) []float64 {
	if len(xs) >= n {
		return xs
	}
	out := make([]float64, n)
	copy(out, xs)
	return out
}

// Len returns the number of records in the view.
func (v View) Len() int { return len(v.records) }

// At returns a copy of the i-th record.
func (v View) At(i int) Record { return v.records[i] }

// Schema returns the optional column layout of the underlying dataset.
func (v View) Schema() Schema { return v.schema }

// ByYear keeps records whose year equals y exactly.
func (v View) ByYear(y int) View {
	return v.where(func(r *Record) bool { return r.HasYear && r.Year == y })
}

// ByDepartments keeps records whose department is in depts. An empty set
// applies no restriction.
func (v View) ByDepartments(depts []string) View {
	if len(depts) == 0 {
		return v
	}
	set := make(map[string]struct{}, len(depts))
	for _, d := range depts {
		set[d] = struct{}{}
	}
	return v.where(func(r *Record) bool {
		_, ok := set[r.Department]
		return ok
	})
}

func (v View) where(keep func(*Record) bool) View {
	out := make([]Record, 0, len(v.records))
	for i := range v.records {
		if keep(&v.records[i]) {
			out = append(out, v.records[i])
		}
	}
	return View{schema: v.schema, records: out}
}

// Apply filters the dataset by f's year and department set.
func Apply(d *Dataset, f FilterState) View {
	return f.Apply(d.View())
}

// Apply filters v by the year and department set.
func (f FilterState) Apply(v View) View {
	if f.Year != nil {
		v = v.ByYear(*f.Year)
	}
	return v.ByDepartments(f.Departments)
}
