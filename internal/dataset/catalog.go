package dataset

import "sort"

// Catalog lists the distinct filterable values of a dataset.
type Catalog struct {
	Years       []int    `json:"years"`
	Departments []string `json:"departments"`
}

// NewCatalog computes the sorted distinct years (records with a parsed year only)
// and sorted distinct non-empty department names.
func NewCatalog(records []Record) Catalog {
	years := map[int]struct{}{}
	depts := map[string]struct{}{}
	for i := range records {
		r := &records[i]
		if r.HasYear {
			years[r.Year] = struct{}{}
		}
		if r.Department != "" {
			depts[r.Department] = struct{}{}
		}
	}
	c := Catalog{
		Years:       make([]int, 0, len(years)),
		Departments: sortedKeys(depts),
	}
	for y := range years {
		c.Years = append(c.Years, y)
	}
	sort.Ints(c.Years)
	return c
}

// HasYear reports whether y is one of the catalog years.
func (c Catalog) HasYear(y int) bool {
	i := sort.SearchInts(c.Years, y)
	return i < len(c.Years) && c.Years[i] == y
}
