package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Markdown renders the trend as a table, or a note when there is no year data.
func (t Trend) Markdown() string {
	var b strings.Builder
	b.WriteString("[YEARLY TREND]\n")
	if t.Status == StatusNoYearData {
		b.WriteString("No year data.\n")
		return b.String()
	}
	b.WriteString("| year | female | male | total |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, p := range t.Points {
		b.WriteString(fmt.Sprintf("| %d | %.0f | %.0f | %.0f |\n", p.Year, p.TotalFemale, p.TotalMale, p.Total))
	}
	return b.String()
}

// Markdown renders the ranking, largest department first for reading.
func (r Ranking) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[TOP %d DEPARTMENTS]\n", TopN))
	if len(r.Departments) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}
	for i := len(r.Departments) - 1; i >= 0; i-- {
		d := r.Departments[i]
		b.WriteString(fmt.Sprintf("%d. %s: %.0f\n", len(r.Departments)-i, safeVal(d.Department), d.Total))
	}
	return b.String()
}

// Markdown renders the age split with one column per selected series.
func (a AgeSplit) Markdown() string {
	var b strings.Builder
	b.WriteString("[AGE GROUPS]\n")
	b.WriteString("| group")
	if a.Female != nil {
		b.WriteString(" | female")
	}
	if a.Male != nil {
		b.WriteString(" | male")
	}
	b.WriteString(" |\n| ---")
	if a.Female != nil {
		b.WriteString(" | ---")
	}
	if a.Male != nil {
		b.WriteString(" | ---")
	}
	b.WriteString(" |\n")
	for i, g := range a.Groups {
		b.WriteString("| " + g)
		if a.Female != nil {
			b.WriteString(fmt.Sprintf(" | %.0f", a.Female[i]))
		}
		if a.Male != nil {
			b.WriteString(fmt.Sprintf(" | %.0f", a.Male[i]))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Markdown renders the matrix followed by the strongest pairs by |r|.
func (c Correlation) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	if c.Status == StatusInsufficientData {
		b.WriteString("Insufficient data.\n")
		return b.String()
	}
	b.WriteString("| |")
	for _, name := range c.Columns {
		b.WriteString(" " + name + " |")
	}
	b.WriteString("\n| ---")
	for range c.Columns {
		b.WriteString(" | ---")
	}
	b.WriteString(" |\n")
	for i, name := range c.Columns {
		b.WriteString("| " + name)
		for j := range c.Columns {
			b.WriteString(fmt.Sprintf(" | %.2f", c.Values[i][j]))
		}
		b.WriteString(" |\n")
	}

	type pr struct {
		A, B string
		R    float64
	}
	var pairs []pr
	for i := range c.Columns {
		for j := i + 1; j < len(c.Columns); j++ {
			pairs = append(pairs, pr{A: c.Columns[i], B: c.Columns[j], R: c.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}
	b.WriteString("\n")
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
