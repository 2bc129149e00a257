package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/enrollboard/internal/analysis"
	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

// Tab identifies the active chart.
type Tab string

const (
	TabTrend       Tab = "tab_trend"
	TabRanking     Tab = "tab_dept"
	TabAgeSplit    Tab = "tab_age"
	TabCorrelation Tab = "tab_corr"
)

// ErrUnknownTab is returned for a tab identifier outside the closed set.
var ErrUnknownTab = errors.New("unknown tab")

// Tabs returns the known tabs in display order.
func Tabs() []Tab { return []Tab{TabTrend, TabRanking, TabAgeSplit, TabCorrelation} }

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	switch t {
	case TabTrend, TabRanking, TabAgeSplit, TabCorrelation:
		return true
	}
	return false
}

// ParseTab accepts the tab identifiers and their short names.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tab_trend", "trend":
		return TabTrend, nil
	case "tab_dept", "dept", "ranking", "departments":
		return TabRanking, nil
	case "tab_age", "age", "demographics":
		return TabAgeSplit, nil
	case "tab_corr", "corr", "correlation", "correlations":
		return TabCorrelation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
	}
}

// KPI is one labeled, display-formatted headline figure.
type KPI struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Bundle is what the presentation layer receives for one interaction: the KPIs
// and exactly one chart payload matching Tab. NoData is set when the dataset
// itself is empty; KPIs and chart are then absent.
type Bundle struct {
	Tab       Tab                  `json:"tab" yaml:"tab"`
	NoData    bool                 `json:"no_data" yaml:"no_data"`
	DatasetID string               `json:"dataset_id,omitempty" yaml:"dataset_id,omitempty"`
	Filter    dataset.FilterState  `json:"filter" yaml:"filter"`
	Records   int                  `json:"records" yaml:"records"`
	KPIs      []KPI                `json:"kpis" yaml:"kpis"`
	Summary   *analysis.KPISummary `json:"summary,omitempty" yaml:"summary,omitempty"`

	Trend       *analysis.Trend       `json:"trend,omitempty" yaml:"trend,omitempty"`
	Ranking     *analysis.Ranking     `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	AgeSplit    *analysis.AgeSplit    `json:"age_split,omitempty" yaml:"age_split,omitempty"`
	Correlation *analysis.Correlation `json:"correlation,omitempty" yaml:"correlation,omitempty"`
}

// Select computes the KPI summary and the aggregation for tab over view.
func Select(tab Tab, view dataset.View, filter dataset.FilterState) (*Bundle, error) {
	b := &Bundle{Tab: tab, Filter: filter, Records: view.Len()}
	switch tab {
	case TabTrend:
		t := analysis.YearlyTrend(view)
		b.Trend = &t
	case TabRanking:
		r := analysis.RankDepartments(view)
		b.Ranking = &r
	case TabAgeSplit:
		a := analysis.SplitByAge(view, filter.Gender)
		b.AgeSplit = &a
	case TabCorrelation:
		c := analysis.Correlate(view)
		b.Correlation = &c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	s := analysis.Summarize(view)
	b.Summary = &s
	b.KPIs = FormatKPIs(s)
	return b, nil
}

// Build filters ds and selects tab. An empty dataset yields a NoData bundle.
func Build(ds *dataset.Dataset, tab Tab, filter dataset.FilterState) (*Bundle, error) {
	if filter.Gender == "" {
		filter.Gender = dataset.GenderBoth
	}
	if !tab.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	if ds == nil || ds.IsEmpty() {
		b := &Bundle{Tab: tab, NoData: true, Filter: filter, KPIs: []KPI{}}
		if ds != nil {
			b.DatasetID = ds.ID
		}
		return b, nil
	}
	b, err := Select(tab, dataset.Apply(ds, filter), filter)
	if err != nil {
		return nil, err
	}
	b.DatasetID = ds.ID
	return b, nil
}

var printer = message.NewPrinter(language.English)

// FormatKPIs renders the four headline figures with thousands grouping.
func FormatKPIs(s analysis.KPISummary) []KPI {
	return []KPI{
		{Label: "Female enrollment", Value: printer.Sprintf("%d", s.TotalFemale)},
		{Label: "Male enrollment", Value: printer.Sprintf("%d", s.TotalMale)},
		{Label: "Parity index", Value: fmt.Sprintf("%g", s.ParityIndex)},
		{Label: "Top department", Value: s.TopDepartment},
	}
}

// Markdown renders the bundle for terminal output.
func (b *Bundle) Markdown() string {
	var sb strings.Builder
	sb.WriteString("[DASHBOARD]\n")
	sb.WriteString(fmt.Sprintf("Tab: %s\n", b.Tab))
	if b.DatasetID != "" {
		sb.WriteString(fmt.Sprintf("Dataset: %s\n", b.DatasetID))
	}
	if b.NoData {
		sb.WriteString("\nNo data available.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Records: %d\n\n", b.Records))
	sb.WriteString("[KPIS]\n")
	for _, k := range b.KPIs {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", k.Label, k.Value))
	}
	sb.WriteString("\n")
	switch {
	case b.Trend != nil:
		sb.WriteString(b.Trend.Markdown())
	case b.Ranking != nil:
		sb.WriteString(b.Ranking.Markdown())
	case b.AgeSplit != nil:
		sb.WriteString(b.AgeSplit.Markdown())
	case b.Correlation != nil:
		sb.WriteString(b.Correlation.Markdown())
	}
	return sb.String()
}
