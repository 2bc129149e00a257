package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/enrollboard/internal/dashboard"
	"github.com/KaramelBytes/enrollboard/internal/dataset"
	"github.com/KaramelBytes/enrollboard/internal/utils"
)

var (
	viewTab        string
	viewYear       int
	viewDepts      []string
	viewGender     string
	viewFormat     string
	viewOutputPath string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the KPIs and one chart for the selected filters",
	Long: `Show the KPI summary and the chart of one tab for the selected filters.

Tabs: tab_trend (yearly trend), tab_dept (top 15 departments),
tab_age (age groups by gender), tab_corr (correlation matrix).`,
	Example: `  enrollboard view --tab tab_dept --year 2019
  enrollboard view --tab age --dept ANTIOQUIA --dept "BOGOTÁ, D.C." --gender female
  enrollboard view --tab corr --format json -o corr.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := dashboard.ParseTab(viewTab)
		if err != nil {
			return err
		}
		gender, err := dataset.ParseGender(viewGender)
		if err != nil {
			return err
		}
		filter := dataset.FilterState{Departments: viewDepts, Gender: gender}
		if cmd.Flags().Changed("year") {
			filter = filter.WithYear(viewYear)
		}

		ds := loadDataset(cmd)
		if filter.Year != nil && !ds.IsEmpty() && !ds.Catalog().HasYear(*filter.Year) {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: year %d is not in the dataset\n", *filter.Year)
		}
		bundle, err := dashboard.Build(ds, tab, filter)
		if err != nil {
			return err
		}

		var out string
		switch strings.ToLower(viewFormat) {
		case "", "markdown", "md":
			out = bundle.Markdown()
		case "json":
			b, err := utils.PrettyJSON(bundle)
			if err != nil {
				return err
			}
			out = string(b) + "\n"
		case "yaml":
			b, err := yaml.Marshal(bundle)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			out = string(b)
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", viewFormat)
		}

		if viewOutputPath != "" {
			if err := utils.SafeWriteFile(viewOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s view to %s\n", tab, viewOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewTab, "tab", "t", string(dashboard.TabTrend), "tab: tab_trend|tab_dept|tab_age|tab_corr")
	viewCmd.Flags().IntVarP(&viewYear, "year", "y", 0, "restrict to one year (default all years)")
	// department names contain commas, so no comma splitting
	viewCmd.Flags().StringArrayVarP(&viewDepts, "dept", "d", nil, "restrict to a department (repeatable)")
	viewCmd.Flags().StringVarP(&viewGender, "gender", "g", string(dataset.GenderBoth), "age split series: both|female|male")
	viewCmd.Flags().StringVar(&viewFormat, "format", "markdown", "output format: markdown|json|yaml")
	viewCmd.Flags().StringVarP(&viewOutputPath, "output", "o", "", "optional path to write the view instead of stdout")
}
