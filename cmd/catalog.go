package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/enrollboard/internal/utils"
)

var catalogFormat string

type catalogOutput struct {
	DatasetID   string    `json:"dataset_id" yaml:"dataset_id"`
	Source      string    `json:"source" yaml:"source"`
	LoadedAt    time.Time `json:"loaded_at" yaml:"loaded_at"`
	Records     int       `json:"records" yaml:"records"`
	Years       []int     `json:"years" yaml:"years"`
	Departments []string  `json:"departments" yaml:"departments"`
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the years and departments available for filtering",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds := loadDataset(cmd)
		c := ds.Catalog()
		out := catalogOutput{
			DatasetID:   ds.ID,
			Source:      ds.Source,
			LoadedAt:    ds.LoadedAt,
			Records:     ds.Len(),
			Years:       c.Years,
			Departments: c.Departments,
		}
		w := cmd.OutOrStdout()
		switch strings.ToLower(catalogFormat) {
		case "", "text":
			fmt.Fprint(w, catalogText(out))
		case "json":
			b, err := utils.PrettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		case "yaml":
			b, err := yaml.Marshal(out)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Fprint(w, string(b))
		default:
			return fmt.Errorf("unsupported --format: %s (use text|json|yaml)", catalogFormat)
		}
		return nil
	},
}

func catalogText(out catalogOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", out.Source)
	fmt.Fprintf(&b, "Records: %d\n", out.Records)
	years := make([]string, len(out.Years))
	for i, y := range out.Years {
		years[i] = strconv.Itoa(y)
	}
	if len(years) == 0 {
		b.WriteString("Years: (none)\n")
	} else {
		fmt.Fprintf(&b, "Years: %s\n", strings.Join(years, ", "))
	}
	if len(out.Departments) == 0 {
		b.WriteString("Departments: (none)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Departments (%d):\n", len(out.Departments))
	for _, d := range out.Departments {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "text", "output format: text|json|yaml")
}
