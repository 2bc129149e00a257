package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/enrollboard/internal/dashboard"
)

const fixtureRows = `[
 {"anno_inf": "2020", "departamento": "A", "matriculacion_fem_5": "10", "matriculacion_masc_5": "5"},
 {"anno_inf": "2021", "departamento": "A", "matriculacion_fem_5": "0", "matriculacion_masc_5": "0"},
 {"anno_inf": "2020", "departamento": "B", "matriculacion_fem_5": "2", "matriculacion_masc_5": "8"}
]`

// resetFlags clears values and Changed state that persist across Execute calls.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range []*cobra.Command{rootCmd, catalogCmd, viewCmd, serveCmd, configShowCmd, configSetCmd} {
		c.Flags().VisitAll(reset)
	}
	cfg = nil
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")
	t.Setenv("ENROLLBOARD_LOG_LEVEL", "error")
	path := filepath.Join(home, "rows.json")
	if err := os.WriteFile(path, []byte(fixtureRows), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLI_CatalogJSON(t *testing.T) {
	src := setup(t)
	out, err := runCmd(t, "--source", src, "catalog", "--format", "json")
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	var got catalogOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Records != 3 || len(got.Years) != 2 || got.Years[0] != 2020 || strings.Join(got.Departments, ",") != "A,B" {
		t.Fatalf("unexpected catalog: %+v", got)
	}
}

func TestCLI_CatalogText(t *testing.T) {
	src := setup(t)
	out, err := runCmd(t, "--source", src, "catalog")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Records: 3", "Years: 2020, 2021", "- A", "- B"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_ViewMarkdownWorkedExample(t *testing.T) {
	src := setup(t)
	out, err := runCmd(t, "--source", src, "view")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"- Female enrollment: 12",
		"- Male enrollment: 13",
		"- Parity index: 0.92",
		"- Top department: A",
		"| 2020 | 12 | 13 | 25 |",
		"| 2021 | 0 | 0 | 0 |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_ViewJSONWithYearFilter(t *testing.T) {
	src := setup(t)
	out, err := runCmd(t, "--source", src, "view", "--tab", "dept", "--year", "2021", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var b dashboard.Bundle
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if b.Records != 1 || b.Summary == nil || b.Summary.TopDepartment != "A" || b.Summary.ParityIndex != 0 {
		t.Fatalf("unexpected bundle: %+v", b)
	}
	if b.Ranking == nil || b.Trend != nil {
		t.Fatalf("expected only a ranking payload: %+v", b)
	}
}

func TestCLI_ViewDepartmentsAndGender(t *testing.T) {
	src := setup(t)
	out, err := runCmd(t, "--source", src, "view", "--tab", "tab_age", "--dept", "B", "--gender", "male", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var b dashboard.Bundle
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatal(err)
	}
	if b.AgeSplit == nil || b.AgeSplit.Female != nil || b.AgeSplit.Male[1] != 8 {
		t.Fatalf("unexpected age split: %+v", b.AgeSplit)
	}
}

func TestCLI_ViewWritesOutputFile(t *testing.T) {
	src := setup(t)
	dest := filepath.Join(t.TempDir(), "out", "view.yaml")
	out, err := runCmd(t, "--source", src, "view", "--tab", "corr", "--format", "yaml", "-o", dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "✓ Wrote tab_corr view") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "tab: tab_corr") {
		t.Fatalf("unexpected file:\n%s", b)
	}
}

func TestCLI_ViewUnknownTab(t *testing.T) {
	src := setup(t)
	if _, err := runCmd(t, "--source", src, "view", "--tab", "tab_map"); err == nil {
		t.Fatal("expected error for unknown tab")
	}
}

func TestCLI_ViewMissingSourceShowsNoData(t *testing.T) {
	setup(t)
	out, err := runCmd(t, "--source", filepath.Join(t.TempDir(), "missing.json"), "view")
	if err != nil {
		t.Fatalf("load failure must not fail the command: %v", err)
	}
	if !strings.Contains(out, "No data available.") {
		t.Fatalf("expected no-data view:\n%s", out)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")
	if _, err := runCmd(t, "config", "set", "retry_max_attempts", "7"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCmd(t, "config", "set", "log_format", "xml"); err == nil {
		t.Fatal("expected invalid log_format error")
	}
	if _, err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatal("expected unknown key error")
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "retry_max_attempts: 7") {
		t.Fatalf("expected saved value in:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".enrollboard", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
}
