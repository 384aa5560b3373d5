package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Item_Type,Outlet_Identifier,Outlet_Type,Item_MRP,Item_Outlet_Sales
Dairy,OUT1,Grocery,120.5,3500.5
Drinks,OUT2,Supermarket,48.2,440.1
Snacks,OUT3,Supermarket,250.0,6000.9
`

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	if f := reportCmd.Flags(); f != nil {
		if fl := f.Lookup("top"); fl != nil {
			_ = fl.Value.Set("0")
			fl.Changed = false
		}
		if fl := f.Lookup("out"); fl != nil {
			_ = fl.Value.Set("")
			fl.Changed = false
		}
	}
	repTop = 0
	repOut = ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return buf.String()
}

func writeSampleCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	cfg = cliConfig{}
	loadConfig()

	if cfg.CSVFile != "data/cleaned_data.csv" {
		t.Errorf("default csv_file = %q, want 'data/cleaned_data.csv'", cfg.CSVFile)
	}
	if cfg.TopGroups != 10 {
		t.Errorf("default top_groups = %d, want 10", cfg.TopGroups)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("default schema_file = %q, want empty", cfg.SchemaFile)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	oldEnv := os.Getenv("SALESREPORT_CSV_FILE")
	defer os.Setenv("SALESREPORT_CSV_FILE", oldEnv)
	os.Setenv("SALESREPORT_CSV_FILE", "/srv/data/sales.csv")

	cfg = cliConfig{}
	loadConfig()

	if cfg.CSVFile != "/srv/data/sales.csv" {
		t.Errorf("csv_file = %q, want env override '/srv/data/sales.csv'", cfg.CSVFile)
	}
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	content := "csv_file: /mnt/sales.csv\ntop_groups: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfgFile = path
	defer func() { cfgFile = "" }()

	cfg = cliConfig{}
	loadConfig()

	if cfg.CSVFile != "/mnt/sales.csv" {
		t.Errorf("csv_file = %q, want '/mnt/sales.csv' from config file", cfg.CSVFile)
	}
	if cfg.TopGroups != 5 {
		t.Errorf("top_groups = %d, want 5 from config file", cfg.TopGroups)
	}
}

func TestLoadConfig_FlagOverride(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	fl := rootCmd.PersistentFlags().Lookup("csv")
	if fl == nil {
		t.Fatal("csv flag not registered")
	}
	_ = fl.Value.Set("flagged.csv")
	fl.Changed = true
	defer func() {
		_ = fl.Value.Set("")
		fl.Changed = false
		flagCSVFile = ""
	}()

	cfg = cliConfig{}
	loadConfig()

	if cfg.CSVFile != "flagged.csv" {
		t.Errorf("csv_file = %q, want flag override 'flagged.csv'", cfg.CSVFile)
	}
}

func TestCLI_Report(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir, sampleCSV)

	out := runCmd(t, "report", csvPath)

	expectedContent := []string{
		"# Dataset Report",
		"- Rows: 3",
		"## Headline Figures",
		"- Top category: Snacks",
		"## Top Groups",
	}
	for _, content := range expectedContent {
		if !strings.Contains(out, content) {
			t.Errorf("report output should contain %q", content)
		}
	}
}

func TestCLI_Report_TopFlag(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir, sampleCSV)

	out := runCmd(t, "report", "--top", "1", csvPath)

	if !strings.Contains(out, "| Snacks |") {
		t.Error("expected the top-ranked group row")
	}
	if strings.Contains(out, "| Dairy |") {
		t.Error("expected --top 1 to cut lower-ranked rows")
	}
}

func TestCLI_Report_OutFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir, sampleCSV)
	outPath := filepath.Join(dir, "report.md")

	out := runCmd(t, "report", "--out", outPath, csvPath)

	if !strings.Contains(out, "✓ Report written to") {
		t.Errorf("expected confirmation message, got %q", out)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report file: %v", err)
	}
	if !strings.Contains(string(written), "# Dataset Report") {
		t.Error("written report should contain the title")
	}
}

func TestCLI_Validate_OK(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir, sampleCSV)

	out := runCmd(t, "validate", csvPath)

	if !strings.Contains(out, "✓ Schema OK") {
		t.Errorf("expected schema OK message, got %q", out)
	}
	if !strings.Contains(out, "(3 rows, 5 columns)") {
		t.Errorf("expected dataset shape in output, got %q", out)
	}
	// The sample omits several optional bindings
	if !strings.Contains(out, "⚠ Missing optional columns:") {
		t.Errorf("expected optional-column warning, got %q", out)
	}
}

func TestCLI_Validate_MissingRequired(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir, "Item_Type,Item_MRP\nDairy,120.5\n")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"validate", csvPath})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a dataset without the measure column")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("error = %q, want a missing required columns message", err)
	}
}

func TestCLI_Report_MissingFile(t *testing.T) {
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"report", "/nonexistent/data.csv"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing dataset file")
	}
}
