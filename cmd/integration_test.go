package cmd

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/loaneda-cli/internal/analysis"
	"github.com/KaramelBytes/loaneda-cli/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const loansCSV = "loan_id, no_of_dependents, education, self_employed, income_annum, loan_amount, cibil_score, loan_status\n" +
	"1, 2, Graduate, No, 9600000, 29900000, 778, Approved\n" +
	"2, 0, Not Graduate, Yes, 4100000, 12200000, 417, Rejected\n" +
	"3, 3, Graduate, No, 9100000, 29700000, 506, Rejected\n" +
	"4, 3, Graduate, No, 8200000, 30700000, 467, Rejected\n" +
	"5, 5, Not Graduate, Yes, 9800000, 24200000, 382, Rejected\n" +
	"6, 0, Graduate, Yes, 4800000, 13500000, 319, Rejected\n" +
	"7, 5, Graduate, No, 8700000, 33000000, 678, Approved\n" +
	"8, 2, Graduate, Yes, 5700000, 15000000, 382, Rejected\n" +
	"9, 0, Graduate, Yes, 800000, 2200000, 782, Approved\n" +
	"10, 5, Not Graduate, No, 1100000, 4300000, 388, Rejected\n" +
	"11, 4, Graduate, Yes, 9100000, 11200000, 547, Approved\n" +
	"12, 2, Not Graduate, Yes, 6300000, 22700000, 538, Approved\n"

// resetFlags restores defaults so flag state does not leak between invocations.
func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(fl *pflag.Flag) {
			if fl.Value.Type() != "stringSlice" {
				_ = fl.Value.Set(fl.DefValue)
			}
			fl.Changed = false
		})
	}
	chOnly = nil
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func execCmd(args ...string) error {
	resetFlags(rootCmd, chartsCmd, summaryCmd)
	// Config is cached per process; tests switch HOME between runs.
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return p
}

func TestCLI_ChartsWritesAllChartsAndManifest(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "loans.csv", loansCSV)
	out := filepath.Join(home, "out")

	runCmd(t, "charts", data, "--out", out, "--quiet")

	for _, p := range analysis.Plots {
		if _, err := os.Stat(filepath.Join(out, p.Name+".png")); err != nil {
			t.Fatalf("missing chart %s: %v", p.Name, err)
		}
	}
	m, err := render.ReadManifest(filepath.Join(out, render.ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if len(m.Charts) != len(analysis.Plots) || len(m.Failed) != 0 {
		t.Fatalf("manifest charts = %d, failed = %+v", len(m.Charts), m.Failed)
	}
	if m.Backend != render.BackendGonum || m.Source != data {
		t.Fatalf("manifest header = %+v", m)
	}
}

func TestCLI_ChartsMissingColumnSkipsOnlyThatChart(t *testing.T) {
	home := isolateHome(t)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(loansCSV), "\n") {
		cells := strings.Split(line, ", ")
		// drop cibil_score
		b.WriteString(strings.Join(append(cells[:6:6], cells[7]), ", "))
		b.WriteString("\n")
	}
	data := writeDataset(t, home, "no_cibil.csv", b.String())
	out := filepath.Join(home, "out")

	err := execCmd("charts", data, "--out", out, "--quiet")
	if err == nil || !strings.Contains(err.Error(), "cibil_score") {
		t.Fatalf("expected cibil_score failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, analysis.NameCibilVsIncome+".png")); !os.IsNotExist(err) {
		t.Fatalf("cibil chart should not exist: %v", err)
	}
	m, err := render.ReadManifest(filepath.Join(out, render.ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if len(m.Charts) != 5 || len(m.Failed) != 1 || m.Failed[0].Name != analysis.NameCibilVsIncome {
		t.Fatalf("manifest charts = %d, failed = %+v", len(m.Charts), m.Failed)
	}
}

func TestCLI_ChartsOnlySVGWithGoChart(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "loans.csv", loansCSV)
	out := filepath.Join(home, "svg")

	runCmd(t, "charts", data, "--out", out, "--quiet", "--format", "svg", "--backend", "gochart",
		"--only", analysis.NameEducationApproval+","+analysis.NameDependentsImpact)

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var svgs int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".svg") {
			svgs++
		}
	}
	if svgs != 2 {
		t.Fatalf("svg files = %d, want 2", svgs)
	}
	body, err := os.ReadFile(filepath.Join(out, analysis.NameEducationApproval+".svg"))
	if err != nil || !strings.Contains(string(body), "<svg") {
		t.Fatalf("education svg: %v", err)
	}

	if err := execCmd("charts", data, "--out", out, "--only", "nope"); err == nil {
		t.Fatalf("expected error for unknown chart name")
	}
}

func TestCLI_ChartsStrictRatioFailsOnZeroIncome(t *testing.T) {
	home := isolateHome(t)
	zero := strings.Replace(loansCSV, "9600000, 29900000", "0, 29900000", 1)
	data := writeDataset(t, home, "zero.csv", zero)
	out := filepath.Join(home, "out")

	runCmd(t, "charts", data, "--out", out, "--quiet", "--only", analysis.NameDtiRatio)
	if _, err := os.Stat(filepath.Join(out, analysis.NameDtiRatio+".png")); err != nil {
		t.Fatalf("default mode should still draw dti_ratio: %v", err)
	}

	err := execCmd("charts", data, "--out", filepath.Join(home, "strict"), "--quiet", "--only", analysis.NameDtiRatio, "--strict-ratio")
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("expected division error for row 1, got %v", err)
	}
}

func TestCLI_ChartsBatchUsesPerDatasetDirs(t *testing.T) {
	home := isolateHome(t)
	for _, d := range []string{"d1", "d2"} {
		if err := os.MkdirAll(filepath.Join(home, d), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeDataset(t, filepath.Join(home, d), "loans.csv", loansCSV)
	}
	out := filepath.Join(home, "batch")

	runCmd(t, "charts", filepath.Join(home, "d*", "loans.csv"), "--out", out, "--quiet", "--only", analysis.NameEducationApproval)

	for _, sub := range []string{"loans", "loans__2"} {
		if _, err := os.Stat(filepath.Join(out, sub, render.ManifestFile)); err != nil {
			t.Fatalf("missing manifest for %s: %v", sub, err)
		}
	}
}

func TestCLI_SummaryWritesMarkdown(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "loans.csv", loansCSV)
	outPath := filepath.Join(home, "summary.md")

	runCmd(t, "summary", data, "-o", outPath)

	body, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, want := range []string{"[DATASET SUMMARY]", "File: loans.csv", "Rows: 12", "[APPROVAL % BY EDUCATION LEVEL]"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("summary missing %q:\n%s", want, body)
		}
	}

	jsonPath := filepath.Join(home, "summary.json")
	runCmd(t, "summary", data, "--json", "-o", jsonPath)
	body, err = os.ReadFile(jsonPath)
	if err != nil || !strings.Contains(string(body), "\"Education\"") {
		t.Fatalf("json summary: %v\n%s", err, body)
	}
}

func TestCLI_SummaryJSONReportsDependents(t *testing.T) {
	home := isolateHome(t)
	data := writeDataset(t, home, "loans.csv", loansCSV)
	jsonPath := filepath.Join(home, "summary.json")

	runCmd(t, "summary", data, "--json", "-o", jsonPath)

	body, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json summary: %v", err)
	}
	var rep analysis.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		t.Fatalf("decode json summary: %v\n%s", err, body)
	}
	if rep.Rows != 12 || rep.Dependents == nil {
		t.Fatalf("report rows = %d, dependents = %v", rep.Rows, rep.Dependents)
	}
	ct := rep.Dependents
	want := []string{"0", "2", "3", "4", "5"}
	if strings.Join(ct.RowKeys, ",") != strings.Join(want, ",") {
		t.Fatalf("dependents row keys = %v, want %v", ct.RowKeys, want)
	}
	if len(ct.ColKeys) != 2 || strings.TrimSpace(ct.ColKeys[0]) != "Approved" {
		t.Fatalf("status keys = %q", ct.ColKeys)
	}
	for i, row := range ct.Percent {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("dependents %s: percentages sum to %v", ct.RowKeys[i], sum)
		}
	}
	// Dependents 0: one of three approved.
	if got := ct.Percent[0]; math.Abs(got[0]-100.0/3) > 1e-9 || math.Abs(got[1]-200.0/3) > 1e-9 {
		t.Fatalf("dependents 0 split = %v", got)
	}
	if len(rep.Notes) != 0 {
		t.Fatalf("unexpected notes: %v", rep.Notes)
	}
}

func TestCLI_ConfigSetPersists(t *testing.T) {
	home := isolateHome(t)

	runCmd(t, "config", "set", "backend", "gochart")
	runCmd(t, "config", "set", "hist_bins", "12")
	if err := execCmd("config", "set", "format", "gif"); err == nil {
		t.Fatalf("expected error for invalid format")
	}
	if err := execCmd("config", "set", "no_such_key", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	b, err := os.ReadFile(filepath.Join(home, ".loaneda", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(b), "backend: gochart") || !strings.Contains(string(b), "hist_bins: 12") {
		t.Fatalf("config file:\n%s", b)
	}

	data := writeDataset(t, home, "loans.csv", loansCSV)
	out := filepath.Join(home, "cfg-out")
	runCmd(t, "charts", data, "--out", out, "--quiet", "--only", analysis.NameIncomeByStatus)
	m, err := render.ReadManifest(filepath.Join(out, render.ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if m.Backend != render.BackendGoChart {
		t.Fatalf("backend from config ignored: %s", m.Backend)
	}
}
