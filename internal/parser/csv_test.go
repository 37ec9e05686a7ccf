package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/loaneda-cli/internal/analysis"
	"github.com/KaramelBytes/loaneda-cli/internal/parser"
	"github.com/go-gota/gota/series"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseFileCSV_KeepsRawHeaders(t *testing.T) {
	p := writeFile(t, "loans.csv", "loan_id, income_annum, loan_status\n"+
		"1,9600000, Approved\n"+
		"2,4100000, Rejected\n")
	df, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("shape = %dx%d", df.Nrow(), df.Ncol())
	}
	// Header cleanup belongs to the analyzer, the loader keeps names as written.
	if got := df.Names()[1]; got != " income_annum" {
		t.Fatalf("header = %q", got)
	}
	if v := df.Col(" income_annum").Float()[0]; v != 9600000 {
		t.Fatalf("income[0] = %v", v)
	}
}

func TestParseFileCSV_PaddedCellsLoadAsNumbers(t *testing.T) {
	p := writeFile(t, "loan_approval_dataset.csv",
		"loan_id, no_of_dependents, education, self_employed, income_annum, loan_amount, cibil_score, loan_status\n"+
			"1, 2, Graduate, No, 9600000, 29900000, 778, Approved\n"+
			"2, 0, Not Graduate, Yes, 4100000, 12200000, 417, Rejected\n"+
			"3, 3, Graduate, No, 9100000, 29700000, 506, Rejected\n"+
			"4, 3, Graduate, No, 8200000, 30700000, 701, Approved\n")
	df, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	types := df.Types()
	for i, name := range df.Names() {
		switch name {
		case " no_of_dependents", " income_annum", " loan_amount", " cibil_score":
			if types[i] != series.Int && types[i] != series.Float {
				t.Fatalf("%q loaded as %s, want numeric (types %v)", name, types[i], types)
			}
		}
	}
	if got := df.Col(" cibil_score").Float()[3]; got != 701 {
		t.Fatalf("cibil[3] = %v", got)
	}
	// Category cells are left as written; the analyzer sees " Approved".
	if got := df.Col(" loan_status").Records()[0]; got != " Approved" {
		t.Fatalf("status[0] = %q", got)
	}

	a, err := analysis.New(df)
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	for _, o := range a.All() {
		if o.Err != nil {
			t.Fatalf("%s: %v", o.Name, o.Err)
		}
	}
}

func TestParseFileSniffsDelimiter(t *testing.T) {
	p := writeFile(t, "loans.csv", "a;b;c\n1;2;3\n")
	df, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Ncol() != 3 {
		t.Fatalf("semicolon file read as %d columns", df.Ncol())
	}

	tsv := writeFile(t, "loans.tsv", "a,x\tb\n1\t2\n")
	df, err = parser.ParseFile(tsv, parser.Options{})
	if err != nil {
		t.Fatalf("parse tsv: %v", err)
	}
	if df.Ncol() != 2 || df.Names()[0] != "a,x" {
		t.Fatalf("tsv names = %v", df.Names())
	}
}

func TestParseFileJSON(t *testing.T) {
	p := writeFile(t, "loans.json", `[
		{"loan_status": "Approved", "income_annum": 100000, "loan_amount": 300000},
		{"loan_status": "Rejected", "income_annum": 200000, "loan_amount": 100000}
	]`)
	df, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("shape = %dx%d", df.Nrow(), df.Ncol())
	}
}

func TestParseFileErrors(t *testing.T) {
	if _, err := parser.ParseFile(writeFile(t, "loans.xlsx", "PK"), parser.Options{}); !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("xlsx: err = %v", err)
	}
	if _, err := parser.ParseFile(writeFile(t, "empty.csv", "  \n"), parser.Options{}); err == nil {
		t.Fatalf("expected error for empty csv")
	}
	if _, err := parser.ParseFile(filepath.Join(t.TempDir(), "missing.csv"), parser.Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, "tab": '\t', `\t`: '\t', ";": ';', "comma": ','}
	for in, want := range cases {
		got, err := parser.ParseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("ParseDelimiter(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := parser.ParseDelimiter("::"); err == nil {
		t.Fatalf("expected error for multi-char delimiter")
	}
}
