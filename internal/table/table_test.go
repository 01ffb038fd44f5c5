package table

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var customerRows = []string{
	"CustomerID,Name,Region,JoinDate,LoyaltyPoints,PreferredContactMethod",
	"1001,William White,East,2021-11-11,1200,Email",
	"1002,Zoe Young,West,2023-02-14,450,call",
	"1003,Liam Lee,North,2022-06-01,,text",
	"1004,Emma Ng,South,2020-03-09,980,  Mail ",
}

func writeFixture(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestReadFileLoadsTextColumns(t *testing.T) {
	p := writeFixture(t, "customers_data.csv", customerRows)
	df, err := ReadFile(p, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if df.Nrow() != 4 || df.Ncol() != 6 {
		t.Fatalf("dims = %dx%d, want 4x6", df.Nrow(), df.Ncol())
	}
	if got := df.Names()[4]; got != "LoyaltyPoints" {
		t.Fatalf("column 4 = %q", got)
	}
	vals, ok := Values(df, "LoyaltyPoints")
	if !ok {
		t.Fatalf("LoyaltyPoints missing")
	}
	if vals[2] != "" {
		t.Fatalf("missing cell = %q, want empty", vals[2])
	}
	if vals[0] != "1200" {
		t.Fatalf("first value = %q", vals[0])
	}
}

func TestReadFileHeaderOnly(t *testing.T) {
	p := writeFixture(t, "empty.csv", []string{"A,B,C"})
	df, err := ReadFile(p, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if df.Nrow() != 0 || df.Ncol() != 3 {
		t.Fatalf("dims = %dx%d, want 0x3", df.Nrow(), df.Ncol())
	}
}

func TestReadFilePadsShortRows(t *testing.T) {
	p := writeFixture(t, "short.tsv", []string{"a\tb\tc", "1\t2", "3\t4\t5"})
	df, err := ReadFile(p, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	vals, _ := Values(df, "c")
	if vals[0] != "" || vals[1] != "5" {
		t.Fatalf("c = %#v", vals)
	}
}

func TestReadFileKeepsRawWhitespace(t *testing.T) {
	p := writeFixture(t, "raw.csv", []string{"Name, Region", "Ann, North", "Bo,  South "})
	df, err := ReadFile(p, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := df.Names()[1]; got != " Region" {
		t.Fatalf("header = %q, want %q", got, " Region")
	}
	vals, _ := Values(df, " Region")
	if vals[0] != " North" || vals[1] != "  South " {
		t.Fatalf("region = %#v", vals)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	p := writeFixture(t, "in.csv", customerRows)
	df, err := ReadFile(p, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := filepath.Join(t.TempDir(), "prepared", "out.csv")
	if err := WriteFile(out, df, Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5: %q", len(lines), string(b))
	}
	if lines[0] != customerRows[0] {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[3] != "1003,Liam Lee,North,2022-06-01,,text" {
		t.Fatalf("row 3 = %q", lines[3])
	}
}

func TestInferKind(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want Kind
	}{
		{"numeric", []string{"1", " 2.5", "", "-3e2"}, KindNumeric},
		{"temporal", []string{"2021-11-11", "2023/02/14", "NA"}, KindTemporal},
		{"text", []string{"North", "South"}, KindText},
		{"mixed", []string{"12", "twelve"}, KindUnknown},
		{"all missing", []string{"", "NaN", "null"}, KindUnknown},
		{"empty", nil, KindUnknown},
	}
	for _, c := range cases {
		if got := InferKind(c.in); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestIsMissingSentinels(t *testing.T) {
	for _, v := range []string{"", "  ", "NA", "n/a", "None", "#N/A", "<NA>", "-nan", "NULL", "#N/A N/A", "-1.#IND", "1.#QNAN", "<nil>"} {
		if !IsMissing(v) {
			t.Errorf("IsMissing(%q) = false", v)
		}
	}
	for _, v := range []string{"0", "North", "nano", "n.a."} {
		if IsMissing(v) {
			t.Errorf("IsMissing(%q) = true", v)
		}
	}
}

func TestColumnKindOnFrame(t *testing.T) {
	df := FromRecords([]string{"id", "when", "who"}, [][]string{
		{"1", "2024-01-02", "a"},
		{"2", "2024-01-03", "b"},
	})
	if k := ColumnKind(df, "id"); k != KindNumeric {
		t.Fatalf("id kind = %q", k)
	}
	if k := ColumnKind(df, "when"); k != KindTemporal {
		t.Fatalf("when kind = %q", k)
	}
	if k := ColumnKind(df, "who"); k != KindText {
		t.Fatalf("who kind = %q", k)
	}
	if k := ColumnKind(df, "nope"); k != KindUnknown {
		t.Fatalf("nope kind = %q", k)
	}
}

func TestQuantileLinear(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if q := Quantile(sorted, 0.25); math.Abs(q-1.75) > 1e-12 {
		t.Fatalf("q1 = %v, want 1.75", q)
	}
	if q := Quantile(sorted, 0.75); math.Abs(q-3.25) > 1e-12 {
		t.Fatalf("q3 = %v, want 3.25", q)
	}
	if q := Quantile([]float64{0.1, 0.1, 0.1}, 0.25); q != 0.1 {
		t.Fatalf("constant q1 = %v", q)
	}
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Fatalf("empty quantile should be NaN")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 || s.Min != 2 || s.Max != 9 || s.Mean != 5 {
		t.Fatalf("summary = %#v", s)
	}
	if math.Abs(s.Std-2.138089935) > 1e-6 {
		t.Fatalf("std = %v", s.Std)
	}
	if s.Median != 4.5 {
		t.Fatalf("median = %v", s.Median)
	}
}

func TestParseDelimiter(t *testing.T) {
	if r, err := ParseDelimiter("tab"); err != nil || r != '\t' {
		t.Fatalf("tab = %q, %v", r, err)
	}
	if r, err := ParseDelimiter(""); err != nil || r != 0 {
		t.Fatalf("auto = %q, %v", r, err)
	}
	if _, err := ParseDelimiter("#"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}
