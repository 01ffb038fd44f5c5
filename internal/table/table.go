package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options controls how delimited files are read and written.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension (tab for .tsv, comma otherwise).
	Delimiter rune
	// TrimLeadingSpace drops leading whitespace in unquoted fields.
	TrimLeadingSpace bool
}

// DefaultOptions returns defaults for reading raw extracts. Cells and headers are
// kept exactly as extracted; trimming is left to the cleaning steps.
func DefaultOptions() Options {
	return Options{}
}

// ReadFile loads a delimited file into a data frame. Every column is held as text;
// classification happens on demand (see ColumnKind).
func ReadFile(path string, opt Options) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	df, err := Read(f, opt)
	if err != nil {
		return df, fmt.Errorf("%s: %w", path, err)
	}
	return df, nil
}

// Read loads delimited text from r. The first record is the header.
func Read(r io.Reader, opt Options) (dataframe.DataFrame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = opt.TrimLeadingSpace
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dataframe.DataFrame{}, errors.New("read header: empty file")
		}
		return dataframe.DataFrame{}, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	ncol := len(header)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return dataframe.DataFrame{}, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		// Normalize length
		row := make([]string, ncol)
		copy(row, rec)
		rows = append(rows, row)
	}
	return FromRecords(header, rows), nil
}

// FromRecords builds a text-typed data frame from a header and row-oriented records.
// Short rows are padded with empty (missing) cells and long rows are truncated.
func FromRecords(header []string, rows [][]string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for j, name := range header {
		vals := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				vals[i] = row[j]
			}
		}
		cols[j] = series.New(vals, series.String, name)
	}
	return dataframe.New(cols...)
}

// WithColumn returns a copy of df where the named column holds values.
// The column keeps its position; an unknown name returns df unchanged.
func WithColumn(df dataframe.DataFrame, name string, values []string) dataframe.DataFrame {
	names := df.Names()
	cols := make([]series.Series, 0, len(names))
	found := false
	for _, n := range names {
		if n == name {
			cols = append(cols, series.New(values, series.String, n))
			found = true
			continue
		}
		cols = append(cols, df.Col(n))
	}
	if !found {
		return df
	}
	return dataframe.New(cols...)
}

// Values returns the raw cell text of a column and whether the column exists.
func Values(df dataframe.DataFrame, name string) ([]string, bool) {
	if !HasColumn(df, name) {
		return nil, false
	}
	s := df.Col(name)
	out := make([]string, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = e.String()
	}
	return out, true
}

// HasColumn reports whether df carries a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Rows returns the body of df as row-oriented cell text, column order preserved.
func Rows(df dataframe.DataFrame) [][]string {
	names := df.Names()
	out := make([][]string, df.Nrow())
	for i := range out {
		out[i] = make([]string, len(names))
	}
	for j, n := range names {
		vals, _ := Values(df, n)
		for i, v := range vals {
			out[i][j] = v
		}
	}
	return out
}

// Encode renders df as delimited text with a header row.
func Encode(w io.Writer, df dataframe.DataFrame, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(df.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range Rows(df) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes df to path atomically.
func WriteFile(path string, df dataframe.DataFrame, opt Options) error {
	if df.Err != nil {
		return fmt.Errorf("write csv: %w", df.Err)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, df, delim); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; the extension is the only hint we trust.
	return ','
}

// ParseDelimiter maps a user-facing delimiter name to a rune. Empty means auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", s)
	}
}
