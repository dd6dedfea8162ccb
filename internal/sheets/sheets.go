// Package sheets reads spreadsheet tabs (catalog, credentials, logins)
// exported as CSV, and writes small files derived from them.
package sheets

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/juju/errors"
)

const (
	TabCatalog     = "Inv"
	TabCredentials = "Credentials"
	TabLogin       = "Login"
	TabHours       = "Hours"
)

type Source interface {
	// ReadRows returns all rows of tab including header, short rows untouched.
	ReadRows(ctx context.Context, tab string) ([][]string, error)
	String() string
}

type Config struct {
	Backend    string `hcl:"backend"` // dir | http
	Dir        string `hcl:"dir"`
	URL        string `hcl:"url"` // template with {tab}
	TimeoutSec int    `hcl:"timeout_sec"`
}

// LoadCatalog returns catalog tab rows, header included.
func LoadCatalog(ctx context.Context, s Source) ([][]string, error) {
	rows, err := s.ReadRows(ctx, TabCatalog)
	return rows, errors.Annotatef(err, "load catalog source=%s", s.String())
}

// ReadCell returns value at A1 reference. Absent cell is ("", false, nil).
func ReadCell(ctx context.Context, s Source, tab, ref string) (string, bool, error) {
	row, col, err := ParseCellRef(ref)
	if err != nil {
		return "", false, err
	}
	rows, err := s.ReadRows(ctx, tab)
	if err != nil {
		return "", false, errors.Annotatef(err, "read cell %s!%s", tab, ref)
	}
	return Cell(rows, row, col)
}

// Cell indexes zero-based row/col tolerating short rows.
func Cell(rows [][]string, row, col int) (string, bool, error) {
	if row >= len(rows) || col >= len(rows[row]) {
		return "", false, nil
	}
	v := strings.TrimSpace(rows[row][col])
	return v, v != "", nil
}

// ParseCellRef converts "B27" into zero-based row=26 col=1. Columns may be multi-letter.
func ParseCellRef(ref string) (row, col int, err error) {
	s := strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	col = 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, errors.NotValidf("cell ref=%q", ref)
	}
	row = 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, errors.NotValidf("cell ref=%q", ref)
		}
		row = row*10 + int(s[i]-'0')
	}
	if row == 0 {
		return 0, 0, errors.NotValidf("cell ref=%q", ref)
	}
	return row - 1, col - 1, nil
}

// ParseCSV reads all records, rows may have different length.
func ParseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	return rows, errors.Annotate(err, "csv")
}

// Column returns trimmed values of column col skipping header row.
func Column(rows [][]string, col int) []string {
	if len(rows) <= 1 {
		return nil
	}
	out := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		v := ""
		if col < len(row) {
			v = strings.TrimSpace(row[col])
		}
		out = append(out, v)
	}
	return out
}

// FormatCSV is inverse of ParseCSV, used to export tabs to local files.
func FormatCSV(rows [][]string) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Annotate(err, "csv")
	}
	return []byte(b.String()), nil
}
