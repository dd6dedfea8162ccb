// Package admin implements maintenance jobs started from admin mode:
// login check, credential and location file refresh, catalog and tax reload.
package admin

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"golang.org/x/crypto/bcrypt"
)

var ErrLoginFailed = errors.New("invalid username or password")

// CellExport copies one sheet cell into a file.
type CellExport struct {
	Tab  string
	Ref  string
	File string
}

// TabExport copies whole tab into CSV file.
type TabExport struct {
	Tab  string
	File string
}

var CredentialExports = []CellExport{
	{sheets.TabCredentials, "B18", "Cloudflared_Host"},
	{sheets.TabCredentials, "B12", "GoogleFolderID.txt"},
	{sheets.TabCredentials, "B16", "MachineID.txt"},
	{sheets.TabCredentials, "B10", "GoogleCredEmail.txt"},
}

var LocationCellExports = []CellExport{
	{sheets.TabCredentials, "B24", "WeatherZipcode.txt"},
	{sheets.TabCredentials, "B25", "WeatherAPIKey.txt"},
}

var LocationTabExports = []TabExport{
	{sheets.TabCatalog, "upc_catalog.csv"},
	{sheets.TabHours, "store_hours.csv"},
}

const (
	RefPortalURL = "B21"
	RefTaxRate   = "B27"
)

type Writer interface {
	WriteFile(name string, content []byte) error
}

// VerifyLogin checks Login tab: column A users, column B passwords, first row header.
// Passwords starting with "$2" are bcrypt hashes.
func VerifyLogin(ctx context.Context, src sheets.Source, user, password string) error {
	user = strings.TrimSpace(user)
	if user == "" || password == "" {
		return errors.NotValidf("username and password required")
	}
	rows, err := src.ReadRows(ctx, sheets.TabLogin)
	if err != nil {
		return errors.Annotate(err, "admin login")
	}
	users := sheets.Column(rows, 0)
	passwords := sheets.Column(rows, 1)
	for i, u := range users {
		if u == "" || u != user {
			continue
		}
		if checkPassword(passwords[i], password) {
			return nil
		}
	}
	return errors.Trace(ErrLoginFailed)
}

func checkPassword(stored, given string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// ExportCells writes each cell to its file. Absent cell writes empty file.
// Returns names written; errors of individual files are folded.
func ExportCells(ctx context.Context, src sheets.Source, w Writer, exports []CellExport) ([]string, error) {
	cache := make(map[string][][]string)
	written := make([]string, 0, len(exports))
	errs := make([]error, 0)
	for _, x := range exports {
		rows, ok := cache[x.Tab]
		if !ok {
			var err error
			if rows, err = src.ReadRows(ctx, x.Tab); err != nil {
				return written, errors.Annotatef(err, "export tab=%s", x.Tab)
			}
			cache[x.Tab] = rows
		}
		row, col, err := sheets.ParseCellRef(x.Ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		value, _, _ := sheets.Cell(rows, row, col)
		if err = w.WriteFile(x.File, []byte(value)); err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, x.File)
	}
	return written, helpers.FoldErrors(errs)
}

func ExportTabs(ctx context.Context, src sheets.Source, w Writer, exports []TabExport) ([]string, error) {
	written := make([]string, 0, len(exports))
	errs := make([]error, 0)
	for _, x := range exports {
		rows, err := src.ReadRows(ctx, x.Tab)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "export tab=%s", x.Tab))
			continue
		}
		b, err := sheets.FormatCSV(rows)
		if err == nil {
			err = w.WriteFile(x.File, b)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written = append(written, x.File)
	}
	return written, helpers.FoldErrors(errs)
}

// PortalURL returns "" when not configured.
func PortalURL(ctx context.Context, src sheets.Source) (string, error) {
	v, _, err := sheets.ReadCell(ctx, src, sheets.TabCredentials, RefPortalURL)
	return v, err
}
