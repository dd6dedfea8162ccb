package sheets

import (
	"context"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// Dir reads <Tab>.csv files from local directory, e.g. synced by external tool.
type Dir struct{ Path string }

func NewDir(path string) *Dir { return &Dir{Path: path} }

func (self *Dir) String() string { return "dir:" + self.Path }

func (self *Dir) ReadRows(ctx context.Context, tab string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(self.Path, tab+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("sheet tab=%s path=%s", tab, path)
		}
		return nil, errors.Annotatef(err, "sheet tab=%s", tab)
	}
	defer f.Close()
	rows, err := ParseCSV(f)
	return rows, errors.Annotatef(err, "sheet tab=%s path=%s", tab, path)
}
