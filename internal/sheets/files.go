package sheets

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// FileWriter writes credential and location files under Dir.
type FileWriter struct{ Dir string }

func (self FileWriter) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(self.Dir, name)
}

// WriteFile replaces content atomically.
func (self FileWriter) WriteFile(name string, content []byte) error {
	path := self.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Annotatef(err, "write path=%s", path)
	}
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, content, 0644); err != nil {
		return errors.Annotatef(err, "write path=%s", path)
	}
	return errors.Annotatef(os.Rename(tmp, path), "write path=%s", path)
}
