package state

import (
	"os"
	"path/filepath"
)

// FullReader resolves config names and reads whole sources.
// ReadAll returns nil, nil when source does not exist.
type FullReader interface {
	Normalize(name string) string
	ReadAll(path string) ([]byte, error)
}

// OsFullReader resolves relative names against directory of first config file.
type OsFullReader struct{ dir string }

// NewOsFullReader with unresolvable dir falls back to relative paths.
func NewOsFullReader(dir string) *OsFullReader {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &OsFullReader{dir: dir}
}

func (self *OsFullReader) Normalize(name string) string {
	if !filepath.IsAbs(name) {
		name = filepath.Join(self.dir, name)
	}
	return filepath.Clean(name)
}

func (*OsFullReader) ReadAll(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return b, err
}

// MockFullReader serves config sources from memory, keys are used as is.
type MockFullReader map[string]string

func NewMockFullReader(sources map[string]string) MockFullReader { return MockFullReader(sources) }

func (MockFullReader) Normalize(name string) string { return filepath.Clean(name) }

func (self MockFullReader) ReadAll(name string) ([]byte, error) {
	if s, ok := self[name]; ok {
		return []byte(s), nil
	}
	return nil, nil
}
