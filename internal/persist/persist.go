// Package persist keeps small JSON documents on disk so they survive power loss.
// Writes go through extremofile: atomic replace with checksum and one backup copy.
package persist

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/extremofile"
	"github.com/vendlasvegas/SelfCheck/log2"
)

// Store is one named document under root. Zero Store is disabled:
// Save does nothing, Load finds nothing.
type Store struct {
	name string
	log  *log2.Log
	mu   sync.Mutex
	file interface {
		Read() ([]byte, error)
		Write([]byte) (int, error)
	}
}

// Open with empty root returns disabled store.
func Open(root, name string, log *log2.Log) *Store {
	self := &Store{name: name, log: log}
	if root == "" {
		log.Debugf("persist name=%s disabled", name)
		return self
	}
	self.file = extremofile.New(extremofile.Config{
		Dir:      filepath.Join(root, name),
		DirPerm:  0755,
		FilePerm: 0644,
	})
	return self
}

func (self *Store) Enabled() bool { return self != nil && self.file != nil }

// Load decodes stored document into v, found=false when nothing was saved.
// Damaged primary copy is logged and backup is used.
func (self *Store) Load(v interface{}) (found bool, err error) {
	if !self.Enabled() {
		return false, nil
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	start := time.Now()
	b, err := self.file.Read()
	self.log.Debugf("persist name=%s read len=%d duration=%v", self.name, len(b), time.Since(start))
	switch {
	case b == nil && err != nil && extremofile.IsCritical(err):
		return false, errors.Annotatef(err, "persist name=%s read", self.name)
	case b == nil:
		return false, nil
	case err != nil:
		self.log.Errorf("persist name=%s recovered corrupt=%t err=%v", self.name, extremofile.IsCorrupt(err), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, errors.Annotatef(err, "persist name=%s decode", self.name)
	}
	return true, nil
}

func (self *Store) Save(v interface{}) error {
	if !self.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Annotatef(err, "persist name=%s encode", self.name)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	start := time.Now()
	if _, err := self.file.Write(b); err != nil {
		return errors.Annotatef(err, "persist name=%s write", self.name)
	}
	self.log.Debugf("persist name=%s write len=%d duration=%v", self.name, len(b), time.Since(start))
	return nil
}
