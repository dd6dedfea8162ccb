package catalog

import (
	"sync/atomic"

	"github.com/vendlasvegas/SelfCheck/log2"
)

// Store holds current Index. Swap replaces it whole,
// concurrent readers see either old or new index, never partial.
type Store struct {
	log *log2.Log
	v   atomic.Value // *Index
}

func NewStore(log *log2.Log) *Store {
	s := &Store{log: log}
	s.v.Store(Empty())
	return s
}

func (self *Store) Load() *Index { return self.v.Load().(*Index) }

func (self *Store) Swap(idx *Index) *Index {
	if idx == nil {
		idx = Empty()
	}
	old := self.v.Load().(*Index)
	self.v.Store(idx)
	if idx.Collisions() != 0 {
		self.log.Infof("catalog data quality: %d variant collisions, last row wins", idx.Collisions())
	}
	self.log.Infof("catalog swap %s", idx.String())
	return old
}

func (self *Store) Lookup(scanned string) (*Record, bool) { return self.Load().Lookup(scanned) }
func (self *Store) Len() int                              { return self.Load().Len() }
