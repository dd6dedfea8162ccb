package catalog

import (
	"github.com/vendlasvegas/SelfCheck/internal/persist"
	"github.com/vendlasvegas/SelfCheck/log2"
)

// Snapshot keeps last successfully loaded sheet rows (with header),
// used when catalog source is unreachable at startup.
type Snapshot struct {
	store *persist.Store
}

type snapshotDoc struct {
	Sheet [][]string `json:"sheet"`
}

// Init with enabled=false makes Save and Restore no-op.
func (self *Snapshot) Init(root string, enabled bool, log *log2.Log) {
	if !enabled {
		root = ""
	}
	self.store = persist.Open(root, "catalog", log)
}

func (self *Snapshot) Save(sheet [][]string) error {
	return self.store.Save(snapshotDoc{Sheet: sheet})
}

// Restore returns nil sheet when no snapshot stored.
func (self *Snapshot) Restore() ([][]string, error) {
	var doc snapshotDoc
	if found, err := self.store.Load(&doc); err != nil || !found {
		return nil, err
	}
	return doc.Sheet, nil
}
