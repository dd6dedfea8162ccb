// Package catalog maps every barcode variant to canonical product record.
package catalog

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/barcode"
)

var ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")

// Index is immutable after Build. Replace whole index to reload.
type Index struct {
	keys       map[string]*Record
	records    []*Record
	collisions int
	skipped    int
}

var empty = &Index{keys: map[string]*Record{}}

func Empty() *Index { return empty }

// Build indexes data rows (no header). Rows with empty UPC are skipped.
// Variant shared with a different row: counted as collision, last row wins.
func Build(rows [][]string) *Index {
	idx := &Index{
		keys:    make(map[string]*Record, len(rows)*4),
		records: make([]*Record, 0, len(rows)),
	}
	for _, row := range rows {
		rec := RecordFromRow(row)
		if rec.UPC == "" {
			idx.skipped++
			continue
		}
		idx.records = append(idx.records, rec)
		for _, v := range barcode.Expand(rec.UPC, barcode.OriginCatalogCell) {
			if prev, ok := idx.keys[v]; ok && prev != rec {
				idx.collisions++
			}
			idx.keys[v] = rec
		}
	}
	return idx
}

// BuildSheet drops header row, as delivered by sheet collaborators.
func BuildSheet(sheet [][]string) *Index {
	if len(sheet) <= 1 {
		return Empty()
	}
	return Build(sheet[1:])
}

// Lookup probes scanned code variants in order, first hit wins.
func (self *Index) Lookup(scanned string) (*Record, bool) {
	if self == nil || len(self.keys) == 0 {
		return nil, false
	}
	for _, v := range barcode.Expand(scanned, barcode.OriginScan) {
		if rec, ok := self.keys[v]; ok {
			return rec, true
		}
	}
	return nil, false
}

func (self *Index) MustLookup(scanned string) *Record {
	rec, ok := self.Lookup(scanned)
	if !ok {
		panic(errors.NotFoundf("code error catalog MustLookup code=%s", scanned))
	}
	return rec
}

func (self *Index) Len() int {
	if self == nil {
		return 0
	}
	return len(self.records)
}

func (self *Index) Keys() int {
	if self == nil {
		return 0
	}
	return len(self.keys)
}

func (self *Index) Collisions() int {
	if self == nil {
		return 0
	}
	return self.collisions
}

func (self *Index) Skipped() int {
	if self == nil {
		return 0
	}
	return self.skipped
}

// Records in sheet order.
func (self *Index) Records() []*Record {
	if self == nil {
		return nil
	}
	return self.records
}

func (self *Index) String() string {
	return fmt.Sprintf("catalog(records=%d keys=%d collisions=%d skipped=%d)",
		self.Len(), self.Keys(), self.Collisions(), self.Skipped())
}
