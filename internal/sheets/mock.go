package sheets

import (
	"context"
	"sync"

	"github.com/juju/errors"
)

// Mock is in-memory Source for tests and dev console.
type Mock struct {
	mu    sync.Mutex
	Tabs  map[string][][]string
	Err   error
	Calls int
	Wait  chan struct{} // if set, ReadRows blocks until closed or ctx done
}

func NewMock() *Mock { return &Mock{Tabs: make(map[string][][]string)} }

func (self *Mock) String() string { return "mock" }

func (self *Mock) Set(tab string, rows [][]string) {
	self.mu.Lock()
	self.Tabs[tab] = rows
	self.mu.Unlock()
}

// SetCell grows tab as needed.
func (self *Mock) SetCell(tab, ref, value string) {
	row, col, err := ParseCellRef(ref)
	if err != nil {
		panic("code error " + err.Error())
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	rows := self.Tabs[tab]
	for len(rows) <= row {
		rows = append(rows, nil)
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = value
	self.Tabs[tab] = rows
}

func (self *Mock) SetErr(err error) {
	self.mu.Lock()
	self.Err = err
	self.mu.Unlock()
}

func (self *Mock) ReadRows(ctx context.Context, tab string) ([][]string, error) {
	self.mu.Lock()
	self.Calls++
	wait := self.Wait
	self.mu.Unlock()
	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.Err != nil {
		return nil, self.Err
	}
	rows, ok := self.Tabs[tab]
	if !ok {
		return nil, errors.NotFoundf("sheet tab=%s", tab)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}
