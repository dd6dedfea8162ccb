package cart

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/log2"
)

// Counter issues YYDDDNNN transaction ids from per-day counter files.
type Counter struct {
	dir    string
	prefix string
	log    *log2.Log

	// last issued, survives failed file writes
	memDay string
	memSeq int
}

func NewCounter(dir, prefix string, log *log2.Log) *Counter {
	if prefix == "" {
		prefix = "transaction_count_"
	}
	return &Counter{dir: dir, prefix: prefix, log: log}
}

func DayKey(t time.Time) string { return fmt.Sprintf("%02d%03d", t.Year()%100, t.YearDay()) }

func FormatID(day string, seq int) string { return fmt.Sprintf("%s%03d", day, seq) }

func (self *Counter) Path(day string) string {
	return filepath.Join(self.dir, self.prefix+day+".txt")
}

// Next always returns usable id. Error wraps ErrCounterPersistFailed
// when the new value could not be written, id is still valid for use.
func (self *Counter) Next(now time.Time) (string, error) {
	day := DayKey(now)
	seq := self.read(day)
	if self.memDay == day && self.memSeq > seq {
		seq = self.memSeq
	}
	seq++
	self.memDay, self.memSeq = day, seq
	id := FormatID(day, seq)

	if err := self.write(day, seq); err != nil {
		return id, errors.Annotatef(errors.Wrap(err, ErrCounterPersistFailed), "counter path=%s", self.Path(day))
	}
	return id, nil
}

func (self *Counter) read(day string) int {
	path := self.Path(day)
	b, err := ioutil.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			self.log.Errorf("counter read path=%s err=%v, assume 0", path, err)
		}
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 {
		self.log.Errorf("counter corrupt path=%s content=%q, assume 0", path, b)
		return 0
	}
	return n
}

func (self *Counter) write(day string, seq int) error {
	if err := os.MkdirAll(self.dir, 0755); err != nil {
		return err
	}
	return writeFileAtomic(self.Path(day), []byte(strconv.Itoa(seq)))
}

func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
