// Package log2 is leveled logger shared by all kiosk components.
// Level change is safe while other goroutines log.
// Errors may be forwarded to telemetry through error func hook,
// so low level packages report remotely without importing tele.
// Test logger writes into t.Logf, parallel tests keep their output apart.
package log2

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync/atomic"
	"testing"
)

const (
	// int type keeps flags from being passed as level
	Lmicroseconds     int = log.Lmicroseconds
	Lshortfile        int = log.Lshortfile
	LInteractiveFlags int = log.Ltime | Lshortfile | Lmicroseconds
	LServiceFlags     int = Lshortfile
	LTestFlags        int = Lshortfile | Lmicroseconds
)

type Level int32

const (
	LError Level = iota
	LInfo
	LDebug
	LAll Level = math.MaxInt32
)

var levelTags = [...]string{LError: "error: ", LInfo: "", LDebug: "debug: "}

type ErrorFunc func(error)

// Log methods are nil-safe, nil *Log discards everything.
type Log struct {
	l       *log.Logger
	w       io.Writer
	level   int32
	fatalf  func(format string, args ...interface{})
	errfunc atomic.Value // ErrorFunc
}

func NewStderr(level Level) *Log { return NewWriter(os.Stderr, level) }

func NewWriter(w io.Writer, level Level) *Log {
	return &Log{
		l:     log.New(w, "", log.Ltime|Lshortfile),
		w:     w,
		level: int32(level),
	}
}

type testWriter struct{ t testing.TB }

func (tw testWriter) Write(b []byte) (int, error) {
	tw.t.Logf("%s", b)
	return len(b), nil
}

// NewTest logs into t.Logf and turns Fatal into t.Fatalf.
func NewTest(t testing.TB, level Level) *Log {
	self := NewWriter(testWriter{t}, level)
	self.fatalf = t.Fatalf
	return self
}

// Clone keeps output, flags and prefix. Error func is not copied.
func (self *Log) Clone(level Level) *Log {
	if self == nil {
		return nil
	}
	c := NewWriter(self.w, level)
	c.l.SetFlags(self.l.Flags())
	c.l.SetPrefix(self.l.Prefix())
	c.fatalf = self.fatalf
	return c
}

func (self *Log) SetLevel(level Level) {
	if self != nil {
		atomic.StoreInt32(&self.level, int32(level))
	}
}

func (self *Log) SetFlags(flags int) {
	if self != nil {
		self.l.SetFlags(flags)
	}
}

func (self *Log) SetPrefix(prefix string) {
	if self != nil {
		self.l.SetPrefix(prefix)
	}
}

// SetErrorFunc installs hook called with every Error/Errorf.
func (self *Log) SetErrorFunc(f ErrorFunc) {
	if self != nil {
		self.errfunc.Store(f)
	}
}

func (self *Log) Enabled(level Level) bool {
	return self != nil && atomic.LoadInt32(&self.level) >= int32(level)
}

// out depth points caller of public method.
func (self *Log) out(level Level, s string) {
	if self.Enabled(level) {
		tag := ""
		if int(level) < len(levelTags) {
			tag = levelTags[level]
		}
		_ = self.l.Output(3, tag+s)
	}
}

func (self *Log) Error(args ...interface{}) {
	s := fmt.Sprint(args...)
	self.out(LError, s)
	if ef := self.errorFunc(); ef != nil {
		if len(args) == 1 {
			if e, ok := args[0].(error); ok {
				ef(e)
				return
			}
		}
		ef(errors.New(s))
	}
}

func (self *Log) Errorf(format string, args ...interface{}) {
	self.out(LError, fmt.Sprintf(format, args...))
	if ef := self.errorFunc(); ef != nil {
		ef(fmt.Errorf(format, args...))
	}
}

func (self *Log) Info(args ...interface{})                 { self.out(LInfo, fmt.Sprint(args...)) }
func (self *Log) Infof(format string, args ...interface{})  { self.out(LInfo, fmt.Sprintf(format, args...)) }
func (self *Log) Debug(args ...interface{})                { self.out(LDebug, fmt.Sprint(args...)) }
func (self *Log) Debugf(format string, args ...interface{}) { self.out(LDebug, fmt.Sprintf(format, args...)) }

// Printf and Println let MQTT client log at debug level without tag.
func (self *Log) Printf(format string, args ...interface{}) {
	if self.Enabled(LDebug) {
		_ = self.l.Output(2, fmt.Sprintf(format, args...))
	}
}

func (self *Log) Println(args ...interface{}) {
	if self.Enabled(LDebug) {
		_ = self.l.Output(2, fmt.Sprint(args...))
	}
}

func (self *Log) Fatalf(format string, args ...interface{}) {
	if self != nil && self.fatalf != nil {
		self.fatalf(format, args...)
		return
	}
	self.out(LError, "fatal: "+fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (self *Log) Fatal(args ...interface{}) {
	if self != nil && self.fatalf != nil {
		self.fatalf("%s", fmt.Sprint(args...))
		return
	}
	self.out(LError, "fatal: "+fmt.Sprint(args...))
	os.Exit(1)
}

func (self *Log) errorFunc() ErrorFunc {
	if self == nil {
		return nil
	}
	f, _ := self.errfunc.Load().(ErrorFunc)
	return f
}
