// Package inactivity counts down from last user activity.
// No timers inside: owner calls Check from its periodic tick,
// so Touch only moves the baseline.
package inactivity

import (
	"time"

	"github.com/temoto/atomic_clock"
)

type NowFunc func() time.Time

type Supervisor struct {
	name     string
	now      NowFunc
	last     atomic_clock.Clock
	timeout  time.Duration
	onExpire func()
	armed    bool
}

func New(name string, now NowFunc) *Supervisor {
	if now == nil {
		now = time.Now
	}
	return &Supervisor{name: name, now: now}
}

func (self *Supervisor) Name() string { return self.name }

// Arm starts or restarts countdown from now.
func (self *Supervisor) Arm(timeout time.Duration, onExpire func()) {
	self.timeout = timeout
	self.onExpire = onExpire
	self.armed = true
	self.last.Set(self.now().UnixNano())
}

// Touch resets countdown to full timeout, no-op when not armed.
func (self *Supervisor) Touch() { self.TouchAt(self.now()) }

// TouchAt resets countdown from activity time t, usually input event time.
// Older than current baseline is ignored.
func (self *Supervisor) TouchAt(t time.Time) {
	if !self.armed || t.IsZero() {
		return
	}
	at := atomic_clock.New()
	at.Set(t.UnixNano())
	if at.Sub(&self.last) > 0 {
		self.last.Set(t.UnixNano())
	}
}

func (self *Supervisor) Cancel() {
	self.armed = false
	self.onExpire = nil
}

func (self *Supervisor) Armed() bool { return self.armed }

func (self *Supervisor) Elapsed() time.Duration {
	if !self.armed {
		return 0
	}
	cur := atomic_clock.New()
	cur.Set(self.now().UnixNano())
	return cur.Sub(&self.last)
}

func (self *Supervisor) Remaining() time.Duration {
	if !self.armed {
		return 0
	}
	r := self.timeout - self.Elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// Check fires onExpire at most once per Arm. Returns true if it fired.
// Callback may re-Arm or Cancel.
func (self *Supervisor) Check() bool {
	if !self.armed || self.Elapsed() < self.timeout {
		return false
	}
	f := self.onExpire
	self.armed = false
	self.onExpire = nil
	if f != nil {
		f()
	}
	return true
}
