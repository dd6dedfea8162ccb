// Package input reads kiosk hardware (push buttons, barcode scanner, touch
// screen) and fans events out to subscribers.
package input

import (
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/log2"
)

// Source is one device. Read blocks until next event.
// io.EOF means device went away for good.
type Source interface {
	Read() (types.Event, error)
	String() string
}

type subscriber struct {
	ch   chan types.Event
	stop <-chan struct{}
}

// Dispatch merges all sources into one ordered stream.
// Subscriber channels are never closed, subscriber leaves by closing its stop.
type Dispatch struct {
	Log *log2.Log

	events chan types.Event
	stop   <-chan struct{}
	mu     sync.Mutex
	subs   map[string]subscriber
}

func NewDispatch(log *log2.Log, stop <-chan struct{}) *Dispatch {
	return &Dispatch{
		Log:    log,
		events: make(chan types.Event),
		stop:   stop,
		subs:   make(map[string]subscriber),
	}
}

// SubscribeChan panics on duplicate live name, it is a wiring bug.
// Name of subscriber whose stop is closed may be reused.
func (self *Dispatch) SubscribeChan(name string, stop <-chan struct{}) <-chan types.Event {
	self.mu.Lock()
	defer self.mu.Unlock()
	if old, ok := self.subs[name]; ok && !closed(old.stop) {
		panic("code error input duplicate subscriber=" + name)
	}
	ch := make(chan types.Event)
	self.subs[name] = subscriber{ch: ch, stop: stop}
	return ch
}

// Emit blocks until event is taken by Run or dispatch stops.
func (self *Dispatch) Emit(e types.Event) bool {
	select {
	case self.events <- e:
		return true
	case <-self.stop:
		return false
	}
}

// Run starts one reader per source and delivers events until stop.
func (self *Dispatch) Run(sources []Source) {
	for _, src := range sources {
		go self.read(src)
	}
	for {
		select {
		case e := <-self.events:
			self.Log.Debugf("input event=%s", e.String())
			if n := self.deliver(e); n == 0 {
				self.Log.Errorf("input no subscribers, dropped event=%s", e.String())
			}
		case <-self.stop:
			return
		}
	}
}

func (self *Dispatch) deliver(e types.Event) int {
	self.mu.Lock()
	defer self.mu.Unlock()
	n := 0
	for name, s := range self.subs {
		select {
		case s.ch <- e:
			n++
		case <-s.stop:
			delete(self.subs, name)
		case <-self.stop:
			return n
		}
	}
	return n
}

// read gives up on first error. Missing hardware is reported, kiosk keeps running.
func (self *Dispatch) read(src Source) {
	name := src.String()
	for {
		e, err := src.Read()
		switch {
		case err == nil:
		case errors.Cause(err) == io.EOF:
			self.Log.Infof("input source=%s closed", name)
			return
		default:
			self.Log.Error(errors.Annotatef(err, "input source=%s", name))
			return
		}
		if e.Source == "" {
			e.Source = name
		}
		if !self.Emit(e) {
			return
		}
	}
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
