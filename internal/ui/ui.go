package ui

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	ui_config "github.com/vendlasvegas/SelfCheck/internal/ui/config"
)

const eventQueueSize = 64

// UI is the mode controller. Loop owns all mode state;
// other goroutines only Post events and read View.
type UI struct { //nolint:maligned
	Renderer types.Renderer

	config  *ui_config.Config
	g       *state.Global
	// events is the only ingress queue, hardware and Post share it
	events  <-chan types.Event
	emit    func(types.Event) bool
	modes   [modeCount]Mode
	current Mode
	failed  bool
	pending ModeKind

	// session increments on every mode switch, job results of older sessions are dropped
	session   uint64
	jobCancel context.CancelFunc
	jobCtx    context.Context

	lastButton [types.ButtonCount]time.Time

	viewMu sync.Mutex
	view   types.View
	seq    uint64

	XXX_testHook func(ModeKind)
}

func (self *UI) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)
	self.config = &self.g.Config.UI
	if self.config.Window.Width == 0 {
		self.config.Window.Width = ui_config.DefaultWidth
	}
	if self.config.Window.Height == 0 {
		self.config.Window.Height = ui_config.DefaultHeight
	}
	if self.Renderer == nil {
		self.Renderer = types.RendererFunc(func(v types.View) {
			self.g.Log.Debugf("ui view mode=%s screen=%s message=%q", v.Mode, v.Screen, v.Message)
		})
	}

	if in := self.g.Hardware.Input; in != nil {
		self.events = in.SubscribeChan("ui", self.g.Alive.StopChan())
		self.emit = in.Emit
	} else {
		ch := make(chan types.Event, eventQueueSize)
		stopch := self.g.Alive.StopChan()
		self.events = ch
		self.emit = func(e types.Event) bool {
			select {
			case ch <- e:
				return true
			case <-stopch:
				return false
			}
		}
	}

	self.modes[ModeIdle] = newIdle(self)
	self.modes[ModePriceCheck] = newPriceCheck(self)
	self.modes[ModeAdmin] = newAdmin(self)
	self.modes[ModeCart] = newCart(self)
	return nil
}

// Post queues event for control loop behind hardware events already emitted.
// Blocks while queue is busy, events are never dropped.
// Returns false if controller is stopping. Must not be called from Loop goroutine.
func (self *UI) Post(e types.Event) bool {
	if e.Time.IsZero() {
		e.Time = self.g.Now()
	}
	select {
	case <-self.g.Alive.StopChan():
		return false
	default:
	}
	return self.emit(e)
}

// View returns last rendered view, safe for any goroutine.
func (self *UI) View() types.View {
	self.viewMu.Lock()
	defer self.viewMu.Unlock()
	return self.view
}

func (self *UI) CurrentMode() ModeKind {
	v := self.View()
	for k, name := range modeNames {
		if name == v.Mode {
			return ModeKind(k)
		}
	}
	return ModeNone
}

func (self *UI) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()
	stopch := self.g.Alive.StopChan()

	tick := time.NewTicker(self.config.Tick())
	defer tick.Stop()

	self.switchMode(ctx, ModeIdle)
	self.spawnRefresh(sessionAny, true)

	for {
		var e types.Event
		select {
		case e = <-self.events:
		case <-tick.C:
			e = types.Event{Kind: types.EventTick}
		case <-stopch:
			e = types.Event{Kind: types.EventStop}
		}
		if e.Time.IsZero() {
			e.Time = self.g.Now()
		}
		if e.Kind == types.EventStop {
			break
		}
		self.handle(ctx, e)
	}

	self.current.Stop()
	self.cancelJobs()
	self.g.Log.Debugf("ui loop end")
}

func (self *UI) handle(ctx context.Context, e types.Event) {
	if e.Kind != types.EventTick {
		self.g.Log.Debugf("ui mode=%s event=%s", self.current.Kind().String(), e.String())
	}
	next := ModeNone
	sup := self.current.Supervisor()

	switch e.Kind {
	case types.EventTick:
		// expire callbacks request switch via pending
		self.pending = ModeNone
		sup.Check()
		next = self.pending
		if next == ModeNone && !self.failed {
			next = self.current.Handle(ctx, e)
		}

	case types.EventButton:
		if !self.debounce(e) {
			return
		}
		// only a press that does something counts as activity
		switch {
		case e.Button == types.ButtonA && self.current.Kind() != ModeIdle:
			next = ModeIdle
		case e.Button == types.ButtonC && self.current.Kind() != ModeAdmin:
			next = ModeAdmin
		case e.Button == types.ButtonB && !self.failed && self.current.UsesButton(e.Button):
			sup.TouchAt(e.Time)
			next = self.current.Handle(ctx, e)
		default:
			self.g.Log.Debugf("ui mode=%s button=%s has no function", self.current.Kind().String(), e.Button.String())
		}

	case types.EventJobDone:
		if e.Job == nil {
			return
		}
		if e.Job.Session == sessionAny {
			self.installRefresh(e.Job)
			if self.failed && self.g.Catalog.Len() != 0 {
				self.g.Log.Infof("ui mode=%s catalog ready, restart", self.current.Kind().String())
				next = self.current.Kind()
			}
			break
		}
		if e.Job.Session != self.session {
			self.g.Log.Debugf("ui discard stale job=%s session=%d current=%d", e.Job.Name, e.Job.Session, self.session)
			return
		}
		if e.Job.Name == jobRefresh {
			self.installRefresh(e.Job)
		}
		if !self.failed {
			next = self.current.Handle(ctx, e)
		}

	case types.EventTouch:
		e.X, e.Y = toLayout(e.X, e.Y, self.config.Window.Width, self.config.Window.Height)
		fallthrough
	default:
		sup.TouchAt(e.Time)
		if !self.failed {
			next = self.current.Handle(ctx, e)
		}
	}

	if next != ModeNone {
		self.switchMode(ctx, next)
	}
}

// debounce reports whether button event is a new logical press.
func (self *UI) debounce(e types.Event) bool {
	if e.Button >= types.ButtonCount {
		return false
	}
	last := self.lastButton[e.Button]
	if !last.IsZero() && e.Time.Sub(last) < self.config.Debounce() {
		self.g.Log.Debugf("ui debounce button=%s delta=%v", e.Button.String(), e.Time.Sub(last))
		return false
	}
	self.lastButton[e.Button] = e.Time
	return true
}

// switchMode stops old mode completely before starting new one.
func (self *UI) switchMode(ctx context.Context, next ModeKind) {
	if self.current != nil {
		self.g.Log.Infof("ui mode %s -> %s", self.current.Kind().String(), next.String())
		self.current.Stop()
		self.current.Supervisor().Cancel()
	}
	self.cancelJobs()
	self.session++
	self.jobCtx, self.jobCancel = context.WithCancel(ctx)
	self.failed = false

	m := self.modes[next]
	self.current = m
	if err := m.Start(ctx); err != nil {
		self.startFailed(m, err)
	}
	self.g.Tele.State(next.teleState())
	if self.XXX_testHook != nil {
		self.XXX_testHook(next)
	}
}

func (self *UI) startFailed(m Mode, err error) {
	err = errors.Annotatef(err, "ui mode=%s start", m.Kind().String())
	self.g.Error(err)
	self.failed = true
	if timeout := self.modeTimeout(m.Kind()); timeout != 0 {
		m.Supervisor().Arm(timeout, func() { self.requestSwitch(ModeIdle) })
	}
	msg := MsgError
	if errors.Cause(err) == catalog.ErrCatalogUnavailable {
		msg = MsgNoInventory
	}
	self.render(types.View{Screen: ScreenError, Error: msg})
}

func (self *UI) modeTimeout(k ModeKind) time.Duration {
	switch k {
	case ModePriceCheck:
		return self.config.PriceCheckTimeout()
	case ModeAdmin:
		return self.config.AdminTimeout()
	case ModeCart:
		return self.config.CartTimeout()
	}
	return 0
}

// requestSwitch is for supervisor callbacks, applied after Check returns.
func (self *UI) requestSwitch(k ModeKind) { self.pending = k }

func (self *UI) render(v types.View) {
	self.viewMu.Lock()
	self.seq++
	v.Seq = self.seq
	v.Mode = self.current.Kind().String()
	self.view = v
	self.viewMu.Unlock()
	self.Renderer.Render(v)
}
