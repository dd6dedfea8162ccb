package state

import (
	"io"
	"sync"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/vendlasvegas/SelfCheck/hardware/input"
)

type hardware struct {
	Input *input.Dispatch
	// Emulated lets tests and dev console post events without devices.
	Emulated bool

	buttons struct {
		once sync.Once
		chip gpio.Chiper
		err  error
	}
	mu      sync.Mutex
	closers []io.Closer
}

func (h *hardware) track(sources []input.Source) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range sources {
		if c, ok := s.(io.Closer); ok {
			h.closers = append(h.closers, c)
		}
	}
}

func (h *hardware) close() {
	h.mu.Lock()
	closers := h.closers
	h.closers = nil
	h.mu.Unlock()
	for _, c := range closers {
		_ = c.Close()
	}
	if h.buttons.chip != nil {
		_ = h.buttons.chip.Close()
	}
}

// ButtonChip opens GPIO chip once, error is sticky.
func (g *Global) ButtonChip() (gpio.Chiper, error) {
	b := &g.Hardware.buttons
	b.once.Do(func() {
		path := g.Config.Hardware.Buttons.Chip
		chip, err := gpio.Open(path, "selfcheck")
		if err != nil {
			b.err = errors.Annotatef(err, "config: hardware.buttons.chip=%s", path)
			return
		}
		b.chip = chip
	})
	return b.chip, b.err
}

// initInput opens enabled devices and starts dispatch.
// Device failures are reported but do not stop the kiosk, touch and web still work.
func (g *Global) initInput() error {
	if g.Hardware.Input == nil {
		g.Hardware.Input = input.NewDispatch(g.Log, g.Alive.StopChan())
	}
	cfg := &g.Config.Hardware
	sources := make([]input.Source, 0, 8)
	errs := make([]error, 0)

	if cfg.Buttons.Enable {
		if chip, err := g.ButtonChip(); err != nil {
			errs = append(errs, err)
		} else if buttons, err := input.OpenButtons(chip, cfg.Buttons.Pins); err != nil {
			errs = append(errs, errors.Annotatef(err, "config: hardware.buttons.pins=%v", cfg.Buttons.Pins))
		} else {
			sources = append(sources, buttons...)
		}
	} else {
		g.Log.Infof("input buttons disabled")
	}

	if cfg.Scanner.Enable {
		if s, err := input.NewScannerSource(cfg.Scanner.Device); err != nil {
			errs = append(errs, errors.Annotate(err, "config: hardware.scanner"))
		} else {
			sources = append(sources, s)
		}
	}
	if cfg.Touch.Enable {
		if s, err := input.NewTouchSource(cfg.Touch.Device, cfg.Touch.Scale); err != nil {
			errs = append(errs, errors.Annotate(err, "config: hardware.touch"))
		} else {
			sources = append(sources, s)
		}
	}

	g.Hardware.track(sources)
	g.Hardware.Emulated = len(sources) == 0
	go g.Hardware.Input.Run(sources)

	for _, err := range errs {
		g.Error(err)
	}
	return nil
}
