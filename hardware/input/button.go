package input

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/gpio-cdev-go"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

const ButtonSourceTag = "gpio-button"

const buttonPollTimeout = time.Second

// ButtonPins maps physical buttons to GPIO line offsets.
// int because hcl can not decode into sized integers.
type ButtonPins struct {
	A      int `hcl:"a"`
	B      int `hcl:"b"`
	C      int `hcl:"c"`
	Yellow int `hcl:"yellow"`
	Blue   int `hcl:"blue"`
}

func DefaultButtonPins() ButtonPins {
	return ButtonPins{A: 5, B: 6, C: 16, Yellow: 12, Blue: 13}
}

func (p ButtonPins) Lines() map[types.Button]uint32 {
	return map[types.Button]uint32{
		types.ButtonA:      uint32(p.A),
		types.ButtonB:      uint32(p.B),
		types.ButtonC:      uint32(p.C),
		types.ButtonYellow: uint32(p.Yellow),
		types.ButtonBlue:   uint32(p.Blue),
	}
}

// ButtonSource reports falling edges of one pulled-up push button line.
// Debounce is left to consumer.
type ButtonSource struct {
	button types.Button
	line   uint32
	ev     gpio.Eventer
	now    func() time.Time
	closed uint32
}

var _ Source = new(ButtonSource)

func NewButtonSource(chip gpio.Chiper, button types.Button, line uint32) (*ButtonSource, error) {
	ev, err := chip.GetLineEvent(line, gpio.GPIOHANDLE_REQUEST_INPUT, gpio.GPIOEVENT_REQUEST_FALLING_EDGE, "selfcheck-"+button.String())
	if err != nil {
		return nil, errors.Annotatef(err, "button=%s line=%d", button.String(), line)
	}
	return &ButtonSource{button: button, line: line, ev: ev, now: time.Now}, nil
}

// OpenButtons requests event lines for all buttons. Partial success closes opened lines.
func OpenButtons(chip gpio.Chiper, pins ButtonPins) ([]Source, error) {
	sources := make([]Source, 0, int(types.ButtonCount))
	for b := types.ButtonA; b < types.ButtonCount; b++ {
		src, err := NewButtonSource(chip, b, pins.Lines()[b])
		if err != nil {
			for _, s := range sources {
				_ = s.(*ButtonSource).Close()
			}
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (self *ButtonSource) String() string { return ButtonSourceTag }

func (self *ButtonSource) Close() error {
	atomic.StoreUint32(&self.closed, 1)
	return self.ev.Close()
}

func (self *ButtonSource) Read() (types.Event, error) {
	for {
		if atomic.LoadUint32(&self.closed) != 0 {
			return types.Event{}, io.EOF
		}
		edge, err := self.ev.Wait(buttonPollTimeout)
		switch {
		case gpio.IsTimeout(err):
			continue
		case gpio.IsClosed(err):
			return types.Event{}, io.EOF
		case err != nil:
			return types.Event{}, errors.Annotatef(err, "button=%s line=%d", self.button.String(), self.line)
		}
		if edge.ID != gpio.GPIOEVENT_EVENT_FALLING_EDGE {
			continue
		}
		return types.Event{
			Kind:   types.EventButton,
			Time:   self.now(),
			Source: ButtonSourceTag,
			Button: self.button,
		}, nil
	}
}
