package input

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

const (
	ScannerSourceTag = "scanner"
	TouchSourceTag   = "touch"
)

// linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	absX           = 0x00
	absY           = 0x01
	absMtPositionX = 0x35
	absMtPositionY = 0x36

	keyEnter      = 28
	keyKPEnter    = 96
	keyLeftShift  = 42
	keyRightShift = 54
	btnTouch      = 0x14a
	btnLeft       = 0x110
)

var keyChars = map[uint16]byte{
	2: '1', 3: '2', 4: '3', 5: '4', 6: '5', 7: '6', 8: '7', 9: '8', 10: '9', 11: '0',
	12: '-',
	16: 'q', 17: 'w', 18: 'e', 19: 'r', 20: 't', 21: 'y', 22: 'u', 23: 'i', 24: 'o', 25: 'p',
	30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h', 36: 'j', 37: 'k', 38: 'l',
	44: 'z', 45: 'x', 46: 'c', 47: 'v', 48: 'b', 49: 'n', 50: 'm',
	71: '7', 72: '8', 73: '9', 75: '4', 76: '5', 77: '6', 79: '1', 80: '2', 81: '3', 82: '0',
}

func openDevice(device string) (io.ReadCloser, error) {
	f, err := os.Open(device)
	return f, errors.Annotatef(err, "input device=%s", device)
}

// ScannerSource turns keyboard-wedge barcode scanner keystrokes into one
// scan event per Enter.
type ScannerSource struct {
	r     io.ReadCloser
	now   func() time.Time
	buf   strings.Builder
	shift bool
}

var _ Source = new(ScannerSource)

func NewScannerSource(device string) (*ScannerSource, error) {
	f, err := openDevice(device)
	if err != nil {
		return nil, err
	}
	return NewScannerReader(f), nil
}

func NewScannerReader(r io.ReadCloser) *ScannerSource {
	return &ScannerSource{r: r, now: time.Now}
}

func (self *ScannerSource) String() string { return ScannerSourceTag }
func (self *ScannerSource) Close() error   { return self.r.Close() }

func (self *ScannerSource) Read() (types.Event, error) {
	for {
		ie, err := inputevent.ReadOne(self.r)
		if err != nil {
			return types.Event{}, err
		}
		if ie.Type != evKey {
			continue
		}
		state := inputevent.KeyEventState(ie.Value)
		if ie.Code == keyLeftShift || ie.Code == keyRightShift {
			self.shift = state != inputevent.KeyStateUp
			continue
		}
		if state != inputevent.KeyStateDown {
			continue
		}
		if ie.Code == keyEnter || ie.Code == keyKPEnter {
			code := self.buf.String()
			self.buf.Reset()
			return types.Event{
				Kind:   types.EventScan,
				Time:   self.now(),
				Source: ScannerSourceTag,
				Code:   code,
			}, nil
		}
		if c, ok := keyChars[ie.Code]; ok {
			if self.shift && c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			self.buf.WriteByte(c)
		}
	}
}

// TouchScale converts raw panel coordinates into screen pixels.
// Zero Max* means panel already reports pixels.
type TouchScale struct {
	MaxX   int `hcl:"max_x"`
	MaxY   int `hcl:"max_y"`
	Width  int `hcl:"width"`
	Height int `hcl:"height"`
}

func (s TouchScale) Apply(x, y int) (int, int) {
	if s.MaxX > 0 && s.Width > 0 {
		x = x * s.Width / s.MaxX
	}
	if s.MaxY > 0 && s.Height > 0 {
		y = y * s.Height / s.MaxY
	}
	return x, y
}

// TouchSource emits touch on press, after coordinates of the same frame arrived.
type TouchSource struct {
	r       io.ReadCloser
	now     func() time.Time
	scale   TouchScale
	x, y    int
	pending bool
}

var _ Source = new(TouchSource)

func NewTouchSource(device string, scale TouchScale) (*TouchSource, error) {
	f, err := openDevice(device)
	if err != nil {
		return nil, err
	}
	return NewTouchReader(f, scale), nil
}

func NewTouchReader(r io.ReadCloser, scale TouchScale) *TouchSource {
	return &TouchSource{r: r, now: time.Now, scale: scale}
}

func (self *TouchSource) String() string { return TouchSourceTag }
func (self *TouchSource) Close() error   { return self.r.Close() }

func (self *TouchSource) Read() (types.Event, error) {
	for {
		ie, err := inputevent.ReadOne(self.r)
		if err != nil {
			return types.Event{}, err
		}
		switch ie.Type {
		case evAbs:
			switch ie.Code {
			case absX, absMtPositionX:
				self.x = int(ie.Value)
			case absY, absMtPositionY:
				self.y = int(ie.Value)
			}
		case evKey:
			if (ie.Code == btnTouch || ie.Code == btnLeft) && inputevent.KeyEventState(ie.Value) == inputevent.KeyStateDown {
				self.pending = true
			}
		case evSyn:
			if self.pending {
				self.pending = false
				x, y := self.scale.Apply(self.x, self.y)
				return types.Event{
					Kind:   types.EventTouch,
					Time:   self.now(),
					Source: TouchSourceTag,
					X:      x,
					Y:      y,
				}, nil
			}
		}
	}
}
