package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temoto/gpio-cdev-go"
	gpio_mock "github.com/temoto/gpio-cdev-go/mock"
	"github.com/temoto/inputevent-go"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

var testNow = time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

func TestButtonSource(t *testing.T) {
	t.Parallel()

	ev := &gpio_mock.MockEvent{}
	ev.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{ID: gpio.GPIOEVENT_EVENT_FALLING_EDGE}, nil).Once()
	ev.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{}, gpio.ErrTimeout).Once()
	ev.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{ID: gpio.GPIOEVENT_EVENT_RISING_EDGE}, nil).Once()
	ev.On("Wait", mock.AnythingOfType("time.Duration")).Return(gpio.EventData{}, gpio.ErrClosed)
	chip := &gpio_mock.MockChip{}
	chip.On("GetLineEvent", uint32(6), gpio.GPIOHANDLE_REQUEST_INPUT, gpio.GPIOEVENT_REQUEST_FALLING_EDGE, "selfcheck-b").Return(ev, nil)

	src, err := NewButtonSource(chip, types.ButtonB, 6)
	require.NoError(t, err)
	src.now = func() time.Time { return testNow }

	e, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, types.Event{Kind: types.EventButton, Time: testNow, Source: ButtonSourceTag, Button: types.ButtonB}, e)

	_, err = src.Read()
	assert.Equal(t, io.EOF, err)
	ev.AssertNumberOfCalls(t, "Wait", 4)
	chip.AssertExpectations(t)
}

func TestOpenButtonsPins(t *testing.T) {
	t.Parallel()

	lines := DefaultButtonPins().Lines()
	assert.Equal(t, uint32(5), lines[types.ButtonA])
	assert.Equal(t, uint32(6), lines[types.ButtonB])
	assert.Equal(t, uint32(16), lines[types.ButtonC])
	assert.Equal(t, uint32(12), lines[types.ButtonYellow])
	assert.Equal(t, uint32(13), lines[types.ButtonBlue])
}

type evstream struct{ bytes.Buffer }

func (s *evstream) add(typ, code uint16, value int32) *evstream {
	ie := inputevent.InputEvent{Type: typ, Code: code, Value: value}
	if err := binary.Write(&s.Buffer, binary.LittleEndian, &ie); err != nil {
		panic(err)
	}
	return s
}

func (s *evstream) key(code uint16) *evstream {
	return s.add(evKey, code, int32(inputevent.KeyStateDown)).add(evKey, code, int32(inputevent.KeyStateUp)).add(evSyn, 0, 0)
}

func TestScannerSource(t *testing.T) {
	t.Parallel()

	s := &evstream{}
	// 0 1 2 Enter, then shift+a Enter, then bare Enter
	s.key(11).key(2).key(3).key(keyEnter)
	s.add(evKey, keyLeftShift, 1).key(30).add(evKey, keyLeftShift, 0).key(keyKPEnter)
	s.key(keyEnter)
	src := NewScannerReader(ioutil.NopCloser(&s.Buffer))
	src.now = func() time.Time { return testNow }

	expect := []string{"012", "A", ""}
	for _, code := range expect {
		e, err := src.Read()
		require.NoError(t, err)
		assert.Equal(t, types.EventScan, e.Kind)
		assert.Equal(t, code, e.Code)
		assert.Equal(t, testNow, e.Time)
	}
	_, err := src.Read()
	assert.Equal(t, io.EOF, err)
}

func TestTouchSource(t *testing.T) {
	t.Parallel()

	s := &evstream{}
	s.add(evAbs, absX, 300).add(evAbs, absY, 500).add(evSyn, 0, 0) // hover, no press
	s.add(evKey, btnTouch, 1).add(evAbs, absX, 2048).add(evAbs, absY, 1024).add(evSyn, 0, 0)
	s.add(evKey, btnTouch, 0).add(evSyn, 0, 0)
	src := NewTouchReader(ioutil.NopCloser(&s.Buffer), TouchScale{MaxX: 4096, MaxY: 4096, Width: 1280, Height: 1024})

	e, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, types.EventTouch, e.Kind)
	assert.Equal(t, 640, e.X)
	assert.Equal(t, 256, e.Y)

	_, err = src.Read()
	assert.Equal(t, io.EOF, err)
}

func TestTouchScale(t *testing.T) {
	t.Parallel()

	x, y := TouchScale{}.Apply(10, 20)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}
