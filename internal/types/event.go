package types

import (
	"fmt"
	"time"
)

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventButton
	EventTouch
	EventScan
	EventTick
	EventJobDone
	EventAdminLogin
	EventAdminCancel
	EventStop
)

var eventKindNames = [...]string{"Invalid", "Button", "Touch", "Scan", "Tick", "JobDone", "AdminLogin", "AdminCancel", "Stop"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Button is one of five physical push buttons.
type Button uint8

const (
	ButtonNone   Button = iota
	ButtonA             // red, exit
	ButtonB             // green, primary
	ButtonC             // clear, admin
	ButtonYellow        // wired, no function
	ButtonBlue          // wired, no function
	ButtonCount
)

var buttonNames = [...]string{"none", "a", "b", "c", "yellow", "blue"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", b)
}

func ParseButton(s string) (Button, bool) {
	for i, name := range buttonNames {
		if i != int(ButtonNone) && name == s {
			return Button(i), true
		}
	}
	return ButtonNone, false
}

// JobResult is outcome of background work, delivered back to control loop.
type JobResult struct {
	Session uint64
	Name    string
	Value   interface{}
	Err     error
}

type Event struct {
	Kind   EventKind
	Time   time.Time
	Source string

	Button   Button
	X, Y     int
	Code     string
	User     string
	Password string
	Job      *JobResult
}

func (e *Event) String() string {
	inner := ""
	switch e.Kind {
	case EventButton:
		inner = fmt.Sprintf(" button=%s", e.Button.String())
	case EventTouch:
		inner = fmt.Sprintf(" x=%d y=%d", e.X, e.Y)
	case EventScan:
		inner = fmt.Sprintf(" code=%q", e.Code)
	case EventAdminLogin:
		inner = fmt.Sprintf(" user=%q", e.User)
	case EventJobDone:
		if e.Job != nil {
			inner = fmt.Sprintf(" job=%s session=%d err=%v", e.Job.Name, e.Job.Session, e.Job.Err)
		}
	}
	if e.Source != "" {
		inner += " source=" + e.Source
	}
	return fmt.Sprintf("Event(%s%s)", e.Kind.String(), inner)
}
