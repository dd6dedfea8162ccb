package ui

import (
	"context"
	"fmt"

	"github.com/vendlasvegas/SelfCheck/internal/inactivity"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
)

type ModeKind uint8

const (
	ModeNone ModeKind = iota // stay in current mode
	ModeIdle
	ModePriceCheck
	ModeAdmin
	ModeCart
	modeCount
)

var modeNames = [...]string{"none", "idle", "price_check", "admin", "cart"}

func (k ModeKind) String() string {
	if int(k) < len(modeNames) {
		return modeNames[k]
	}
	return fmt.Sprintf("ModeKind(%d)", k)
}

func (k ModeKind) teleState() tele_api.State {
	switch k {
	case ModeIdle:
		return tele_api.State_Nominal
	case ModePriceCheck, ModeCart:
		return tele_api.State_Client
	case ModeAdmin:
		return tele_api.State_Service
	}
	return tele_api.State_Invalid
}

// Mode is one of four kiosk modes. All methods run on control loop.
//
// Start may fail, controller then shows error view and keeps
// global exits and the mode timeout working.
// Handle returns next mode or ModeNone to stay.
type Mode interface {
	Kind() ModeKind
	Supervisor() *inactivity.Supervisor
	Start(ctx context.Context) error
	Stop()
	Handle(ctx context.Context, e types.Event) ModeKind
	// UsesButton reports whether Handle does something with mode button press now.
	UsesButton(b types.Button) bool
}
