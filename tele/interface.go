package tele

import (
	"context"

	"github.com/vendlasvegas/SelfCheck/log2"
	tele_config "github.com/vendlasvegas/SelfCheck/tele/config"
)

// Teler is kiosk side of telemetry. Calls never block on network.
type Teler interface {
	Init(context.Context, *log2.Log, tele_config.Config) error
	Close()
	State(State)
	Error(error)
	Transaction(*Telemetry_Transaction)
}

// Noop is used when telemetry is disabled or failed to init.
type Noop struct{}

func NewStub() Teler { return Noop{} }

func (Noop) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }
func (Noop) Close()                                                    {}
func (Noop) State(State)                                               {}
func (Noop) Error(error)                                               {}
func (Noop) Transaction(*Telemetry_Transaction)                        {}
