package tele

import (
	"context"

	"github.com/vendlasvegas/SelfCheck/log2"
	tele_config "github.com/vendlasvegas/SelfCheck/tele/config"
)

// Transporter moves encoded messages to the broker.
// Init must not fail because of network, kiosk boots offline.
// Send returns false when message was not delivered within network timeout.
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, config tele_config.Config, will []byte) error
	SendState(payload []byte) bool
	SendTelemetry(payload []byte) bool
	Close()
}
