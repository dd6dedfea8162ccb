// Package state_new builds Global and context, it is separate from state
// because test helpers here import packages that import state.
package state_new

import (
	"context"
	"os"
	"testing"

	"github.com/temoto/alive/v2"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	"github.com/vendlasvegas/SelfCheck/log2"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
)

// NewContext returns Global without config, caller must Init it.
func NewContext(log *log2.Log, teler tele_api.Teler) (context.Context, *state.Global) {
	g := &state.Global{
		Alive:   alive.NewAlive(),
		Catalog: catalog.NewStore(log),
		Log:     log,
		Tele:    teler,
	}
	return context.WithValue(context.Background(), state.ContextKey, g), g
}

// NewTestContext inits Global from conf with mock sheets and temporary persist root.
// Set SELFCHECK_TEST_STDERR=1 to see log lines that t.Logf loses on panic.
func NewTestContext(t testing.TB, buildVersion string, conf string) (context.Context, *state.Global, *sheets.Mock) {
	log := log2.NewTest(t, log2.LDebug)
	if os.Getenv("SELFCHECK_TEST_STDERR") == "1" {
		log = log2.NewStderr(log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)

	ctx, g := NewContext(log, tele_api.NewStub())
	g.BuildVersion = buildVersion
	mock := sheets.NewMock()
	g.Sheets = mock

	cfg := state.MustReadConfig(log, state.NewMockFullReader(map[string]string{"test": conf}), "test")
	cfg.Persist.Root = t.TempDir()
	g.MustInit(ctx, cfg)
	t.Cleanup(func() { g.StopWait(0) })
	return ctx, g, mock
}
