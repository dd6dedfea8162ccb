package state

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/internal/admin"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/receipt"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"github.com/vendlasvegas/SelfCheck/log2"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Hardware     hardware // hardware.go
	Log          *log2.Log
	Tele         tele_api.Teler

	Catalog  *catalog.Store
	Snapshot *catalog.Snapshot
	Cart     *cart.Engine
	Sheets   sheets.Source
	Files    sheets.FileWriter
	Receipts receipt.Sink

	// Clock is read on every call, tests replace it after Init.
	Clock func() time.Time

	outbox *receipt.Outbox
}

const ContextKey = "selfcheck/global"

// GetGlobal panics when ctx was not built by state/new, that is a wiring bug.
func GetGlobal(ctx context.Context) *Global {
	g, ok := ctx.Value(ContextKey).(*Global)
	if !ok || g == nil {
		panic(fmt.Sprintf("code error context[%s]=%#v", ContextKey, ctx.Value(ContextKey)))
	}
	return g
}

func (g *Global) Now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

// Init wires components from config. Error from tele is returned at once,
// other component errors are collected and Global stays usable in degraded mode.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	g.Log.Infof("build version=%s", g.BuildVersion)

	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = "./tmp-selfcheck-db"
		g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)
	if g.Config.Credentials.Dir == "" {
		g.Config.Credentials.Dir = filepath.Join(g.Config.Persist.Root, "Credentials")
	}

	// tele first, later init errors are reported remotely
	g.Config.Tele.BuildVersion = g.BuildVersion
	if g.Config.Tele.PersistPath == "" {
		g.Config.Tele.PersistPath = filepath.Join(g.Config.Persist.Root, "tele")
	}
	// clone has no error hook, tele logging can not loop into itself
	if err := g.Tele.Init(ctx, g.Log.Clone(log2.LInfo), g.Config.Tele); err != nil {
		g.Tele = tele_api.Noop{}
		return errors.Annotate(err, "tele init")
	}
	g.Log.SetErrorFunc(g.Tele.Error)

	if g.BuildVersion == "unknown" {
		g.Error(errors.New("build version not set by ldflags"))
	} else if g.Config.Tele.KioskId > 0 && strings.HasSuffix(g.BuildVersion, "-dirty") { // kiosk_id<=0 is staging
		g.Error(errors.Errorf("production kiosk_id=%d runs dirty build=%s", g.Config.Tele.KioskId, g.BuildVersion))
	}

	errs := make([]error, 0, 4)
	if err := g.initSheets(); err != nil {
		errs = append(errs, err)
	}
	g.Files = sheets.FileWriter{Dir: g.Config.Credentials.Dir}

	if g.Catalog == nil {
		g.Catalog = catalog.NewStore(g.Log)
	}
	g.Snapshot = new(catalog.Snapshot)
	g.Snapshot.Init(g.Config.Persist.Root, g.Config.Catalog.Snapshot, g.Log)

	g.Config.Cart.DefaultPaths(g.Config.Persist.Root, g.Config.Credentials.Dir)
	g.Cart = cart.NewEngine(g.Config.Cart, g.Catalog, g.Log, g.Now)

	if err := g.initReceipts(); err != nil {
		errs = append(errs, err)
	}
	if err := g.initInput(); err != nil {
		errs = append(errs, err)
	}
	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Fatal(err)
	}
}

func (g *Global) initSheets() error {
	if g.Sheets != nil { // state-new testing mode
		return nil
	}
	cfg := &g.Config.Sheets
	switch cfg.Backend {
	case "", "dir":
		if cfg.Dir == "" {
			cfg.Dir = filepath.Join(g.Config.Persist.Root, "sheets")
		}
		g.Sheets = sheets.NewDir(cfg.Dir)
	case "http":
		if cfg.URL == "" {
			return errors.NotValidf("config: sheets.url=empty with backend=http")
		}
		g.Sheets = sheets.NewHTTP(cfg.URL, time.Duration(cfg.TimeoutSec)*time.Second)
	case "mock":
		g.Sheets = sheets.NewMock()
	default:
		return errors.NotValidf("config: sheets.backend=%s valid: dir, http, mock", cfg.Backend)
	}
	g.Log.Debugf("sheets source=%s", g.Sheets.String())
	return nil
}

func (g *Global) initReceipts() error {
	cfg := &g.Config.Receipt
	if !cfg.Enable {
		g.Receipts = receipt.SinkFunc(func(r cart.Receipt) error {
			g.Log.Infof("receipt disabled transaction=%s total=%s", r.TransactionID, currency.Format(r.Totals.Total))
			return nil
		})
		return nil
	}
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(g.Config.Persist.Root, "receipts")
	}
	sink, err := receipt.NewFileSink(*cfg)
	if err != nil {
		return errors.Annotate(err, "receipt")
	}
	if !cfg.Outbox {
		g.Receipts = sink
		return nil
	}
	g.outbox, err = receipt.NewOutbox(filepath.Join(g.Config.Persist.Root, "receipt-outbox"), sink, g.Log)
	if err != nil {
		return errors.Annotate(err, "receipt outbox")
	}
	g.Receipts = g.outbox
	return nil
}

// Refresher builds catalog refresh job bound to current sources.
func (g *Global) Refresher() *admin.Refresher {
	return &admin.Refresher{
		Source:   g.Sheets,
		Snapshot: g.Snapshot,
		TaxPath:  g.Cart.TaxPath(),
		Log:      g.Log,
	}
}

// Error logs err (with optional annotation format and args) and reports it to tele.
func (g *Global) Error(err error, args ...interface{}) {
	if err == nil {
		return
	}
	if len(args) != 0 {
		if format, ok := args[0].(string); ok {
			err = errors.Annotatef(err, format, args[1:]...)
		}
	}
	g.Log.Error(err)
}

// Fatal gives workers a chance to flush queues before exit.
func (g *Global) Fatal(err error, args ...interface{}) {
	if err == nil {
		return
	}
	g.Error(err, args...)
	g.StopWait(5 * time.Second)
	g.Log.Fatal(errors.ErrorStack(err))
}

// StopWait stops background workers then releases queues and telemetry.
func (g *Global) StopWait(timeout time.Duration) bool {
	g.Alive.Stop()
	ok := true
	select {
	case <-g.Alive.WaitChan():
	case <-time.After(timeout):
		ok = false
	}
	g.Hardware.close()
	if g.outbox != nil {
		g.outbox.Close()
	}
	g.Tele.Close()
	return ok
}
