package ui_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/receipt"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	state_new "github.com/vendlasvegas/SelfCheck/internal/state/new"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/internal/ui"
)

const testWait = 2 * time.Second

var testCatalog = [][]string{
	{"UPC", "Brand", "Name", "", "Size", "Calories", "Sugar", "Sodium", "Price", "Taxable", "OnHand", "Image"},
	{"012345678905", "Acme", "Widget", "", "1ct", "100", "5", "10", "$2.50", "yes", "7", "img.png"},
	{"4011", "Farm", "Banana", "", "", "", "", "", "$0.30", "no", "40", ""},
	{"222", "Acme", "Broken", "", "", "", "", "", "free", "yes", "1", ""},
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

type tenv struct {
	ctx    context.Context
	g      *state.Global
	ui     *ui.UI
	sheets *sheets.Mock
	clock  *fakeClock

	views    chan types.View
	modes    chan ui.ModeKind
	receipts chan cart.Receipt
}

// newTestEnv starts controller with fake clock and in-memory sheets.
// uiConf goes inside ui block. Real ticker is effectively off, tests drive time with env.tick.
func newTestEnv(t testing.TB, uiConf string, catalogRows [][]string) *tenv {
	env := prepareTestEnv(t, uiConf, catalogRows)
	env.start(t, len(catalogRows)-1)
	return env
}

// prepareTestEnv is newTestEnv without starting loop, so test can block sheets first.
func prepareTestEnv(t testing.TB, uiConf string, catalogRows [][]string) *tenv {
	ctx, g, mock := state_new.NewTestContext(t, "test", "ui {\ntick_ms = 3600000\n"+uiConf+"\n}\n")
	env := &tenv{
		ctx:      ctx,
		g:        g,
		sheets:   mock,
		clock:    &fakeClock{t: time.Date(2024, 3, 9, 10, 0, 0, 0, time.Local)},
		views:    make(chan types.View, 1024),
		modes:    make(chan ui.ModeKind, 64),
		receipts: make(chan cart.Receipt, 8),
	}
	g.Clock = env.clock.Now
	g.Receipts = receipt.SinkFunc(func(r cart.Receipt) error {
		env.receipts <- r
		return nil
	})
	if catalogRows != nil {
		mock.Set(sheets.TabCatalog, catalogRows)
	}
	mock.SetCell(sheets.TabCredentials, "B27", "8%")
	mock.Set(sheets.TabLogin, [][]string{{"User", "Password"}, {"admin", "secret"}})

	env.ui = &ui.UI{
		Renderer: types.RendererFunc(func(v types.View) {
			select {
			case env.views <- v:
			default:
				t.Errorf("test renderer overflow")
			}
		}),
		XXX_testHook: func(m ui.ModeKind) {
			t.Logf("testHook mode=%s", m.String())
			env.modes <- m
		},
	}
	require.NoError(t, env.ui.Init(ctx))
	return env
}

// start runs loop and waits for idle. expectItems > 0 also waits for startup refresh.
func (env *tenv) start(t testing.TB, expectItems int) {
	g := env.g
	t.Cleanup(func() {
		g.Alive.Stop()
		select {
		case <-g.Alive.WaitChan():
		case <-time.After(testWait):
			t.Errorf("ui loop did not stop")
		}
	})
	go env.ui.Loop(env.ctx)
	env.requireMode(t, ui.ModeIdle)
	if expectItems > 0 {
		require.Eventually(t, func() bool { return g.Catalog.Len() == expectItems },
			testWait, 5*time.Millisecond, "startup catalog refresh")
	}
}

func (env *tenv) post(e types.Event) {
	if e.Time.IsZero() {
		e.Time = env.clock.Now()
	}
	env.ui.Post(e)
}

// press advances clock past debounce window, then posts button.
func (env *tenv) press(b types.Button) {
	env.clock.Advance(time.Second)
	env.post(types.Event{Kind: types.EventButton, Button: b})
}

func (env *tenv) touch(x, y int) {
	env.post(types.Event{Kind: types.EventTouch, X: x, Y: y})
}

func (env *tenv) scan(code string) {
	env.post(types.Event{Kind: types.EventScan, Code: code})
}

func (env *tenv) tick(d time.Duration) {
	now := env.clock.Advance(d)
	env.post(types.Event{Kind: types.EventTick, Time: now})
}

func (env *tenv) requireMode(t testing.TB, expect ui.ModeKind) {
	t.Helper()
	select {
	case m := <-env.modes:
		require.Equal(t, expect.String(), m.String())
	case <-time.After(testWait):
		t.Fatalf("timeout waiting for mode=%s", expect.String())
	}
}

// requireNoMode checks that no mode switch happens for a short while.
func (env *tenv) requireNoMode(t testing.TB) {
	t.Helper()
	select {
	case m := <-env.modes:
		t.Fatalf("unexpected mode switch to %s", m.String())
	case <-time.After(100 * time.Millisecond):
	}
}

// requireView reads rendered views until match.
func (env *tenv) requireView(t testing.TB, match func(types.View) bool) types.View {
	t.Helper()
	v, ok := env.waitView(t, match, testWait)
	if !ok {
		t.Fatalf("no matching view, last=%s", spew.Sdump(v))
	}
	return v
}

func (env *tenv) requireMessage(t testing.TB, screen, message string) types.View {
	t.Helper()
	return env.requireView(t, func(v types.View) bool { return v.Screen == screen && v.Message == message })
}

func (env *tenv) waitView(t testing.TB, match func(types.View) bool, timeout time.Duration) (types.View, bool) {
	deadline := time.After(timeout)
	var last types.View
	for {
		select {
		case v := <-env.views:
			last = v
			if match(v) {
				return v, true
			}
		case <-deadline:
			return last, false
		}
	}
}
