// Production kiosk: hardware input, controller loop, renderer bridge.
package kiosk

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/cmd/selfcheck/subcmd"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/internal/ui"
	"github.com/vendlasvegas/SelfCheck/internal/web"
)

var Mod = subcmd.Mod{Name: "run", Usage: "run kiosk (default)", Main: Main}

const stopTimeout = 10 * time.Second

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)
	g.Log.Debugf("config=%+v", g.Config)

	uiCtl := &ui.UI{}
	var hub *web.Hub
	if config.Web.Enable {
		hub = web.NewHub(g.Log)
		uiCtl.Renderer = types.Renderers{hub, logRenderer(g)}
	}
	if err := uiCtl.Init(ctx); err != nil {
		return errors.Annotate(err, "ui init")
	}

	if hub != nil {
		if err := startWeb(ctx, g, config.Web, uiCtl, hub); err != nil {
			return err
		}
	}
	go uiCtl.Loop(ctx)

	if g.Hardware.Emulated {
		g.Log.Infof("no input devices enabled, only renderer input works")
	}
	subcmd.SdNotify(g.Log, daemon.SdNotifyReady)
	g.Log.Infof("selfcheck init complete, running")

	<-g.Alive.StopChan()
	if !g.StopWait(stopTimeout) {
		g.Log.Errorf("stop timeout=%v, exiting anyway", stopTimeout)
	}
	return nil
}

func startWeb(ctx context.Context, g *state.Global, config web.Config, poster web.Poster, hub *web.Hub) error {
	if !g.Alive.Add(1) {
		return errors.New("web start while stopping")
	}
	webCtx, cancel := context.WithCancel(ctx)
	srv := web.NewServer(config, poster, hub, g.Log)
	go func() {
		<-g.Alive.StopChan()
		cancel()
	}()
	go func() {
		defer g.Alive.Done()
		if err := srv.Run(webCtx); err != nil {
			// renderer is the only screen, kiosk is useless without it
			g.Error(err)
			g.Alive.Stop()
		}
	}()
	return nil
}

func logRenderer(g *state.Global) types.Renderer {
	return types.RendererFunc(func(v types.View) {
		g.Log.Debugf("ui view seq=%d mode=%s screen=%s message=%q error=%q", v.Seq, v.Mode, v.Screen, v.Message, v.Error)
	})
}
