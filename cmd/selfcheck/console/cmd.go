// Developer console: controller with emulated input, views printed to log.
package console

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/cmd/selfcheck/subcmd"
	"github.com/vendlasvegas/SelfCheck/helpers/cli"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/internal/ui"
	"github.com/vendlasvegas/SelfCheck/log2"
)

const modName = "console"

var Mod = subcmd.Mod{Name: modName, Usage: "developer console with emulated input", Main: Main}

var suggests = []prompt.Suggest{
	{Text: "a", Description: "red button, exit to idle"},
	{Text: "b", Description: "green button"},
	{Text: "c", Description: "clear button, admin"},
	{Text: "yellow", Description: "button without function"},
	{Text: "blue", Description: "button without function"},
	{Text: "touch", Description: "touch X Y"},
	{Text: "scan", Description: "scan CODE"},
	{Text: "login", Description: "login USER PASSWORD"},
	{Text: "cancel", Description: "cancel admin login"},
	{Text: "status", Description: "show current view"},
	{Text: "quit", Description: "stop and exit"},
}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	config.Hardware.Buttons.Enable = false
	config.Hardware.Scanner.Enable = false
	config.Hardware.Touch.Enable = false
	config.Web.Enable = false
	g.MustInit(ctx, config)

	uiCtl := &ui.UI{Renderer: types.RendererFunc(func(v types.View) { printView(g.Log, v) })}
	if err := uiCtl.Init(ctx); err != nil {
		return errors.Annotate(err, "ui init")
	}
	go uiCtl.Loop(ctx)

	cli.MainLoop("selfcheck", newExecutor(g, uiCtl), cli.Suggest(suggests))
	g.StopWait(5 * time.Second)
	return nil
}

func newExecutor(g *state.Global, uiCtl *ui.UI) cli.ExecFunc {
	return func(line string) {
		cmd, e, err := parseLine(line)
		if err != nil {
			g.Log.Errorf("%v", err)
			return
		}
		switch cmd {
		case cmdQuit:
			g.Alive.Stop()
		case cmdStatus:
			printView(g.Log, uiCtl.View())
		case cmdEvent:
			e.Source = modName
			if !uiCtl.Post(e) {
				g.Log.Errorf("controller is stopping")
			}
		}
	}
}

type command uint8

const (
	cmdEvent command = iota
	cmdStatus
	cmdQuit
)

func parseLine(line string) (command, types.Event, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return cmdEvent, types.Event{}, errors.NotValidf("empty command")
	}
	word, args := strings.ToLower(parts[0]), parts[1:]
	if b, ok := types.ParseButton(word); ok {
		return cmdEvent, types.Event{Kind: types.EventButton, Button: b}, nil
	}
	switch word {
	case "touch":
		if len(args) != 2 {
			return cmdEvent, types.Event{}, errors.NotValidf("usage: touch X Y")
		}
		x, errx := strconv.Atoi(args[0])
		y, erry := strconv.Atoi(args[1])
		if errx != nil || erry != nil || x < 0 || y < 0 {
			return cmdEvent, types.Event{}, errors.NotValidf("touch coordinates %q", args)
		}
		return cmdEvent, types.Event{Kind: types.EventTouch, X: x, Y: y}, nil
	case "scan":
		// empty scan is valid input for price check
		return cmdEvent, types.Event{Kind: types.EventScan, Code: strings.Join(args, "")}, nil
	case "login":
		e := types.Event{Kind: types.EventAdminLogin}
		if len(args) > 0 {
			e.User = args[0]
		}
		if len(args) > 1 {
			e.Password = args[1]
		}
		return cmdEvent, e, nil
	case "cancel":
		return cmdEvent, types.Event{Kind: types.EventAdminCancel}, nil
	case "status":
		return cmdStatus, types.Event{}, nil
	case "quit", "exit":
		return cmdQuit, types.Event{}, nil
	}
	return cmdEvent, types.Event{}, errors.NotValidf("command=%s", word)
}

func printView(log *log2.Log, v types.View) {
	log.Infof("[%d] mode=%s screen=%s title=%q message=%q error=%q busy=%t countdown=%d",
		v.Seq, v.Mode, v.Screen, v.Title, v.Message, v.Error, v.Busy, v.Countdown)
	for _, line := range v.Lines {
		log.Infof("  - %s", line)
	}
	if v.Item != nil {
		log.Infof("  item upc=%s %s %s %s price=%s on_hand=%s", v.Item.UPC, v.Item.Brand, v.Item.Name, v.Item.Size, v.Item.Price, v.Item.OnHand)
	}
	if v.Cart != nil {
		for _, li := range v.Cart.Lines {
			log.Infof("  %dx %s %s = %s", li.Quantity, li.Name, li.Price, li.Amount)
		}
		log.Infof("  tx=%s subtotal=%s tax=%s (%s%%) total=%s", v.Cart.TransactionID, v.Cart.Subtotal, v.Cart.Tax, v.Cart.TaxRate, v.Cart.Total)
	}
}
