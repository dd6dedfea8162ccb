package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/vendlasvegas/SelfCheck/cmd/selfcheck/console"
	"github.com/vendlasvegas/SelfCheck/cmd/selfcheck/kiosk"
	"github.com/vendlasvegas/SelfCheck/cmd/selfcheck/subcmd"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	state_new "github.com/vendlasvegas/SelfCheck/internal/state/new"
	"github.com/vendlasvegas/SelfCheck/internal/tele"
	"github.com/vendlasvegas/SelfCheck/log2"
	"golang.org/x/sys/unix"
)

var log = log2.NewStderr(log2.LDebug)

var BuildVersion string = "unknown" // set by ldflags -X

const stopTimeout = 5 * time.Second

var modules = []subcmd.Mod{
	kiosk.Mod,
	console.Mod,
}

func main() {
	flagset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := flagset.String("config", "selfcheck.hcl", "")
	flagset.Usage = func() {
		fmt.Fprintf(flagset.Output(), "Usage: %s [option...] command\n\nOptions:\n", os.Args[0])
		flagset.PrintDefaults()
		fmt.Fprintf(flagset.Output(), "\nCommands:\n")
		for _, m := range modules {
			fmt.Fprintf(flagset.Output(), "  %-10s %s\n", m.Name, m.Usage)
		}
	}
	_ = flagset.Parse(os.Args[1:])
	command := flagset.Arg(0)
	if command == "" {
		command = kiosk.Mod.Name
	}

	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		flagset.Usage()
		log.Fatal(err)
	}

	// under systemd journal adds timestamp
	if subcmd.SdNotify(log, "start") || !isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Infof("selfcheck version=%s command=%s", BuildVersion, mod.Name)

	ctx, g := state_new.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion
	config := state.MustReadConfig(log, state.NewOsFullReader("."), *flagConfig)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, unix.SIGINT, unix.SIGTERM)
	go func() {
		sig := <-sigch
		log.Infof("signal=%v stopping", sig)
		subcmd.SdNotify(log, daemon.SdNotifyStopping)
		g.Alive.Stop()
	}()

	if err := mod.Main(ctx, config); err != nil {
		g.StopWait(stopTimeout)
		log.Fatal(errors.ErrorStack(err))
	}
}
