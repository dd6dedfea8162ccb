// Package subcmd lets one selfcheck binary run as kiosk service or dev console.
package subcmd

import (
	"context"
	"strings"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/state"
	"github.com/vendlasvegas/SelfCheck/log2"
)

type Mod struct {
	Name  string
	Usage string
	Main  func(context.Context, *state.Config) error
}

// Parse finds module by exact name.
func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, errors.NotValidf("empty command")
	}
	names := make([]string, 0, len(modules))
	for i := range modules {
		if modules[i].Name == command {
			return &modules[i], nil
		}
		names = append(names, modules[i].Name)
	}
	return nil, errors.NotFoundf("command=%s (known: %s)", command, strings.Join(names, ", "))
}

// SdNotify returns true when running under systemd.
// Notify socket failure is fatal, service manager would kill us on timeout anyway.
func SdNotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
