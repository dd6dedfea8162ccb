package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/hardware/input"
	"github.com/vendlasvegas/SelfCheck/helpers"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/receipt"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	ui_config "github.com/vendlasvegas/SelfCheck/internal/ui/config"
	"github.com/vendlasvegas/SelfCheck/internal/web"
	"github.com/vendlasvegas/SelfCheck/log2"
	tele_config "github.com/vendlasvegas/SelfCheck/tele/config"
)

type Config struct {
	// filled by hcl and consumed by loader, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		Buttons struct {
			Enable bool             `hcl:"enable"`
			Chip   string           `hcl:"chip"`
			Pins   input.ButtonPins `hcl:"pins"`
		}
		Scanner struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
		}
		Touch struct {
			Enable bool             `hcl:"enable"`
			Device string           `hcl:"device"`
			Scale  input.TouchScale `hcl:"scale"`
		}
	}

	Persist struct {
		Root string `hcl:"root"`
	}
	Credentials struct {
		Dir string `hcl:"dir"`
	}
	Catalog struct {
		Snapshot bool `hcl:"snapshot"`
	}
	Sheets  sheets.Config
	Cart    cart.Config
	Receipt receipt.Config
	Tele    tele_config.Config
	UI      ui_config.Config
	Web     web.Config
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// configLoader merges sources into one Config, later keys win.
type configLoader struct {
	log  *log2.Log
	fs   FullReader
	c    *Config
	seen map[string]bool // normalized paths
	errs []error
}

func (self *configLoader) load(source ConfigSource, from string) {
	path := self.fs.Normalize(source.Name)
	if self.seen[path] {
		self.errs = append(self.errs, errors.Errorf("config include loop: from=%s include=%s", from, source.Name))
		return
	}
	self.seen[path] = true
	self.log.Debugf("config source=%s path=%s", source.Name, path)

	b, err := self.fs.ReadAll(path)
	switch {
	case err != nil:
		self.errs = append(self.errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	case b == nil && source.Optional:
		return
	case b == nil:
		self.errs = append(self.errs, errors.NotFoundf("config required name=%s path=%s", source.Name, path))
		return
	}

	if err := hcl.Unmarshal(b, self.c); err != nil {
		self.errs = append(self.errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}
	includes := self.c.XXX_Include
	self.c.XXX_Include = nil
	for _, inc := range includes {
		self.load(inc, source.Name)
	}
}

func newConfig() *Config {
	c := &Config{}
	// hcl only overwrites keys present in source
	c.Hardware.Buttons.Chip = "/dev/gpiochip0"
	c.Hardware.Buttons.Pins = input.DefaultButtonPins()
	c.Catalog.Snapshot = true
	c.Receipt.Width = receipt.DefaultWidth
	return c
}

// ReadConfig reads names in order. With OsFullReader relative paths
// (including includes) resolve against directory of first name.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.NotValidf("config names empty")
	}
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, first := filepath.Split(names[0])
		if dir != "" {
			fs = NewOsFullReader(osfs.Normalize(dir))
			names = append([]string{first}, names[1:]...)
		}
	}
	l := configLoader{log: log, fs: fs, c: newConfig(), seen: make(map[string]bool)}
	for _, name := range names {
		l.load(ConfigSource{Name: name}, "")
	}
	return l.c, helpers.FoldErrors(l.errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
