package receipt

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/skip2/go-qrcode"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
)

const qrSize = 256

// FileSink writes receipt_<id>.txt in printer codepage and optional QR png.
type FileSink struct {
	config Config
	tr     charset.Translator
}

var _ Sink = new(FileSink)

func NewFileSink(config Config) (*FileSink, error) {
	if config.Dir == "" {
		return nil, errors.NotValidf("receipt dir=empty")
	}
	self := &FileSink{config: config}
	if config.Codepage != "" {
		tr, err := charset.TranslatorTo(config.Codepage)
		if err != nil {
			return nil, errors.Annotatef(err, "receipt codepage=%s", config.Codepage)
		}
		self.tr = tr
	}
	return self, nil
}

func (self *FileSink) TextPath(id string) string {
	return filepath.Join(self.config.Dir, fmt.Sprintf("receipt_%s.txt", id))
}

func (self *FileSink) QRPath(id string) string {
	return filepath.Join(self.config.Dir, fmt.Sprintf("receipt_%s.png", id))
}

func (self *FileSink) Deliver(r cart.Receipt) error {
	if err := os.MkdirAll(self.config.Dir, 0755); err != nil {
		return errors.Annotate(err, "receipt")
	}
	text := []byte(Format(r, self.config.StoreName, self.config.Width))
	if self.tr != nil {
		_, tb, err := self.tr.Translate(text, true)
		if err != nil {
			return errors.Annotatef(err, "receipt translate codepage=%s", self.config.Codepage)
		}
		// translator reuses single internal buffer, make a copy
		text = append([]byte(nil), tb...)
	}
	if err := ioutil.WriteFile(self.TextPath(r.TransactionID), text, 0644); err != nil {
		return errors.Annotate(err, "receipt")
	}
	if self.config.QR {
		content := r.TransactionID
		if self.config.QRURL != "" {
			content = fmt.Sprintf(self.config.QRURL, r.TransactionID)
		}
		if err := qrcode.WriteFile(content, qrcode.Medium, qrSize, self.QRPath(r.TransactionID)); err != nil {
			return errors.Annotate(err, "receipt QR")
		}
	}
	return nil
}
