package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/inactivity"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

type priceCheck struct {
	ui   *UI
	sup  *inactivity.Supervisor
	item *types.ItemView
	msg  string
}

func newPriceCheck(ui *UI) *priceCheck {
	return &priceCheck{ui: ui, sup: inactivity.New("price_check", ui.g.Now)}
}

func (self *priceCheck) Kind() ModeKind                     { return ModePriceCheck }
func (self *priceCheck) Supervisor() *inactivity.Supervisor { return self.sup }

func (self *priceCheck) Start(ctx context.Context) error {
	self.sup.Arm(self.ui.config.PriceCheckTimeout(), func() { self.ui.requestSwitch(ModeIdle) })
	if self.ui.g.Catalog.Len() == 0 {
		return errors.Trace(catalog.ErrCatalogUnavailable)
	}
	self.reset()
	return nil
}

func (self *priceCheck) Stop() {
	self.sup.Cancel()
	self.item = nil
}

func (self *priceCheck) UsesButton(b types.Button) bool { return b == types.ButtonB }

func (self *priceCheck) Handle(ctx context.Context, e types.Event) ModeKind {
	switch e.Kind {
	case types.EventButton:
		if e.Button == types.ButtonB {
			self.reset()
		}

	case types.EventTouch:
		if HitTest(ScreenPriceCheck, e.X, e.Y) == RegionReset {
			self.reset()
		}

	case types.EventScan:
		self.scan(e.Code)
	}
	return ModeNone
}

func (self *priceCheck) reset() {
	self.item = nil
	self.msg = MsgScanItem
	self.render()
}

func (self *priceCheck) scan(code string) {
	code = strings.TrimSpace(code)
	self.item = nil
	switch rec, ok := self.ui.g.Catalog.Lookup(code); {
	case code == "":
		self.msg = MsgNoScan
	case !ok:
		self.ui.g.Log.Infof("price check not found code=%s", code)
		self.msg = fmt.Sprintf(MsgNotFoundFormat, code)
	default:
		self.item = itemView(rec)
		self.msg = ""
	}
	self.render()
}

func (self *priceCheck) render() {
	self.ui.render(types.View{
		Screen:  ScreenPriceCheck,
		Message: self.msg,
		Item:    self.item,
	})
}

// itemView keeps raw sheet text, except price formatted when it parses.
func itemView(rec *catalog.Record) *types.ItemView {
	price := rec.Price
	if p, err := currency.ParsePrice(rec.Price); err == nil {
		price = currency.Format(p)
	}
	return &types.ItemView{
		UPC:      rec.UPC,
		Brand:    rec.Brand,
		Name:     rec.Name,
		Size:     rec.Size,
		Calories: rec.Calories,
		Sugar:    rec.Sugar,
		Sodium:   rec.Sodium,
		Price:    price,
		OnHand:   rec.OnHand,
		Image:    rec.Image,
	}
}
