package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/inactivity"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	tele_api "github.com/vendlasvegas/SelfCheck/tele"
)

type cartMode struct {
	ui        *UI
	sup       *inactivity.Supervisor
	tx        *cart.Transaction
	confirm   bool
	countdown int
	msg       string
	errmsg    string
}

func newCart(ui *UI) *cartMode {
	return &cartMode{ui: ui, sup: inactivity.New("cart", ui.g.Now)}
}

func (self *cartMode) Kind() ModeKind                     { return ModeCart }
func (self *cartMode) Supervisor() *inactivity.Supervisor { return self.sup }

func (self *cartMode) Start(ctx context.Context) error {
	self.confirm = false
	self.msg, self.errmsg = MsgCartEmpty, ""
	if self.ui.g.Catalog.Len() == 0 {
		return errors.Trace(catalog.ErrCatalogUnavailable)
	}
	self.tx = self.ui.g.Cart.NewTransaction()
	self.arm()
	self.render()
	return nil
}

// Stop discards unfinished transaction.
func (self *cartMode) Stop() {
	self.sup.Cancel()
	if self.tx != nil && self.tx.Phase() != cart.PhaseCheckedOut {
		self.ui.g.Log.Infof("cart transaction abandoned id=%s lines=%d", self.tx.ID, self.tx.Len())
	}
	self.tx = nil
	self.confirm = false
}

func (self *cartMode) arm() {
	self.confirm = false
	self.sup.Arm(self.ui.config.CartTimeout(), self.askConfirm)
}

func (self *cartMode) askConfirm() {
	self.confirm = true
	self.sup.Arm(self.ui.config.CartConfirmTimeout(), func() { self.ui.requestSwitch(ModeIdle) })
	self.countdown = seconds(self.sup.Remaining())
	self.render()
}

// UsesButton is false, cart is driven by scans and touch.
func (self *cartMode) UsesButton(types.Button) bool { return false }

func (self *cartMode) Handle(ctx context.Context, e types.Event) ModeKind {
	switch e.Kind {
	case types.EventTick:
		if self.confirm {
			if n := seconds(self.sup.Remaining()); n != self.countdown {
				self.countdown = n
				self.render()
			}
		}

	case types.EventScan:
		if self.confirm {
			self.arm()
		}
		self.scan(e.Code)

	case types.EventTouch:
		if self.confirm {
			if HitTest(ScreenConfirm, e.X, e.Y) == RegionConfirmNo {
				return ModeIdle
			}
			self.arm()
			self.render()
			return ModeNone
		}
		switch HitTest(ScreenCart, e.X, e.Y) {
		case RegionCancel:
			self.tx = self.ui.g.Cart.Cancel(self.tx)
			self.msg, self.errmsg = MsgCancelled, ""
			self.render()
		case RegionPayCard:
			return self.checkout(cart.PaymentCard)
		case RegionPayCash:
			return self.checkout(cart.PaymentCash)
		}
	}
	return ModeNone
}

func (self *cartMode) scan(code string) {
	li, err := self.ui.g.Cart.Scan(self.tx, code)
	if err != nil {
		self.ui.g.Log.Infof("cart scan code=%s err=%v", code, err)
		self.msg, self.errmsg = "", cartMessage(err)
	} else {
		self.msg, self.errmsg = fmt.Sprintf(MsgAddedFormat, li.Name), ""
	}
	self.render()
}

func (self *cartMode) checkout(method cart.PaymentMethod) ModeKind {
	r, err := self.ui.g.Cart.Checkout(self.tx, method)
	if err != nil {
		self.msg, self.errmsg = "", cartMessage(err)
		self.render()
		return ModeNone
	}
	// receipt failure never blocks checkout
	if err := self.ui.g.Receipts.Deliver(r); err != nil {
		self.ui.g.Error(errors.Annotatef(err, "receipt transaction=%s", r.TransactionID))
	}
	self.ui.g.Tele.Transaction(teleTransaction(r))
	self.msg, self.errmsg = MsgThanks, ""
	self.render()
	return ModeIdle
}

func (self *cartMode) render() {
	v := types.View{
		Screen:  ScreenCart,
		Message: self.msg,
		Error:   self.errmsg,
	}
	if self.tx != nil {
		v.Cart = cartView(self.tx)
	}
	if self.confirm {
		v.Screen = ScreenConfirm
		v.Message = MsgStillThere
		v.Countdown = self.countdown
	}
	self.ui.render(v)
}

func cartView(tx *cart.Transaction) *types.CartView {
	totals := tx.Totals()
	lines := tx.Lines()
	cv := &types.CartView{
		TransactionID: tx.ID,
		Lines:         make([]types.CartLineView, 0, len(lines)),
		Subtotal:      currency.Format(totals.Subtotal),
		Tax:           currency.Format(totals.Tax),
		Total:         currency.Format(totals.Total),
		TaxRate:       tx.TaxRate.String(),
	}
	for _, li := range lines {
		cv.Lines = append(cv.Lines, types.CartLineView{
			UPC:      li.UPC,
			Name:     li.Name,
			Quantity: li.Quantity,
			Price:    currency.Format(li.Price),
			Amount:   currency.Format(li.Amount()),
		})
	}
	return cv
}

func teleTransaction(r cart.Receipt) *tele_api.Telemetry_Transaction {
	tm := &tele_api.Telemetry_Transaction{
		Id:       r.TransactionID,
		Subtotal: currency.CentsInt(r.Totals.Subtotal),
		Tax:      currency.CentsInt(r.Totals.Tax),
		Total:    currency.CentsInt(r.Totals.Total),
		Payment:  string(r.Payment),
		TaxRate:  r.TaxRate.String(),
		Lines:    make([]*tele_api.Telemetry_CartLine, 0, len(r.Lines)),
	}
	for _, li := range r.Lines {
		tm.Items += uint32(li.Quantity)
		tm.Lines = append(tm.Lines, &tele_api.Telemetry_CartLine{
			Upc:      li.UPC,
			Quantity: uint32(li.Quantity),
			Price:    currency.CentsInt(li.Price),
			Taxable:  li.Taxable,
		})
	}
	return tm
}

// seconds rounds up so countdown shows 1 until expiry.
func seconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
