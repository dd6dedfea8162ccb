package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendlasvegas/SelfCheck/currency"
)

type Phase uint8

const (
	PhaseEmpty Phase = iota
	PhaseActive
	PhaseCheckedOut
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseActive:
		return "active"
	case PhaseCheckedOut:
		return "checked-out"
	}
	return "invalid"
}

type LineItem struct {
	UPC      string
	Name     string
	Price    currency.Amount
	Taxable  bool
	Quantity int
}

func (li LineItem) Amount() currency.Amount { return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))) }

type Totals struct {
	Subtotal currency.Amount
	Tax      currency.Amount
	Total    currency.Amount
}

// Transaction is owned by cart mode alone, not safe for concurrent use.
type Transaction struct {
	ID      string
	TaxRate decimal.Decimal
	Started time.Time

	lines []*LineItem // display order
	byUPC map[string]*LineItem
	phase Phase
}

func newTransaction(id string, rate decimal.Decimal, now time.Time) *Transaction {
	return &Transaction{
		ID:      id,
		TaxRate: rate,
		Started: now,
		byUPC:   make(map[string]*LineItem, MaxItemsDefault),
	}
}

func (self *Transaction) Phase() Phase { return self.phase }
func (self *Transaction) Len() int     { return len(self.lines) }

// Lines returns copies in insertion order.
func (self *Transaction) Lines() []LineItem {
	ls := make([]LineItem, len(self.lines))
	for i, li := range self.lines {
		ls[i] = *li
	}
	return ls
}

func (self *Transaction) Line(upc string) (LineItem, bool) {
	if li, ok := self.byUPC[upc]; ok {
		return *li, true
	}
	return LineItem{}, false
}

func (self *Transaction) Items() int {
	n := 0
	for _, li := range self.lines {
		n += li.Quantity
	}
	return n
}

// Totals: tax applies to taxable lines, rounded to cents.
func (self *Transaction) Totals() Totals {
	subtotal, taxable := currency.Zero, currency.Zero
	for _, li := range self.lines {
		a := li.Amount()
		subtotal = subtotal.Add(a)
		if li.Taxable {
			taxable = taxable.Add(a)
		}
	}
	tax := currency.Percent(taxable, self.TaxRate)
	return Totals{
		Subtotal: currency.Cents(subtotal),
		Tax:      tax,
		Total:    currency.Cents(subtotal).Add(tax),
	}
}

func (self *Transaction) add(li *LineItem) {
	self.lines = append(self.lines, li)
	self.byUPC[li.UPC] = li
	self.phase = PhaseActive
}
