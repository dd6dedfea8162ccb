// Package cart runs one self-checkout transaction: item and quantity limits,
// totals with tax, daily transaction ids, receipt snapshot at checkout.
package cart

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/log2"
)

const (
	MaxItemsDefault    = 15
	MaxQuantityDefault = 10
)

type Config struct {
	MaxItems      int    `hcl:"max_items"`
	MaxQuantity   int    `hcl:"max_quantity"`
	TaxFile       string `hcl:"tax_file"`
	CounterDir    string `hcl:"counter_dir"`
	CounterPrefix string `hcl:"counter_prefix"`
}

// Catalog is read side of catalog.Store.
type Catalog interface {
	Lookup(scanned string) (*catalog.Record, bool)
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Receipt is immutable checkout snapshot for receipt sink.
type Receipt struct {
	TransactionID string
	Time          time.Time
	Lines         []LineItem
	TaxRate       decimal.Decimal
	Totals        Totals
	Payment       PaymentMethod
}

type Engine struct {
	config  Config
	log     *log2.Log
	catalog Catalog
	counter *Counter
	now     func() time.Time
}

func NewEngine(config Config, cat Catalog, log *log2.Log, now func() time.Time) *Engine {
	if config.MaxItems <= 0 {
		config.MaxItems = MaxItemsDefault
	}
	if config.MaxQuantity <= 0 {
		config.MaxQuantity = MaxQuantityDefault
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		config:  config,
		log:     log,
		catalog: cat,
		counter: NewCounter(config.CounterDir, config.CounterPrefix, log),
		now:     now,
	}
}

func (self *Engine) Config() Config { return self.config }

// NewTransaction never fails: counter and tax problems are logged.
func (self *Engine) NewTransaction() *Transaction {
	now := self.now()
	id, err := self.counter.Next(now)
	if err != nil {
		self.log.Error(errors.Annotate(err, "transaction id kept in memory"))
	}
	tx := newTransaction(id, self.taxRate(), now)
	self.log.Infof("cart transaction begin id=%s tax_rate=%s", tx.ID, tx.TaxRate.String())
	return tx
}

// Cancel discards all lines. Returned empty transaction keeps unused id.
func (self *Engine) Cancel(tx *Transaction) *Transaction {
	self.log.Infof("cart transaction cancel id=%s lines=%d", tx.ID, tx.Len())
	return newTransaction(tx.ID, self.taxRate(), self.now())
}

// Scan adds one unit of scanned item. On error transaction is unchanged.
func (self *Engine) Scan(tx *Transaction, code string) (LineItem, error) {
	if tx.phase == PhaseCheckedOut {
		return LineItem{}, errors.Trace(ErrCheckedOut)
	}
	code = strings.TrimSpace(code)
	rec, found := self.catalog.Lookup(code)

	if tx.Len() >= self.config.MaxItems {
		if !found {
			return LineItem{}, errors.Annotatef(ErrItemLimitExceeded, "code=%s", code)
		}
		if _, ok := tx.byUPC[rec.UPC]; !ok {
			return LineItem{}, errors.Annotatef(ErrItemLimitExceeded, "code=%s upc=%s", code, rec.UPC)
		}
	}
	if !found {
		return LineItem{}, errors.Annotatef(ErrItemNotFound, "code=%s", code)
	}

	if li, ok := tx.byUPC[rec.UPC]; ok {
		if li.Quantity >= self.config.MaxQuantity {
			return *li, errors.Annotatef(ErrQuantityLimitExceeded, "upc=%s quantity=%d", rec.UPC, li.Quantity)
		}
		li.Quantity++
		return *li, nil
	}

	li, err := lineFromRecord(rec)
	if err != nil {
		return LineItem{}, err
	}
	tx.add(li)
	return *li, nil
}

func (self *Engine) Checkout(tx *Transaction, method PaymentMethod) (Receipt, error) {
	switch tx.phase {
	case PhaseEmpty:
		return Receipt{}, errors.Trace(ErrCartEmpty)
	case PhaseCheckedOut:
		return Receipt{}, errors.Trace(ErrCheckedOut)
	}
	r := Receipt{
		TransactionID: tx.ID,
		Time:          self.now(),
		Lines:         tx.Lines(),
		TaxRate:       tx.TaxRate,
		Totals:        tx.Totals(),
		Payment:       method,
	}
	tx.phase = PhaseCheckedOut
	tx.lines, tx.byUPC = nil, nil
	self.log.Infof("cart checkout id=%s payment=%s total=%s", r.TransactionID, method, currency.Format(r.Totals.Total))
	return r, nil
}

func (self *Engine) TaxPath() string { return self.config.TaxFile }

func (self *Engine) taxRate() decimal.Decimal {
	if self.config.TaxFile == "" {
		self.log.Errorf("cart tax_file not configured, rate=0")
		return decimal.Zero
	}
	rate, err := LoadTaxRate(self.config.TaxFile)
	if err != nil {
		self.log.Error(errors.Annotate(err, "tax rate=0"))
		return decimal.Zero
	}
	return rate
}

func lineFromRecord(rec *catalog.Record) (*LineItem, error) {
	price, err := currency.ParsePrice(rec.Price)
	if err != nil {
		return nil, errors.Annotatef(errors.Wrap(err, ErrRecordMalformed), "upc=%s", rec.UPC)
	}
	taxable, ok := ParseTaxable(rec.Taxable)
	if !ok {
		return nil, errors.Annotatef(ErrRecordMalformed, "upc=%s taxable=%q", rec.UPC, rec.Taxable)
	}
	return &LineItem{
		UPC:      rec.UPC,
		Name:     rec.DisplayName(),
		Price:    price,
		Taxable:  taxable,
		Quantity: 1,
	}, nil
}

func ParseTaxable(s string) (taxable bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

// DefaultPaths fills relative file names under root.
func (c *Config) DefaultPaths(root, credDir string) {
	if c.TaxFile == "" {
		c.TaxFile = "Tax.json"
	}
	if !filepath.IsAbs(c.TaxFile) {
		c.TaxFile = filepath.Join(credDir, c.TaxFile)
	}
	if c.CounterDir == "" {
		c.CounterDir = "Logs"
	}
	if !filepath.IsAbs(c.CounterDir) {
		c.CounterDir = filepath.Join(root, c.CounterDir)
	}
}
