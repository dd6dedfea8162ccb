package admin

import (
	"context"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"github.com/vendlasvegas/SelfCheck/log2"
)

// RefreshResult is built off control loop, installed on it.
type RefreshResult struct {
	Index    *catalog.Index
	FromSnap bool
	TaxRate  *decimal.Decimal
	TaxErr   error
}

type Refresher struct {
	Source   sheets.Source
	Snapshot *catalog.Snapshot
	TaxPath  string
	Log      *log2.Log
}

// Refresh loads catalog rows, falls back to last good snapshot,
// then updates tax side file from Credentials!B27.
// Error is returned only when no catalog could be produced at all.
func (self *Refresher) Refresh(ctx context.Context, allowSnapshot bool) (*RefreshResult, error) {
	result := &RefreshResult{}
	sheet, err := sheets.LoadCatalog(ctx, self.Source)
	if err == nil {
		if self.Snapshot != nil {
			if serr := self.Snapshot.Save(sheet); serr != nil {
				self.Log.Error(errors.Annotate(serr, "catalog snapshot save"))
			}
		}
	} else if allowSnapshot && self.Snapshot != nil {
		self.Log.Error(errors.Annotate(err, "catalog source failed, trying snapshot"))
		var serr error
		sheet, serr = self.Snapshot.Restore()
		switch {
		case serr != nil:
			self.Log.Error(errors.Annotate(serr, "catalog snapshot restore"))
		case sheet != nil:
			err = nil
			result.FromSnap = true
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, catalog.ErrCatalogUnavailable)
	}
	result.Index = catalog.BuildSheet(sheet)

	if !result.FromSnap {
		rate, terr := self.refreshTax(ctx)
		if terr != nil {
			self.Log.Error(terr)
			result.TaxErr = terr
		} else {
			result.TaxRate = &rate
		}
	}
	return result, nil
}

func (self *Refresher) refreshTax(ctx context.Context) (decimal.Decimal, error) {
	raw, ok, err := sheets.ReadCell(ctx, self.Source, sheets.TabCredentials, RefTaxRate)
	if err != nil {
		// unreadable tab is missing configuration, same as empty cell
		return decimal.Zero, errors.Annotate(errors.Wrap(err, cart.ErrConfigUnavailable), "tax refresh")
	}
	if !ok {
		return decimal.Zero, errors.Annotatef(cart.ErrConfigUnavailable, "tax refresh %s!%s empty", sheets.TabCredentials, RefTaxRate)
	}
	rate, err := currency.ParsePercent(raw)
	if err != nil {
		return decimal.Zero, errors.Annotate(errors.Wrap(err, cart.ErrConfigUnavailable), "tax refresh")
	}
	if err = cart.SaveTaxRate(self.TaxPath, rate); err != nil {
		return decimal.Zero, err
	}
	self.Log.Infof("tax rate updated rate=%s%% path=%s", rate.String(), self.TaxPath)
	return rate, nil
}
