package cart

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// taxFile is side file format: {"rate": 8.25}
type taxFile struct {
	Rate *decimal.Decimal `json:"rate"`
}

// LoadTaxRate reads percentage. Missing or bad file is ErrConfigUnavailable.
func LoadTaxRate(path string) (decimal.Decimal, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return decimal.Zero, errors.Annotatef(errors.Wrap(err, ErrConfigUnavailable), "tax path=%s", path)
	}
	var tf taxFile
	if err = json.Unmarshal(b, &tf); err != nil {
		return decimal.Zero, errors.Annotatef(errors.Wrap(err, ErrConfigUnavailable), "tax path=%s", path)
	}
	if tf.Rate == nil || tf.Rate.IsNegative() {
		return decimal.Zero, errors.Annotatef(ErrConfigUnavailable, "tax path=%s rate missing or negative", path)
	}
	return *tf.Rate, nil
}

func SaveTaxRate(path string, rate decimal.Decimal) error {
	// number, not decimal's quoted string, and no float rounding
	b, err := json.Marshal(map[string]json.Number{"rate": json.Number(rate.String())})
	if err != nil {
		return errors.Trace(err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Annotatef(err, "tax path=%s", path)
	}
	return errors.Annotatef(writeFileAtomic(path, b), "tax path=%s", path)
}
