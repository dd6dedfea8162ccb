package cart

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
)

var (
	ErrItemNotFound          = fmt.Errorf("item not found")
	ErrItemLimitExceeded     = fmt.Errorf("maximum items reached")
	ErrQuantityLimitExceeded = fmt.Errorf("maximum quantity reached")
	ErrRecordMalformed       = fmt.Errorf("item record malformed")
	ErrCatalogUnavailable    = catalog.ErrCatalogUnavailable
	ErrConfigUnavailable     = fmt.Errorf("config unavailable")
	ErrCounterPersistFailed  = fmt.Errorf("transaction counter persist failed")
	ErrCartEmpty             = fmt.Errorf("cart is empty")
	ErrCheckedOut            = fmt.Errorf("transaction already checked out")
)

var taxonomy = []error{
	ErrItemNotFound,
	ErrItemLimitExceeded,
	ErrQuantityLimitExceeded,
	ErrRecordMalformed,
	ErrCatalogUnavailable,
	ErrConfigUnavailable,
	ErrCounterPersistFailed,
	ErrCartEmpty,
	ErrCheckedOut,
}

// Kind returns taxonomy member behind annotated err, or nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	cause := errors.Cause(err)
	for _, k := range taxonomy {
		if cause == k {
			return k
		}
	}
	return nil
}
