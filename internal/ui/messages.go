package ui

import (
	"github.com/vendlasvegas/SelfCheck/internal/cart"
)

const (
	MsgError          = "Something went wrong, please ask staff"
	MsgNoInventory    = "No inventory loaded"
	MsgScanItem       = "Scan an item"
	MsgNoScan         = "No scan"
	MsgNotFoundFormat = "Not found: %s"
	MsgChoose         = "Touch to choose"
	MsgAdminLogin     = "Admin login"
	MsgLoginEmpty     = "Enter user and password"
	MsgChecking       = "Checking..."
	MsgAdminMenu      = "Admin menu"
	MsgBusy           = "Update in progress"
	MsgUpdating       = "Updating..."
	MsgUpdatedFormat  = "Updated: %s"
	MsgWifi           = "Wi-Fi setup is not supported on this kiosk"
	MsgPortalMissing  = "Inventory portal is not configured"
	MsgRefreshed      = "Inventory refreshed: %d items"
	MsgCartEmpty      = "Scan items to start"
	MsgAddedFormat    = "Added %s"
	MsgCancelled      = "Order cancelled"
	MsgStillThere     = "Are you still there?"
	MsgThanks         = "Thank you!"
)

var cartMessages = map[error]string{
	cart.ErrItemNotFound:          "Item not found",
	cart.ErrItemLimitExceeded:     "Maximum items reached",
	cart.ErrQuantityLimitExceeded: "Maximum quantity reached",
	cart.ErrRecordMalformed:       "Item can not be sold, please ask staff",
	cart.ErrCatalogUnavailable:    MsgNoInventory,
	cart.ErrCartEmpty:             "Cart is empty",
	cart.ErrCheckedOut:            MsgError,
}

// cartMessage maps cart error to text for customer.
func cartMessage(err error) string {
	if msg, ok := cartMessages[cart.Kind(err)]; ok {
		return msg
	}
	return MsgError
}
