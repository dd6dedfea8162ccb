package ui

import "fmt"

// Screen names are also sent to renderer in View.Screen.
const (
	ScreenSlideshow  = "slideshow"
	ScreenSelect     = "select"
	ScreenPriceCheck = "price_check"
	ScreenLogin      = "login"
	ScreenAdminMenu  = "admin_menu"
	ScreenCart       = "cart"
	ScreenConfirm    = "confirm"
	ScreenError      = "error"
)

type Region uint8

const (
	RegionNone Region = iota
	RegionAdminCorner
	RegionAnywhere
	RegionPriceCheck
	RegionCart
	RegionReset
	RegionCredentials
	RegionLocation
	RegionWifi
	RegionPortal
	RegionExit
	RegionCancel
	RegionPayCard
	RegionPayCash
	RegionContinue
	RegionConfirmNo
)

var regionNames = [...]string{"none", "admin_corner", "anywhere", "price_check", "cart", "reset",
	"credentials", "location", "wifi", "portal", "exit", "cancel", "pay_card", "pay_cash", "continue", "confirm_no"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return fmt.Sprintf("Region(%d)", r)
}

// Layout coordinates are for 1280x1024 window.
const (
	layoutWidth  = 1280
	layoutHeight = 1024
)

type rect struct{ x0, y0, x1, y1 int }

func (r rect) contains(x, y int) bool { return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1 }

type hitRegion struct {
	region Region
	rect   rect
}

var everywhere = rect{0, 0, layoutWidth, layoutHeight}

// Order matters, first match wins.
var layout = map[string][]hitRegion{
	ScreenSlideshow: {
		{RegionAdminCorner, rect{0, 0, 100, 100}},
		{RegionAnywhere, everywhere},
	},
	ScreenSelect: {
		{RegionPriceCheck, rect{140, 400, 600, 700}},
		{RegionCart, rect{680, 400, 1140, 700}},
	},
	ScreenPriceCheck: {
		{RegionReset, rect{490, 924, 790, 1004}},
	},
	ScreenAdminMenu: {
		{RegionCredentials, rect{80, 296, 780, 366}},
		{RegionLocation, rect{80, 396, 780, 466}},
		{RegionWifi, rect{80, 496, 780, 566}},
		{RegionPortal, rect{80, 596, 780, 666}},
		{RegionExit, rect{80, 696, 380, 766}},
	},
	ScreenCart: {
		{RegionCancel, rect{80, 924, 380, 1004}},
		{RegionPayCard, rect{490, 924, 790, 1004}},
		{RegionPayCash, rect{900, 924, 1200, 1004}},
	},
	ScreenConfirm: {
		{RegionContinue, rect{340, 560, 620, 660}},
		{RegionConfirmNo, rect{660, 560, 940, 660}},
	},
}

// HitTest maps layout point to region of screen, RegionNone if nothing matches.
func HitTest(screen string, x, y int) Region {
	for _, h := range layout[screen] {
		if h.rect.contains(x, y) {
			return h.region
		}
	}
	return RegionNone
}

// toLayout scales window point to layout coordinates.
func toLayout(x, y, width, height int) (int, int) {
	if width <= 0 || height <= 0 || (width == layoutWidth && height == layoutHeight) {
		return x, y
	}
	return x * layoutWidth / width, y * layoutHeight / height
}
