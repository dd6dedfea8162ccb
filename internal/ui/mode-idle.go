package ui

import (
	"context"
	"time"

	"github.com/vendlasvegas/SelfCheck/internal/inactivity"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

// idle shows slideshow, touch opens selection screen.
type idle struct {
	ui      *UI
	sup     *inactivity.Supervisor
	screen  string
	slide   int
	slideAt time.Time
}

func newIdle(ui *UI) *idle {
	return &idle{ui: ui, sup: inactivity.New("idle", ui.g.Now)}
}

func (self *idle) Kind() ModeKind                     { return ModeIdle }
func (self *idle) Supervisor() *inactivity.Supervisor { return self.sup }

func (self *idle) Start(ctx context.Context) error {
	self.showSlideshow()
	return nil
}

func (self *idle) Stop() {
	self.sup.Cancel()
}

func (self *idle) UsesButton(b types.Button) bool { return b == types.ButtonB }

func (self *idle) Handle(ctx context.Context, e types.Event) ModeKind {
	switch e.Kind {
	case types.EventTick:
		if self.screen == ScreenSlideshow && len(self.ui.config.Idle.Slides) > 1 &&
			e.Time.Sub(self.slideAt) >= self.ui.config.SlideInterval() {
			self.slide = (self.slide + 1) % len(self.ui.config.Idle.Slides)
			self.slideAt = e.Time
			self.render()
		}

	case types.EventButton:
		if e.Button == types.ButtonB {
			return ModePriceCheck
		}

	case types.EventTouch:
		switch HitTest(self.screen, e.X, e.Y) {
		case RegionAdminCorner:
			return ModeAdmin
		case RegionAnywhere:
			self.screen = ScreenSelect
			self.sup.Arm(self.ui.config.IdleSelectTimeout(), self.showSlideshow)
			self.render()
		case RegionPriceCheck:
			return ModePriceCheck
		case RegionCart:
			return ModeCart
		}
	}
	return ModeNone
}

func (self *idle) showSlideshow() {
	self.sup.Cancel()
	self.screen = ScreenSlideshow
	self.slideAt = self.ui.g.Now()
	self.render()
}

func (self *idle) render() {
	v := types.View{Screen: self.screen}
	switch self.screen {
	case ScreenSlideshow:
		if slides := self.ui.config.Idle.Slides; len(slides) != 0 {
			v.Image = slides[self.slide%len(slides)]
		}
		v.Message = MsgChoose
	case ScreenSelect:
		v.Lines = []string{"Price Check", "Shopping Cart"}
	}
	self.ui.render(v)
}
