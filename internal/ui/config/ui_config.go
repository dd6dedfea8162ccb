package ui_config

import (
	"time"

	"github.com/vendlasvegas/SelfCheck/helpers"
)

type Config struct { //nolint:maligned
	Window struct {
		Width  int `hcl:"width"`
		Height int `hcl:"height"`
	} `hcl:"window"`

	Idle struct {
		SelectSec int      `hcl:"select_sec"`
		SlideSec  int      `hcl:"slide_sec"`
		Slides    []string `hcl:"slides"`
	} `hcl:"idle"`

	PriceCheck struct {
		TimeoutSec int `hcl:"timeout_sec"`
	} `hcl:"price_check"`

	Admin struct {
		TimeoutSec int `hcl:"timeout_sec"`
	} `hcl:"admin"`

	Cart struct {
		TimeoutSec int `hcl:"timeout_sec"`
		ConfirmSec int `hcl:"confirm_sec"`
	} `hcl:"cart"`

	DebounceMs    int `hcl:"debounce_ms"`
	TickMs        int `hcl:"tick_ms"`
	JobTimeoutSec int `hcl:"job_timeout_sec"`
}

const (
	DefaultWidth  = 1280
	DefaultHeight = 1024
)

func (c *Config) IdleSelectTimeout() time.Duration {
	return helpers.IntSecondDefault(c.Idle.SelectSec, 30*time.Second)
}
func (c *Config) SlideInterval() time.Duration {
	return helpers.IntSecondDefault(c.Idle.SlideSec, 8*time.Second)
}
func (c *Config) PriceCheckTimeout() time.Duration {
	return helpers.IntSecondDefault(c.PriceCheck.TimeoutSec, 30*time.Second)
}
func (c *Config) AdminTimeout() time.Duration {
	return helpers.IntSecondDefault(c.Admin.TimeoutSec, 90*time.Second)
}
func (c *Config) CartTimeout() time.Duration {
	return helpers.IntSecondDefault(c.Cart.TimeoutSec, 45*time.Second)
}
func (c *Config) CartConfirmTimeout() time.Duration {
	return helpers.IntSecondDefault(c.Cart.ConfirmSec, 30*time.Second)
}
func (c *Config) Debounce() time.Duration {
	return helpers.IntMillisecondDefault(c.DebounceMs, 300*time.Millisecond)
}
func (c *Config) Tick() time.Duration {
	return helpers.IntMillisecondDefault(c.TickMs, time.Second)
}
func (c *Config) JobTimeout() time.Duration {
	return helpers.IntSecondDefault(c.JobTimeoutSec, 60*time.Second)
}
