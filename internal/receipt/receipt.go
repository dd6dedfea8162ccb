// Package receipt renders checkout snapshots and hands them to printers,
// files or any other sink, buffering through a persistent outbox.
package receipt

import (
	"fmt"
	"strings"

	"github.com/vendlasvegas/SelfCheck/currency"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
)

type Config struct {
	Enable    bool   `hcl:"enable"`
	Dir       string `hcl:"dir"`
	Codepage  string `hcl:"codepage"`
	Width     int    `hcl:"width"`
	StoreName string `hcl:"store_name"`
	QR        bool   `hcl:"qr"`
	QRURL     string `hcl:"qr_url"` // fmt template with transaction id
	Outbox    bool   `hcl:"outbox"`
}

const DefaultWidth = 32

type Sink interface {
	Deliver(r cart.Receipt) error
}

type SinkFunc func(cart.Receipt) error

func (f SinkFunc) Deliver(r cart.Receipt) error { return f(r) }

// Format renders fixed width plain text receipt.
func Format(r cart.Receipt, storeName string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	line := func(left, right string) {
		pad := width - len(left) - len(right)
		if pad < 1 {
			maxLeft := width - len(right) - 1
			if maxLeft < 0 {
				maxLeft = 0
			}
			if len(left) > maxLeft {
				left = left[:maxLeft]
			}
			pad = width - len(left) - len(right)
			if pad < 1 {
				pad = 1
			}
		}
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(right)
		b.WriteByte('\n')
	}
	center := func(s string) {
		if n := (width - len(s)) / 2; n > 0 {
			b.WriteString(strings.Repeat(" ", n))
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	rule := strings.Repeat("-", width)

	if storeName != "" {
		center(storeName)
	}
	line("Transaction", r.TransactionID)
	line(r.Time.Format("2006-01-02"), r.Time.Format("15:04:05"))
	b.WriteString(rule + "\n")
	for _, li := range r.Lines {
		name := li.Name
		if li.Taxable {
			name += " T"
		}
		line(name, currency.Format(li.Amount()))
		if li.Quantity > 1 {
			line(fmt.Sprintf("  %d @ %s", li.Quantity, currency.Format(li.Price)), "")
		}
	}
	b.WriteString(rule + "\n")
	line("Subtotal", currency.Format(r.Totals.Subtotal))
	line(fmt.Sprintf("Tax %s%%", r.TaxRate.String()), currency.Format(r.Totals.Tax))
	line("Total", currency.Format(r.Totals.Total))
	line("Paid", strings.ToUpper(string(r.Payment)))
	return b.String()
}
