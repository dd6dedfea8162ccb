package receipt

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/spq"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/log2"
)

func testReceipt() cart.Receipt {
	return cart.Receipt{
		TransactionID: "24041001",
		Time:          time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC),
		Lines: []cart.LineItem{
			{UPC: "012345678905", Name: "Acme Cola 12oz", Price: decimal.RequireFromString("1.50"), Taxable: true, Quantity: 2},
			{UPC: "049000028911", Name: "Water", Price: decimal.RequireFromString("7.00"), Taxable: false, Quantity: 1},
		},
		TaxRate: decimal.RequireFromString("8"),
		Totals: cart.Totals{
			Subtotal: decimal.RequireFromString("10.00"),
			Tax:      decimal.RequireFromString("0.24"),
			Total:    decimal.RequireFromString("10.24"),
		},
		Payment: cart.PaymentCard,
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	text := Format(testReceipt(), "Corner Kiosk", 32)
	expect := strings.Join([]string{
		"          Corner Kiosk",
		"Transaction             24041001",
		"2024-02-10              09:30:00",
		strings.Repeat("-", 32),
		"Acme Cola 12oz T           $3.00",
		"  2 @ $1.50                     ",
		"Water                      $7.00",
		strings.Repeat("-", 32),
		"Subtotal                  $10.00",
		"Tax 8%                     $0.24",
		"Total                     $10.24",
		"Paid                        CARD",
		"",
	}, "\n")
	assert.Equal(t, expect, text)
}

func TestFormatLongName(t *testing.T) {
	t.Parallel()

	r := testReceipt()
	r.Lines = r.Lines[:1]
	r.Lines[0].Name = strings.Repeat("x", 50)
	for _, line := range strings.Split(strings.TrimRight(Format(r, "", 20), "\n"), "\n") {
		assert.Len(t, line, 20, line)
	}
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewFileSink(Config{Dir: dir, Codepage: "windows-1252", QR: true, QRURL: "https://example.com/r/%s"})
	require.NoError(t, err)
	r := testReceipt()
	r.Lines[1].Name = "Café"
	require.NoError(t, sink.Deliver(r))

	b, err := ioutil.ReadFile(sink.TextPath(r.TransactionID))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Transaction")
	assert.Contains(t, string(b), "Caf\xe9")

	st, err := os.Stat(sink.QRPath(r.TransactionID))
	require.NoError(t, err)
	assert.NotZero(t, st.Size())
}

func TestFileSinkConfig(t *testing.T) {
	t.Parallel()

	_, err := NewFileSink(Config{})
	assert.Error(t, err)
	_, err = NewFileSink(Config{Dir: t.TempDir(), Codepage: "no-such-codepage"})
	assert.Error(t, err)
}

func TestOutboxRetry(t *testing.T) {
	t.Parallel()

	delivered := make(chan cart.Receipt, 1)
	attempts := 0
	sink := SinkFunc(func(r cart.Receipt) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("printer offline")
		}
		delivered <- r
		return nil
	})
	o, err := NewOutbox(spq.OnlyForTesting, sink, log2.NewTest(t, log2.LDebug))
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Deliver(testReceipt()))
	select {
	case r := <-delivered:
		assert.Equal(t, "24041001", r.TransactionID)
		assert.Equal(t, "10.24", r.Totals.Total.StringFixed(2))
		require.Len(t, r.Lines, 2)
		assert.Equal(t, 2, r.Lines[0].Quantity)
	case <-time.After(10 * time.Second):
		t.Fatal("receipt not delivered")
	}
	assert.Equal(t, 2, attempts)
}
