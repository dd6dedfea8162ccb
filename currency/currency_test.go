package currency

import (
	"testing"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input     string
		expect    string
		expectErr bool
	}{
		{"$2.50", "$2.50", false},
		{"2.5", "$2.50", false},
		{" $1,299.00 ", "$1299.00", false},
		{"$0", "$0.00", false},
		{"", "", true},
		{"$", "", true},
		{"two", "", true},
		{"-1.00", "", true},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			a, err := ParsePrice(c.input)
			if c.expectErr {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, Format(a))
		})
	}
}

func TestParsePercent(t *testing.T) {
	t.Parallel()

	p, err := ParsePercent(" 8.25% ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("8.25").Equal(p))
	_, err = ParsePercent("")
	assert.Error(t, err)
	_, err = ParsePercent("150")
	assert.Error(t, err)
	_, err = ParsePercent("abc%")
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	t.Parallel()

	ten := decimal.RequireFromString("10.00")
	assert.Equal(t, "$0.80", Format(Percent(ten, decimal.RequireFromString("8"))))
	// 2.50 * 8.375% = 0.209375
	assert.Equal(t, "$0.21", Format(Percent(decimal.RequireFromString("2.50"), decimal.RequireFromString("8.375"))))
	// half away from zero
	assert.Equal(t, "$0.13", Format(Percent(decimal.RequireFromString("2.50"), decimal.RequireFromString("5"))))
}

func TestCentsInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1080), CentsInt(decimal.RequireFromString("10.80")))
	assert.Equal(t, int64(21), CentsInt(decimal.RequireFromString("0.209375")))
	assert.Equal(t, int64(0), CentsInt(Zero))
}
