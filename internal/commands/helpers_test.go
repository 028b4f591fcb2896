package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"9:5", "09:05", true},
		{"09:30", "09:30", true},
		{" 23:59 ", "23:59", true},
		{"0:0", "00:00", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"-1:30", "", false},
		{"noon", "", false},
		{"12", "", false},
		{"12:30:45", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseAlertArgs(t *testing.T) {
	coin, above, target, err := parseAlertArgs("BTC > 70000")
	require.NoError(t, err)
	assert.Equal(t, "btc", coin)
	assert.True(t, above)
	assert.Equal(t, 70000.0, target)

	coin, above, target, err = parseAlertArgs("eth below 2500.50")
	require.NoError(t, err)
	assert.Equal(t, "eth", coin)
	assert.False(t, above)
	assert.Equal(t, 2500.5, target)

	_, above, _, err = parseAlertArgs("sol >= 200")
	require.NoError(t, err)
	assert.True(t, above)

	_, _, _, err = parseAlertArgs("btc 70000")
	assert.Error(t, err)

	_, _, _, err = parseAlertArgs("btc near 70000")
	assert.Error(t, err)

	_, _, _, err = parseAlertArgs("btc > cheap")
	assert.Error(t, err)

	_, _, _, err = parseAlertArgs("btc > -5")
	assert.Error(t, err)
}

func TestParseTradeArgs(t *testing.T) {
	coin, amount, price, err := parseTradeArgs("BTC 0.1 50000")
	require.NoError(t, err)
	assert.Equal(t, "btc", coin)
	assert.Equal(t, 0.1, amount)
	assert.Equal(t, 50000.0, price)

	_, _, _, err = parseTradeArgs("btc 0.1")
	assert.Error(t, err)

	_, _, _, err = parseTradeArgs("btc lots 50000")
	assert.Error(t, err)

	_, _, _, err = parseTradeArgs("btc 0 50000")
	assert.Error(t, err)

	_, _, _, err = parseTradeArgs("btc 0.1 -50000")
	assert.Error(t, err)
}
