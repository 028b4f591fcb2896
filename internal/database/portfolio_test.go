package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPositionFirstBuy(t *testing.T) {
	amount, avgPrice, err := nextPosition(0, 0, 0.5, 40000, "buy")
	require.NoError(t, err)
	assert.Equal(t, 0.5, amount)
	assert.Equal(t, 40000.0, avgPrice)
}

func TestNextPositionRepeatBuyAveraging(t *testing.T) {
	amount, avgPrice, err := nextPosition(1, 50000, 1, 60000, "buy")
	require.NoError(t, err)
	assert.Equal(t, 2.0, amount)
	assert.Equal(t, 55000.0, avgPrice)

	// A small top-up shifts the basis proportionally.
	amount, avgPrice, err = nextPosition(2, 55000, 0.5, 70000, "buy")
	require.NoError(t, err)
	assert.Equal(t, 2.5, amount)
	assert.InDelta(t, 58000.0, avgPrice, 0.0001)
}

func TestNextPositionPartialSellKeepsBasis(t *testing.T) {
	amount, avgPrice, err := nextPosition(2, 55000, 0.5, 70000, "sell")
	require.NoError(t, err)
	assert.Equal(t, 1.5, amount)
	assert.Equal(t, 55000.0, avgPrice)
}

func TestNextPositionFullSellClosesPosition(t *testing.T) {
	amount, _, err := nextPosition(1, 50000, 1, 65000, "sell")
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)
}

func TestNextPositionOversell(t *testing.T) {
	_, _, err := nextPosition(0.5, 50000, 1, 65000, "sell")
	assert.Equal(t, ErrInsufficientHoldings, err)

	// No position at all.
	_, _, err = nextPosition(0, 0, 1, 65000, "sell")
	assert.Equal(t, ErrInsufficientHoldings, err)
}

func TestNextPositionUnknownType(t *testing.T) {
	_, _, err := nextPosition(1, 50000, 1, 65000, "short")
	assert.Error(t, err)
}
