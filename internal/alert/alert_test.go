package alert

import (
	"testing"

	"crypto-summary-bot/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestTriggered(t *testing.T) {
	above := types.Alert{Coin: "btc", Target: 70000, Above: true}
	assert.False(t, Triggered(above, 69999.99))
	assert.True(t, Triggered(above, 70000))
	assert.True(t, Triggered(above, 70001))

	below := types.Alert{Coin: "eth", Target: 2500, Above: false}
	assert.True(t, Triggered(below, 2499))
	assert.True(t, Triggered(below, 2500))
	assert.False(t, Triggered(below, 2500.01))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "above", direction(true))
	assert.Equal(t, "below", direction(false))
}
