package commands

import (
	"testing"

	"crypto-summary-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPortfolioSummary(t *testing.T) {
	positions := []types.Position{
		{Coin: "btc", Amount: 1, AvgPrice: 50000},
		{Coin: "eth", Amount: 2, AvgPrice: 1000},
	}
	quotes := map[string]float64{"btc": 60000}
	quote := func(coin string) (float64, bool) {
		p, ok := quotes[coin]
		return p, ok
	}

	s := buildPortfolioSummary(positions, quote)
	require.Len(t, s.Positions, 2)

	btc := s.Positions[0]
	assert.Equal(t, 60000.0, btc.CurrentPrice)
	assert.Equal(t, 60000.0, btc.CurrentValue)
	assert.Equal(t, 50000.0, btc.InvestedValue)
	assert.Equal(t, 10000.0, btc.PnL)
	assert.InDelta(t, 20.0, btc.PnLPercent, 0.001)

	// No quote for eth: priced at the recorded average, so flat P&L.
	eth := s.Positions[1]
	assert.Equal(t, 1000.0, eth.CurrentPrice)
	assert.Equal(t, 2000.0, eth.CurrentValue)
	assert.Equal(t, 0.0, eth.PnL)
	assert.Equal(t, 0.0, eth.PnLPercent)

	assert.Equal(t, 52000.0, s.TotalInvested)
	assert.Equal(t, 62000.0, s.TotalCurrent)
	assert.Equal(t, 10000.0, s.TotalPnL)
	assert.InDelta(t, 19.23, s.TotalPnLPercent, 0.01)
}

func TestBuildPortfolioSummaryEmpty(t *testing.T) {
	s := buildPortfolioSummary(nil, nil)
	assert.Empty(t, s.Positions)
	assert.Equal(t, 0.0, s.TotalPnL)
	assert.Equal(t, 0.0, s.TotalPnLPercent)
}

func TestBuildPortfolioSummaryNilQuote(t *testing.T) {
	s := buildPortfolioSummary([]types.Position{{Coin: "btc", Amount: 0.5, AvgPrice: 40000}}, nil)
	require.Len(t, s.Positions, 1)
	assert.Equal(t, 20000.0, s.TotalCurrent)
	assert.Equal(t, 0.0, s.TotalPnL)
}

func TestPnlArrow(t *testing.T) {
	assert.Equal(t, "🔺", pnlArrow(1))
	assert.Equal(t, "🔺", pnlArrow(0))
	assert.Equal(t, "🔻", pnlArrow(-0.01))
}
