package market

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func floatPtr(v float64) *float64 { return &v }

var testCoins = []Coin{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 50000, MarketCap: 1000000000000, PriceChange24h: floatPtr(2.5)},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000, MarketCap: 350000000000, PriceChange24h: floatPtr(-1.2)},
	{ID: "solana", Symbol: "sol", Name: "Solana", CurrentPrice: 150, MarketCap: 70000000000, PriceChange24h: floatPtr(8.4)},
	{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", CurrentPrice: 0.12, MarketCap: 17000000000, PriceChange24h: nil},
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/coins/markets", func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		if ids == "" {
			json.NewEncoder(w).Encode(testCoins)
			return
		}
		for _, c := range testCoins {
			if c.ID == ids {
				json.NewEncoder(w).Encode([]Coin{c})
				return
			}
		}
		json.NewEncoder(w).Encode([]Coin{})
	})
	mux.HandleFunc("/global", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": GlobalData{
				TotalMarketCap:      map[string]float64{"usd": 2500000000000},
				MarketCapChange24h:  1.8,
				MarketCapPercentage: map[string]float64{"btc": 52.3},
			},
		})
	})
	mux.HandleFunc("/coins/bitcoin/market_chart", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"prices": [][2]float64{
				{1709820000000, 49000},
				{1709823600000, 50100},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	prevBase := baseURL
	prevLimiter := limiter
	SetBaseURL(srv.URL)
	limiter = rate.NewLimiter(rate.Inf, 1)
	respCache.Flush()
	t.Cleanup(func() {
		baseURL = prevBase
		limiter = prevLimiter
		respCache.Flush()
	})

	return srv
}

func TestLookupCoinByID(t *testing.T) {
	newTestServer(t)

	coin, err := LookupCoin("bitcoin")
	require.NoError(t, err)
	require.NotNil(t, coin)
	assert.Equal(t, "btc", coin.Symbol)
	assert.Equal(t, 50000.0, coin.CurrentPrice)
}

func TestLookupCoinSymbolFallback(t *testing.T) {
	newTestServer(t)

	coin, err := LookupCoin("ETH")
	require.NoError(t, err)
	require.NotNil(t, coin)
	assert.Equal(t, "ethereum", coin.ID)
}

func TestLookupCoinUnknown(t *testing.T) {
	newTestServer(t)

	coin, err := LookupCoin("notacoin")
	require.NoError(t, err)
	assert.Nil(t, coin)

	_, err = LookupCoin("  ")
	assert.Error(t, err)
}

func TestGetCoinPrice(t *testing.T) {
	newTestServer(t)

	price, found := GetCoinPrice("sol")
	assert.True(t, found)
	assert.Equal(t, 150.0, price)

	_, found = GetCoinPrice("notacoin")
	assert.False(t, found)
}

func TestTopGainersLosers(t *testing.T) {
	newTestServer(t)

	ups, downs, err := TopGainersLosers(2)
	require.NoError(t, err)
	require.Len(t, ups, 2)
	require.Len(t, downs, 2)

	assert.Equal(t, "solana", ups[0].ID)
	assert.Equal(t, "bitcoin", ups[1].ID)

	// Worst mover first; the nil-change coin sorts as 0 and stays mid-pack.
	assert.Equal(t, "ethereum", downs[0].ID)
	assert.Equal(t, "dogecoin", downs[1].ID)
}

func TestGlobalMarket(t *testing.T) {
	newTestServer(t)

	g, err := GlobalMarket()
	require.NoError(t, err)
	assert.Equal(t, 2500000000000.0, g.TotalMarketCap["usd"])
	assert.Equal(t, 52.3, g.MarketCapPercentage["btc"])
}

func TestMarketChart(t *testing.T) {
	newTestServer(t)

	points, err := MarketChart("bitcoin", 7)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 49000.0, points[0].Price)
	assert.True(t, points[1].Time.After(points[0].Time))
}

func TestGetJSONServesFromCache(t *testing.T) {
	newTestServer(t)

	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/global", func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": GlobalData{TotalMarketCap: map[string]float64{"usd": 1}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	SetBaseURL(srv.URL)
	respCache.Flush()

	_, err := GlobalMarket()
	require.NoError(t, err)
	_, err = GlobalMarket()
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestSnapshot(t *testing.T) {
	newTestServer(t)

	text, err := Snapshot(4)
	require.NoError(t, err)
	assert.Contains(t, text, "Global cap: $2,500,000,000,000 (+1.8%) | BTC dom: 52.3%")
	assert.Contains(t, text, "1. BTC")
	assert.Contains(t, text, "4. DOGE")
	assert.Contains(t, text, "(+0.0%)")
}
