package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	baseURL    = "https://api.coingecko.com/api/v3"
	httpClient = &http.Client{Timeout: 10 * time.Second}

	// CoinGecko's free tier allows roughly 50 calls/minute.
	limiter = rate.NewLimiter(rate.Every(1300*time.Millisecond), 2)

	respCache = gocache.New(60*time.Second, 5*time.Minute)
)

// SetBaseURL overrides the CoinGecko endpoint (config override and tests).
func SetBaseURL(u string) {
	if u != "" {
		baseURL = strings.TrimRight(u, "/")
	}
}

// Coin is one row of the /coins/markets response.
type Coin struct {
	ID             string   `json:"id"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	CurrentPrice   float64  `json:"current_price"`
	MarketCap      float64  `json:"market_cap"`
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
}

// Change24h returns the 24h change, treating a missing value as 0.
func (c Coin) Change24h() float64 {
	if c.PriceChange24h == nil {
		return 0
	}
	return *c.PriceChange24h
}

// GlobalData is the subset of the /global response the bot reports.
type GlobalData struct {
	TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	MarketCapChange24h  float64            `json:"market_cap_change_percentage_24h_usd"`
	MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
}

// ChartPoint is one sample of a coin's price history.
type ChartPoint struct {
	Time  time.Time
	Price float64
}

func getJSON(path string, params url.Values, out interface{}) error {
	reqURL := baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if cached, found := respCache.Get(reqURL); found {
		return json.Unmarshal(cached.([]byte), out)
	}

	if err := limiter.Wait(context.Background()); err != nil {
		return errors.Wrap(err, "rate limiter interrupted")
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Set("User-Agent", "CryptoSummaryBot/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "coingecko fetch failed: %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("coingecko returned %d for %s", resp.StatusCode, path)
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return errors.Wrap(err, "could not parse coingecko response")
	}

	respCache.Set(reqURL, []byte(buf), gocache.DefaultExpiration)
	return json.Unmarshal(buf, out)
}

// TopCoins returns the top coins by market cap with 24h change figures.
func TopCoins(limit int) ([]Coin, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", fmt.Sprintf("%d", limit))
	params.Set("page", "1")
	params.Set("price_change_percentage", "24h")

	var coins []Coin
	if err := getJSON("/coins/markets", params, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// GlobalMarket returns aggregate market stats.
func GlobalMarket() (GlobalData, error) {
	var raw struct {
		Data GlobalData `json:"data"`
	}
	if err := getJSON("/global", url.Values{}, &raw); err != nil {
		return GlobalData{}, err
	}
	return raw.Data, nil
}

// TopGainersLosers returns the best and worst 24h movers among the top 250
// coins by market cap. Losers are ordered worst first.
func TopGainersLosers(limit int) (ups, downs []Coin, err error) {
	coins, err := TopCoins(250)
	if err != nil {
		return nil, nil, err
	}

	sorted := make([]Coin, len(coins))
	copy(sorted, coins)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Change24h() > sorted[j].Change24h()
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}
	ups = sorted[:limit]
	for i := len(sorted) - 1; i >= len(sorted)-limit; i-- {
		downs = append(downs, sorted[i])
	}
	return ups, downs, nil
}

// LookupCoin resolves a user-supplied coin string. It first tries the string
// as a CoinGecko ID, then falls back to a symbol scan of the top 250 coins.
func LookupCoin(query string) (*Coin, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("empty coin query")
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", query)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", "1")

	var byID []Coin
	if err := getJSON("/coins/markets", params, &byID); err != nil {
		return nil, err
	}
	if len(byID) > 0 {
		return &byID[0], nil
	}

	log.Debugf("no coin with id %q, falling back to symbol scan", query)
	coins, err := TopCoins(250)
	if err != nil {
		return nil, err
	}
	for i := range coins {
		if strings.ToLower(coins[i].Symbol) == query {
			return &coins[i], nil
		}
	}
	return nil, nil
}

// GetCoinPrice returns the current USD price of a coin, if known.
func GetCoinPrice(query string) (float64, bool) {
	coin, err := LookupCoin(query)
	if err != nil {
		log.Errorf("price lookup failed for %q: %v", query, err)
		return 0, false
	}
	if coin == nil {
		return 0, false
	}
	return coin.CurrentPrice, true
}

// MarketChart returns the USD price history of a coin over the given days.
func MarketChart(coinID string, days int) ([]ChartPoint, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", days))

	var raw struct {
		Prices [][2]float64 `json:"prices"`
	}
	if err := getJSON("/coins/"+url.PathEscape(coinID)+"/market_chart", params, &raw); err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(raw.Prices))
	for _, p := range raw.Prices {
		points = append(points, ChartPoint{
			Time:  time.UnixMilli(int64(p[0])),
			Price: p[1],
		})
	}
	return points, nil
}
