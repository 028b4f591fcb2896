package commands

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/lib/helpers"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const chartDays = 7

var chartCache = gocache.New(5*time.Minute, 10*time.Minute)

type chartResult struct {
	PNG     []byte
	Caption string
}

// CommandChart handles "/chart <coin>": a 7-day price chart PNG plus a
// MarkdownV2 caption. A nil PNG with a non-empty caption means a plain text
// reply (coin not found, no history).
func CommandChart(argument string) ([]byte, string, error) {
	log.Debugf("processing command /chart with argument: %s", argument)

	argument = strings.ToLower(strings.TrimSpace(argument))
	if argument == "" {
		return nil, escape("Usage: /chart btc"), nil
	}

	if cached, found := chartCache.Get(argument); found {
		log.Debugf("returning cached chart for %s", argument)
		item := cached.(chartResult)
		return item.PNG, item.Caption, nil
	}

	coin, err := market.LookupCoin(argument)
	if err != nil {
		return nil, "", errors.Wrap(err, "command /chart")
	}
	if coin == nil {
		return nil, escape("Coin not found."), nil
	}

	points, err := market.MarketChart(coin.ID, chartDays)
	if err != nil {
		return nil, "", errors.Wrap(err, "command /chart")
	}
	if len(points) < 2 {
		return nil, escape(fmt.Sprintf("No price history available for %s.", strings.ToUpper(coin.Symbol))), nil
	}

	png, err := renderChart(coin, points)
	if err != nil {
		return nil, "", errors.Wrap(err, "command /chart: render")
	}

	caption := fmt.Sprintf(
		"*%s* \\(%s\\) %d day price chart\nPrice: *$%s* \\(%s 24h\\)"+notAdviceFooter,
		escape(coin.Name),
		escape(strings.ToUpper(coin.Symbol)),
		chartDays,
		helpers.FormatPriceUS(coin.CurrentPrice, true),
		escape(fmt.Sprintf("%+.2f%%", coin.Change24h())),
	)

	chartCache.Set(argument, chartResult{PNG: png, Caption: caption}, gocache.DefaultExpiration)
	return png, caption, nil
}

func renderChart(coin *market.Coin, points []market.ChartPoint) ([]byte, error) {
	times := make([]time.Time, 0, len(points))
	prices := make([]float64, 0, len(points))
	for _, p := range points {
		times = append(times, p.Time)
		prices = append(prices, p.Price)
	}

	seriesColor := drawing.Color{R: 0, G: 122, B: 255, A: 255}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %d days price chart (%s)", coin.Name, chartDays, strings.ToUpper(coin.Symbol)),
		Width:  1200,
		Height: 500,
		Background: chart.Style{
			FillColor: drawing.Color{R: 55, G: 55, B: 55, A: 255},
			FontColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
		},
		Canvas: chart.Style{
			FillColor: drawing.Color{R: 55, G: 55, B: 55, A: 255},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02-Jan"),
			Style: chart.Style{
				FontColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return "$" + helpers.FormatPriceUS(f, false)
				}
				return ""
			},
			Style: chart.Style{
				FontColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    strings.ToUpper(coin.Symbol),
				XValues: times,
				YValues: prices,
				Style: chart.Style{
					StrokeColor: seriesColor,
					FillColor:   seriesColor.WithAlpha(25),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
