package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Snapshot renders a plain-text snapshot of the market: global cap, BTC
// dominance and the top coins with 24h changes. This is the raw material the
// summary generator feeds to the language model.
func Snapshot(limit int) (string, error) {
	g, err := GlobalMarket()
	if err != nil {
		return "", err
	}
	coins, err := TopCoins(limit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Global cap: $%s (%+.1f%%) | BTC dom: %.1f%%\n",
		humanize.Commaf(g.TotalMarketCap["usd"]),
		g.MarketCapChange24h,
		g.MarketCapPercentage["btc"],
	)
	for i, coin := range coins {
		fmt.Fprintf(&b, "%d. %-4s $%s (%+.1f%%) mc:$%s\n",
			i+1,
			strings.ToUpper(coin.Symbol),
			humanize.Commaf(coin.CurrentPrice),
			coin.Change24h(),
			humanize.Comma(int64(coin.MarketCap)),
		)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
