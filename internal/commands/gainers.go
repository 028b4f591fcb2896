package commands

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/lib/helpers"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func formatCoinRow(c market.Coin) string {
	arrow := "🔺"
	if c.Change24h() < 0 {
		arrow = "🔻"
	}
	return fmt.Sprintf("%s %s %s \\(*$%s*\\)",
		escape(fmt.Sprintf("%-5s", strings.ToUpper(c.Symbol))),
		arrow,
		escape(fmt.Sprintf("%+.1f%%", c.Change24h())),
		helpers.FormatPriceUS(c.CurrentPrice, true),
	)
}

// CommandGainers handles "/gainers": top 24h movers in both directions.
func CommandGainers() (string, error) {
	log.Debug("processing command /gainers")

	ups, downs, err := market.TopGainersLosers(5)
	if err != nil {
		return "", errors.Wrap(err, "command /gainers")
	}

	var b strings.Builder
	b.WriteString("*Top 24h Gainers*\n")
	for _, c := range ups {
		b.WriteString(formatCoinRow(c) + "\n")
	}
	b.WriteString("\n*Top 24h Losers*\n")
	for _, c := range downs {
		b.WriteString(formatCoinRow(c) + "\n")
	}
	b.WriteString(notAdviceFooter)

	return b.String(), nil
}
