package commands

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/lib/helpers"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandPrice handles "/price <coin>".
func CommandPrice(argument string) (string, error) {
	log.Debugf("processing command /price with argument: %s", argument)

	if strings.TrimSpace(argument) == "" {
		return escape("Usage: /price btc"), nil
	}

	coin, err := market.LookupCoin(argument)
	if err != nil {
		return "", errors.Wrap(err, "command /price")
	}
	if coin == nil {
		return escape("Coin not found."), nil
	}

	return fmt.Sprintf(
		"*%s* \\(%s\\)\n"+
			"Price: *$%s*\n"+
			"24h: *%s*\n"+
			"Market cap: *$%s*"+
			notAdviceFooter,
		escape(coin.Name),
		escape(strings.ToUpper(coin.Symbol)),
		helpers.FormatPriceUS(coin.CurrentPrice, true),
		escape(fmt.Sprintf("%+.2f%%", coin.Change24h())),
		helpers.FormatPriceUS(coin.MarketCap, true),
	), nil
}
