package commands

import (
	"fmt"
	"strconv"
	"strings"

	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/lib/helpers"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const alertUsage = "Usage: /alert <coin> <operator> <price>\n" +
	"Examples:\n" +
	"/alert btc > 50000\n" +
	"/alert eth < 3000\n" +
	"Operators: >, <, above, below"

func directionWord(above bool) string {
	if above {
		return "above"
	}
	return "below"
}

// CommandAlert handles "/alert <coin> <op> <price>".
func CommandAlert(userID int64, args string) (string, error) {
	log.Debugf("processing command /alert with arguments: %s", args)

	coin, above, target, err := parseAlertArgs(args)
	if err != nil {
		log.Debugf("bad /alert arguments: %v", err)
		return escape(alertUsage), nil
	}

	if _, found := market.GetCoinPrice(coin); !found {
		return escape(fmt.Sprintf("Coin %s not found.", strings.ToUpper(coin))), nil
	}

	alertID, err := database.InsertAlert(userID, coin, target, above)
	if err != nil {
		return "", errors.Wrap(err, "command /alert")
	}

	return fmt.Sprintf(
		"✅ Alert created\\!\n\n"+
			"Coin: %s\n"+
			"Condition: %s *$%s*\n"+
			"ID: %d",
		escape(strings.ToUpper(coin)),
		directionWord(above),
		helpers.FormatPriceUS(target, true),
		alertID,
	), nil
}

// CommandMyAlerts handles "/myalerts".
func CommandMyAlerts(userID int64) (string, error) {
	log.Debugf("processing command /myalerts for user %d", userID)

	alerts, err := database.GetUserAlerts(userID)
	if err != nil {
		return "", errors.Wrap(err, "command /myalerts")
	}

	if len(alerts) == 0 {
		return escape("You have no active alerts.\nUse /alert to add one."), nil
	}

	var b strings.Builder
	b.WriteString("*Your alerts:*\n\n")
	for _, a := range alerts {
		priceInfo := ""
		if current, found := market.GetCoinPrice(a.Coin); found {
			priceInfo = fmt.Sprintf(" \\(current: *$%s*\\)", helpers.FormatPriceUS(current, true))
		}
		b.WriteString(fmt.Sprintf("*%d\\.* %s %s *$%s*%s\n",
			a.ID,
			escape(strings.ToUpper(a.Coin)),
			directionWord(a.Above),
			helpers.FormatPriceUS(a.Target, true),
			priceInfo,
		))
	}
	b.WriteString("\nTo remove one, use: /delete \\<ID\\>")

	return b.String(), nil
}

// CommandDelete handles "/delete <id>".
func CommandDelete(userID int64, args string) (string, error) {
	log.Debugf("processing command /delete with arguments: %s", args)

	args = strings.TrimSpace(args)
	if args == "" {
		return escape("Usage: /delete <ID>"), nil
	}

	alertID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return escape("Invalid alert ID."), nil
	}

	deleted, err := database.DeleteAlert(alertID, userID)
	if err != nil {
		return "", errors.Wrap(err, "command /delete")
	}
	if !deleted {
		return escape("Alert not found or it does not belong to you."), nil
	}
	return escape(fmt.Sprintf("✅ Alert %d deleted.", alertID)), nil
}
