package alert

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/internal/telegram"
	"crypto-summary-bot/internal/types"
	"crypto-summary-bot/lib/helpers"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// TriggeredTotal counts alert notifications delivered since first boot. The
// value is persisted across restarts.
var TriggeredTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "cryptobot",
	Subsystem: "telegram_bot",
	Name:      "alerts_triggered",
	Help:      "The total number of price alerts triggered",
})

func init() {
	prometheus.MustRegister(TriggeredTotal)
}

// Triggered reports whether the alert condition holds at the given price.
// Above-alerts fire at price >= target, below-alerts at price <= target.
func Triggered(a types.Alert, price float64) bool {
	if a.Above {
		return price >= a.Target
	}
	return price <= a.Target
}

func direction(above bool) string {
	if above {
		return "above"
	}
	return "below"
}

// CheckAlerts compares active alerts with live prices, notifies users and
// deactivates each alert that fired.
func CheckAlerts(bot *telegram.Bot) {
	log.Debug("checking alerts...")

	alerts, err := database.GetAllActiveAlerts()
	if err != nil {
		log.Errorf("failed to fetch alerts from the database: %v", err)
		return
	}

	for _, a := range alerts {
		price, found := market.GetCoinPrice(a.Coin)
		if !found {
			log.Debugf("no price data for coin: %s", a.Coin)
			continue
		}

		log.Debugf("checking alert %d: %s %s %.2f, current %.2f",
			a.ID, a.Coin, direction(a.Above), a.Target, price)

		if !Triggered(a, price) {
			continue
		}

		message := fmt.Sprintf(
			"🔔 *Price Alert*\n\n"+
				"*%s* reached its target\\!\n"+
				"Current price: *$%s*\n"+
				"Target: *$%s* \\(%s\\)\n\n"+
				"_This alert has been removed_",
			helpers.EscapeMarkdownV2(strings.ToUpper(a.Coin)),
			helpers.FormatPriceUS(price, true),
			helpers.FormatPriceUS(a.Target, true),
			direction(a.Above),
		)

		if err := bot.SendMessage(telegram.Message{ChatID: a.UserID, Text: message}); err != nil {
			log.Errorf("failed to send alert notification to %d: %v", a.UserID, err)
			continue
		}

		TriggeredTotal.Inc()
		if err := database.DeactivateAlert(a.ID); err != nil {
			log.Errorf("failed to deactivate alert %d: %v", a.ID, err)
		}
	}

	log.Debug("alert check completed")
}
