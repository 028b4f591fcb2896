package scheduler

import (
	"fmt"
	"sync"
	"time"

	"crypto-summary-bot/internal/alert"
	"crypto-summary-bot/internal/commands"
	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/internal/telegram"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// SummariesSentTotal counts daily summaries delivered since first boot. The
// value is persisted across restarts.
var SummariesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "cryptobot",
	Subsystem: "telegram_bot",
	Name:      "summaries_sent",
	Help:      "The total number of daily summaries sent",
})

func init() {
	prometheus.MustRegister(SummariesSentTotal)
}

const alertCheckSpec = "@every 5m"

var (
	runner *cron.Cron

	mu           sync.Mutex
	dailyEntries = make(map[int64]cron.EntryID)
)

// Start launches the cron runner: the 5-minute alert check plus one daily
// summary entry per registered user.
func Start(bot *telegram.Bot) error {
	runner = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	if _, err := runner.AddFunc(alertCheckSpec, func() { alert.CheckAlerts(bot) }); err != nil {
		return errors.Wrap(err, "could not schedule alert check")
	}

	users, err := database.AllUsers()
	if err != nil {
		return errors.Wrap(err, "could not load users for scheduling")
	}
	for _, u := range users {
		if err := ScheduleDailySummary(bot, u.UserID, u.TZ, u.SummaryAt); err != nil {
			log.Errorf("failed to schedule daily summary for user %d: %v", u.UserID, err)
		}
	}

	runner.Start()
	log.Infof("Scheduler started with %d daily summary entries.", len(dailyEntries))
	return nil
}

// Stop halts the cron runner. Running jobs finish.
func Stop() {
	if runner != nil {
		runner.Stop()
	}
}

// DailySpec builds the cron spec that fires once per day at hhmm in the
// given IANA timezone, e.g. "CRON_TZ=Europe/London 30 9 * * *".
func DailySpec(tz, hhmm string) (string, error) {
	if _, err := time.LoadLocation(tz); err != nil {
		return "", errors.Wrapf(err, "invalid timezone %q", tz)
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", errors.Wrapf(err, "invalid summary time %q", hhmm)
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz, t.Minute(), t.Hour()), nil
}

// ScheduleDailySummary creates or replaces the daily summary entry of one
// user. Safe to call while the runner is live.
func ScheduleDailySummary(bot *telegram.Bot, userID int64, tz, hhmm string) error {
	spec, err := DailySpec(tz, hhmm)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if old, ok := dailyEntries[userID]; ok {
		runner.Remove(old)
	}

	id, err := runner.AddFunc(spec, func() { SendDailySummary(bot, userID) })
	if err != nil {
		return errors.Wrapf(err, "could not schedule daily summary for user %d", userID)
	}
	dailyEntries[userID] = id

	log.Debugf("daily summary for user %d scheduled at %s (%s)", userID, hhmm, tz)
	return nil
}

// SendDailySummary generates and delivers one market recap to one user.
func SendDailySummary(bot *telegram.Bot, userID int64) {
	user, err := database.GetUser(userID)
	if err != nil {
		log.Errorf("failed to load user %d for daily summary: %v", userID, err)
		return
	}
	if user == nil {
		return
	}

	text, err := commands.CommandSummary()
	if err != nil {
		log.Errorf("failed to build daily summary for user %d: %v", userID, err)
		return
	}

	if err := bot.SendMessage(telegram.Message{ChatID: userID, Text: text}); err != nil {
		log.Errorf("failed to send daily summary to %d: %v", userID, err)
		return
	}
	SummariesSentTotal.Inc()
}
