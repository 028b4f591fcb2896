package commands

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/database"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandSetTime handles "/settime HH:MM". On success the returned hhmm/tz
// pair is non-empty and the caller is expected to reschedule the user's
// daily summary.
func CommandSetTime(userID int64, args string) (reply, hhmm, tz string, err error) {
	log.Debugf("processing command /settime with arguments: %s", args)

	hhmm, ok := ParseTime(args)
	if !ok {
		return escape("Use /settime HH:MM (24-hour)."), "", "", nil
	}

	user, err := database.GetUser(userID)
	if err != nil {
		return "", "", "", errors.Wrap(err, "command /settime")
	}
	tz = "UTC"
	if user != nil && user.TZ != "" {
		tz = user.TZ
	}

	if err := database.UpsertUser(userID, "", hhmm); err != nil {
		return "", "", "", errors.Wrap(err, "command /settime")
	}

	reply = escape(fmt.Sprintf("✅ Time set to %s (%s)", hhmm, tz))
	return reply, hhmm, tz, nil
}

// CurrentScheduleText describes the user's configured summary schedule.
func CurrentScheduleText(summaryAt, tz string) string {
	return escape(fmt.Sprintf(
		"Current time: %s (%s). Send /settime HH:MM to change.",
		strings.TrimSpace(summaryAt), tz,
	))
}
