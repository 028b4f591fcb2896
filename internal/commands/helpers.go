package commands

import (
	"fmt"
	"strconv"
	"strings"

	"crypto-summary-bot/lib/helpers"

	"github.com/pkg/errors"
)

// Footer appended to market-data replies, already MarkdownV2-safe.
const notAdviceFooter = "\n\n_Not financial advice_"

// ParseTime validates an HH:MM 24-hour string and returns the canonical
// zero-padded form.
func ParseTime(text string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return "", false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	if h < 0 || h >= 24 || m < 0 || m >= 60 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// parseAlertArgs parses "/alert <coin> <op> <price>" arguments.
func parseAlertArgs(args string) (coin string, above bool, target float64, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", false, 0, errors.New("not enough arguments")
	}

	coin = strings.ToLower(fields[0])

	switch fields[1] {
	case ">", ">=", "above":
		above = true
	case "<", "<=", "below":
		above = false
	default:
		return "", false, 0, errors.Errorf("invalid operator: %s", fields[1])
	}

	target, convErr := strconv.ParseFloat(fields[2], 64)
	if convErr != nil {
		return "", false, 0, errors.Errorf("invalid price: %s", fields[2])
	}
	if target <= 0 {
		return "", false, 0, errors.Errorf("price must be positive: %s", fields[2])
	}
	return coin, above, target, nil
}

// parseTradeArgs parses "/buy|/sell <coin> <qty> <price>" arguments.
func parseTradeArgs(args string) (coin string, amount, price float64, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", 0, 0, errors.New("not enough arguments")
	}

	coin = strings.ToLower(fields[0])

	amount, convErr := strconv.ParseFloat(fields[1], 64)
	if convErr != nil {
		return "", 0, 0, errors.Errorf("invalid amount: %s", fields[1])
	}
	price, convErr = strconv.ParseFloat(fields[2], 64)
	if convErr != nil {
		return "", 0, 0, errors.Errorf("invalid price: %s", fields[2])
	}
	if amount <= 0 || price <= 0 {
		return "", 0, 0, errors.New("amount and price must be positive")
	}
	return coin, amount, price, nil
}

// escape shortens the helpers call at the many call sites in this package.
func escape(text string) string {
	return helpers.EscapeMarkdownV2(text)
}
