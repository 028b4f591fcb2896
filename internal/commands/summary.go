package commands

import (
	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/internal/summary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandSummary handles "/summary": an AI-generated recap of the market.
func CommandSummary() (string, error) {
	log.Debug("processing command /summary")

	snapshot, err := market.Snapshot(10)
	if err != nil {
		return "", errors.Wrap(err, "command /summary: market snapshot")
	}

	text, err := summary.Generate(snapshot)
	if err != nil {
		return "", errors.Wrap(err, "command /summary: generate")
	}

	return escape(text) + notAdviceFooter, nil
}
