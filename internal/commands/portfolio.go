package commands

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/internal/types"
	"crypto-summary-bot/lib/helpers"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const buyUsage = "Usage: /buy <coin> <amount> <price>\n" +
	"Examples:\n" +
	"/buy btc 0.1 50000\n" +
	"/buy eth 2.5 3000"

const sellUsage = "Usage: /sell <coin> <amount> <price>\n" +
	"Examples:\n" +
	"/sell btc 0.05 55000\n" +
	"/sell eth 1.0 3200"

// CommandBuy handles "/buy <coin> <qty> <price>".
func CommandBuy(userID int64, args string) (string, error) {
	log.Debugf("processing command /buy with arguments: %s", args)

	coin, amount, price, err := parseTradeArgs(args)
	if err != nil {
		log.Debugf("bad /buy arguments: %v", err)
		return escape(buyUsage), nil
	}

	if _, found := market.GetCoinPrice(coin); !found {
		return escape(fmt.Sprintf("Coin %s not found.", strings.ToUpper(coin))), nil
	}

	txID, err := database.AddTransaction(userID, coin, "buy", amount, price)
	if err != nil {
		return "", errors.Wrap(err, "command /buy")
	}

	return tradeReceipt("✅ Purchase recorded\\!", coin, amount, price, txID), nil
}

// CommandSell handles "/sell <coin> <qty> <price>".
func CommandSell(userID int64, args string) (string, error) {
	log.Debugf("processing command /sell with arguments: %s", args)

	coin, amount, price, err := parseTradeArgs(args)
	if err != nil {
		log.Debugf("bad /sell arguments: %v", err)
		return escape(sellUsage), nil
	}

	if _, found := market.GetCoinPrice(coin); !found {
		return escape(fmt.Sprintf("Coin %s not found.", strings.ToUpper(coin))), nil
	}

	txID, err := database.AddTransaction(userID, coin, "sell", amount, price)
	if err == database.ErrInsufficientHoldings {
		held := 0.0
		if positions, perr := database.GetUserPortfolio(userID); perr == nil {
			for _, p := range positions {
				if p.Coin == coin {
					held = p.Amount
					break
				}
			}
		}
		return escape(fmt.Sprintf("Not enough %s to sell.\nAvailable: %g", strings.ToUpper(coin), held)), nil
	}
	if err != nil {
		return "", errors.Wrap(err, "command /sell")
	}

	return tradeReceipt("✅ Sale recorded\\!", coin, amount, price, txID), nil
}

func tradeReceipt(header, coin string, amount, price float64, txID int64) string {
	return fmt.Sprintf(
		"%s\n\n"+
			"Coin: %s\n"+
			"Amount: %s\n"+
			"Price: *$%s*\n"+
			"Total: *$%s*\n"+
			"Transaction ID: %d",
		header,
		escape(strings.ToUpper(coin)),
		escape(fmt.Sprintf("%g", amount)),
		helpers.FormatPriceUS(price, true),
		helpers.FormatPriceUS(amount*price, true),
		txID,
	)
}

// positionDetail is a portfolio position priced at the current market.
type positionDetail struct {
	types.Position
	CurrentPrice  float64
	CurrentValue  float64
	InvestedValue float64
	PnL           float64
	PnLPercent    float64
}

// portfolioSummary aggregates a user's positions with P&L figures.
type portfolioSummary struct {
	TotalInvested   float64
	TotalCurrent    float64
	TotalPnL        float64
	TotalPnLPercent float64
	Positions       []positionDetail
}

// buildPortfolioSummary prices positions with the given quote function,
// falling back to the recorded average price when no quote is available.
func buildPortfolioSummary(positions []types.Position, quote func(string) (float64, bool)) portfolioSummary {
	var s portfolioSummary
	for _, pos := range positions {
		currentPrice := pos.AvgPrice
		if quote != nil {
			if p, found := quote(pos.Coin); found {
				currentPrice = p
			}
		}

		d := positionDetail{
			Position:      pos,
			CurrentPrice:  currentPrice,
			CurrentValue:  pos.Amount * currentPrice,
			InvestedValue: pos.Amount * pos.AvgPrice,
		}
		d.PnL = d.CurrentValue - d.InvestedValue
		if d.InvestedValue > 0 {
			d.PnLPercent = d.PnL / d.InvestedValue * 100
		}

		s.TotalInvested += d.InvestedValue
		s.TotalCurrent += d.CurrentValue
		s.Positions = append(s.Positions, d)
	}

	s.TotalPnL = s.TotalCurrent - s.TotalInvested
	if s.TotalInvested > 0 {
		s.TotalPnLPercent = s.TotalPnL / s.TotalInvested * 100
	}
	return s
}

func pnlArrow(v float64) string {
	if v >= 0 {
		return "🔺"
	}
	return "🔻"
}

// CommandPortfolio handles "/portfolio".
func CommandPortfolio(userID int64) (string, error) {
	log.Debugf("processing command /portfolio for user %d", userID)

	positions, err := database.GetUserPortfolio(userID)
	if err != nil {
		return "", errors.Wrap(err, "command /portfolio")
	}
	if len(positions) == 0 {
		return escape("Your portfolio is empty.\nUse /buy to add purchases."), nil
	}

	s := buildPortfolioSummary(positions, market.GetCoinPrice)

	var b strings.Builder
	b.WriteString("*💼 Your portfolio:*\n\n")
	b.WriteString(fmt.Sprintf(
		"*Total value:* $%s\n"+
			"*Invested:* $%s\n"+
			"*P&L:* %s %s \\(%s\\)\n"+
			"*Positions:* %d\n\n",
		helpers.FormatPriceUS(s.TotalCurrent, true),
		helpers.FormatPriceUS(s.TotalInvested, true),
		pnlArrow(s.TotalPnL),
		escape(helpers.FormatSignedUSD(s.TotalPnL)),
		escape(helpers.FormatPercent(s.TotalPnLPercent)),
		len(s.Positions),
	))

	b.WriteString("*Positions:*\n")
	for _, d := range s.Positions {
		b.WriteString(fmt.Sprintf(
			"*%s*: %s × $%s \\= $%s\n"+
				"  P&L: %s %s \\(%s\\)\n\n",
			escape(strings.ToUpper(d.Coin)),
			escape(fmt.Sprintf("%g", d.Amount)),
			helpers.FormatPriceUS(d.CurrentPrice, true),
			helpers.FormatPriceUS(d.CurrentValue, true),
			pnlArrow(d.PnL),
			escape(helpers.FormatSignedUSD(d.PnL)),
			escape(helpers.FormatPercent(d.PnLPercent)),
		))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// CommandTransactions handles "/transactions": the last 10 records.
func CommandTransactions(userID int64) (string, error) {
	log.Debugf("processing command /transactions for user %d", userID)

	txs, err := database.GetUserTransactions(userID, 10)
	if err != nil {
		return "", errors.Wrap(err, "command /transactions")
	}
	if len(txs) == 0 {
		return escape("You have no transactions.\nUse /buy or /sell to add one."), nil
	}

	var b strings.Builder
	b.WriteString("*📋 Recent transactions:*\n\n")
	for _, tx := range txs {
		kind := "🟢 Buy"
		if tx.Type == "sell" {
			kind = "🔴 Sell"
		}
		b.WriteString(fmt.Sprintf(
			"*%d\\.* %s %s\n"+
				"  %s × $%s \\= $%s\n"+
				"  %s\n\n",
			tx.ID,
			kind,
			escape(strings.ToUpper(tx.Coin)),
			escape(fmt.Sprintf("%g", tx.Amount)),
			helpers.FormatPriceUS(tx.Price, true),
			helpers.FormatPriceUS(tx.Total, true),
			escape(helpers.FormatDate(tx.Date)),
		))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
