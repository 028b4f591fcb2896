package database

import (
	"database/sql"
	"fmt"

	"crypto-summary-bot/internal/types"

	"github.com/pkg/errors"
)

// ErrInsufficientHoldings is returned when a sell exceeds the held amount.
var ErrInsufficientHoldings = errors.New("insufficient holdings")

// nextPosition applies one trade to a held position and returns the resulting
// amount and average price. Buys keep a weighted-average cost basis; sells
// leave the basis unchanged and may not exceed the held amount. A zero result
// amount means the position is closed.
func nextPosition(held, avgPrice, amount, price float64, txType string) (float64, float64, error) {
	switch txType {
	case "buy":
		newAmount := held + amount
		newAvgPrice := (held*avgPrice + amount*price) / newAmount
		return newAmount, newAvgPrice, nil
	case "sell":
		if held < amount {
			return 0, 0, ErrInsufficientHoldings
		}
		return held - amount, avgPrice, nil
	default:
		return 0, 0, fmt.Errorf("unknown transaction type: %s", txType)
	}
}

// AddTransaction appends a buy/sell record and updates the portfolio position
// in the same database transaction. Buys keep a weighted-average cost basis;
// sells reduce the position and remove it when fully closed.
func AddTransaction(userID int64, coin, txType string, amount, price float64) (int64, error) {
	total := amount * price

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var txID int64
	err = tx.QueryRow(`
		INSERT INTO transactions (user_id, coin, type, amount, price, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		userID, coin, txType, amount, price, total,
	).Scan(&txID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	var held, avgPrice float64
	err = tx.QueryRow(
		`SELECT amount, avg_price FROM portfolio WHERE user_id = $1 AND coin = $2 FOR UPDATE;`,
		userID, coin,
	).Scan(&held, &avgPrice)
	hasPosition := err == nil
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query position: %w", err)
	}

	newAmount, newAvgPrice, err := nextPosition(held, avgPrice, amount, price, txType)
	if err != nil {
		return 0, err
	}

	switch {
	case !hasPosition:
		_, err = tx.Exec(
			`INSERT INTO portfolio (user_id, coin, amount, avg_price) VALUES ($1, $2, $3, $4);`,
			userID, coin, newAmount, newAvgPrice,
		)
	case newAmount <= 0:
		_, err = tx.Exec(`DELETE FROM portfolio WHERE user_id = $1 AND coin = $2;`, userID, coin)
	default:
		_, err = tx.Exec(
			`UPDATE portfolio SET amount = $1, avg_price = $2 WHERE user_id = $3 AND coin = $4;`,
			newAmount, newAvgPrice, userID, coin,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return txID, nil
}

// GetUserPortfolio fetches the open positions of a user, largest first.
func GetUserPortfolio(userID int64) ([]types.Position, error) {
	query := `
	SELECT id, user_id, coin, amount, avg_price, created_at
	FROM portfolio
	WHERE user_id = $1
	ORDER BY amount DESC;`

	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio for user %d: %w", userID, err)
	}
	defer rows.Close()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		if err := rows.Scan(&p.ID, &p.UserID, &p.Coin, &p.Amount, &p.AvgPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetUserTransactions fetches the most recent transactions of a user.
func GetUserTransactions(userID int64, limit int) ([]types.Transaction, error) {
	query := `
	SELECT id, user_id, coin, type, amount, price, total, date
	FROM transactions
	WHERE user_id = $1
	ORDER BY date DESC
	LIMIT $2;`

	rows, err := DB.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txs []types.Transaction
	for rows.Next() {
		var t types.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Coin, &t.Type, &t.Amount, &t.Price, &t.Total, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
