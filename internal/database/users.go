package database

import (
	"database/sql"
	"fmt"

	"crypto-summary-bot/internal/types"
)

// UpsertUser creates the user row on first contact and optionally updates the
// timezone and daily-summary time. Empty strings leave a column untouched.
func UpsertUser(userID int64, tz, summaryAt string) error {
	query := `INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING;`
	if _, err := DB.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	if tz != "" {
		if _, err := DB.Exec(`UPDATE users SET tz = $1 WHERE user_id = $2;`, tz, userID); err != nil {
			return fmt.Errorf("failed to update tz for user %d: %w", userID, err)
		}
	}
	if summaryAt != "" {
		if _, err := DB.Exec(`UPDATE users SET summary_at = $1 WHERE user_id = $2;`, summaryAt, userID); err != nil {
			return fmt.Errorf("failed to update summary time for user %d: %w", userID, err)
		}
	}
	return nil
}

// GetUser fetches a user by chat ID. Returns nil when the user is unknown.
func GetUser(userID int64) (*types.User, error) {
	query := `SELECT user_id, tz, summary_at, created_at FROM users WHERE user_id = $1;`

	var u types.User
	err := DB.QueryRow(query, userID).Scan(&u.UserID, &u.TZ, &u.SummaryAt, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	return &u, nil
}

// AllUsers fetches every registered user, used to reschedule summaries on boot.
func AllUsers() ([]types.User, error) {
	rows, err := DB.Query(`SELECT user_id, tz, summary_at, created_at FROM users;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.UserID, &u.TZ, &u.SummaryAt, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
