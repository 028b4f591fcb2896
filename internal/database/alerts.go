package database

import (
	"fmt"

	"crypto-summary-bot/internal/types"

	log "github.com/sirupsen/logrus"
)

// InsertAlert saves a price alert and returns its ID.
func InsertAlert(userID int64, coin string, target float64, above bool) (int64, error) {
	query := `
	INSERT INTO alerts (user_id, coin, target, above)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`

	var id int64
	if err := DB.QueryRow(query, userID, coin, target, above).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert alert: %w", err)
	}

	log.Debugf("Alert %d inserted: UserID: %d, Coin: %s, Target: %f, Above: %t", id, userID, coin, target, above)
	return id, nil
}

// GetAllActiveAlerts fetches every active alert for the scheduler pass.
func GetAllActiveAlerts() ([]types.Alert, error) {
	query := `SELECT id, user_id, coin, target, above, active, created_at FROM alerts WHERE active = TRUE;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var a types.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Coin, &a.Target, &a.Above, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// GetUserAlerts fetches the active alerts of one user, newest first.
func GetUserAlerts(userID int64) ([]types.Alert, error) {
	query := `
	SELECT id, user_id, coin, target, above, active, created_at
	FROM alerts
	WHERE user_id = $1 AND active = TRUE
	ORDER BY created_at DESC;`

	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for user %d: %w", userID, err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var a types.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Coin, &a.Target, &a.Above, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// DeleteAlert removes an alert, scoped to its owner. Returns false when no
// alert with that ID belongs to the user.
func DeleteAlert(alertID, userID int64) (bool, error) {
	res, err := DB.Exec(`DELETE FROM alerts WHERE id = $1 AND user_id = $2;`, alertID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert %d: %w", alertID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// DeactivateAlert marks a triggered alert inactive so it fires only once.
func DeactivateAlert(alertID int64) error {
	if _, err := DB.Exec(`UPDATE alerts SET active = FALSE WHERE id = $1;`, alertID); err != nil {
		return fmt.Errorf("failed to deactivate alert %d: %w", alertID, err)
	}
	return nil
}
