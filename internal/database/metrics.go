package database

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SaveMetric upserts a counter value so it survives restarts.
func SaveMetric(metricName string, value float64) error {
	query := `
	INSERT INTO metrics (metric_name, metric_value)
	VALUES ($1, $2)
	ON CONFLICT (metric_name) DO UPDATE SET metric_value = EXCLUDED.metric_value;`
	if _, err := DB.Exec(query, metricName, value); err != nil {
		return fmt.Errorf("failed to save metric: %w", err)
	}
	log.Debugf("Metric saved: %s = %f", metricName, value)
	return nil
}

// GetMetric loads a persisted counter value, defaulting to 0 when unknown.
func GetMetric(metricName string) (float64, error) {
	var value float64
	err := DB.QueryRow(`SELECT metric_value FROM metrics WHERE metric_name = $1;`, metricName).Scan(&value)
	if err == sql.ErrNoRows {
		log.Debugf("Metric %s not found in the database, defaulting to 0", metricName)
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to get metric %s: %w", metricName, err)
	}
	return value, nil
}
