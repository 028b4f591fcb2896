package database

import (
	"database/sql"
	"fmt"
	"net/url"

	"crypto-summary-bot/config"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var DB *sql.DB

// DSN builds the PostgreSQL connection string, preferring DATABASE_URL and
// falling back to the discrete DB_* variables for local development.
func DSN() string {
	if u := config.GetString("database_url"); u != "" {
		return u
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(config.GetString("db_user")),
		url.QueryEscape(config.GetString("db_password")),
		config.GetString("db_host"),
		config.GetInt("db_port"),
		config.GetString("db_name"),
	)
}

func InitDB(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id     BIGINT PRIMARY KEY,
			tz          VARCHAR(50) DEFAULT 'UTC',
			summary_at  VARCHAR(5) DEFAULT '09:00',
			created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id          SERIAL PRIMARY KEY,
			user_id     BIGINT REFERENCES users(user_id) ON DELETE CASCADE,
			coin        VARCHAR(20) NOT NULL,
			target      NUMERIC(20, 8) NOT NULL,
			above       BOOLEAN DEFAULT TRUE,
			active      BOOLEAN DEFAULT TRUE,
			created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS portfolio (
			id          SERIAL PRIMARY KEY,
			user_id     BIGINT REFERENCES users(user_id) ON DELETE CASCADE,
			coin        VARCHAR(20) NOT NULL,
			amount      NUMERIC(20, 8) NOT NULL,
			avg_price   NUMERIC(20, 8) NOT NULL,
			created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, coin)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id          SERIAL PRIMARY KEY,
			user_id     BIGINT REFERENCES users(user_id) ON DELETE CASCADE,
			coin        VARCHAR(20) NOT NULL,
			type        VARCHAR(10) NOT NULL CHECK (type IN ('buy', 'sell')),
			amount      NUMERIC(20, 8) NOT NULL,
			price       NUMERIC(20, 8) NOT NULL,
			total       NUMERIC(20, 8) NOT NULL,
			date        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS metrics (
			metric_name  TEXT PRIMARY KEY,
			metric_value DOUBLE PRECISION NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_active ON alerts(active);`,
		`CREATE INDEX IF NOT EXISTS idx_portfolio_user_id ON portfolio(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);`,
	}

	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	log.Info("Database initialized successfully.")
	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
