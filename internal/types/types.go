package types

import "time"

// User is a chat participant created on first /start.
type User struct {
	UserID    int64
	TZ        string
	SummaryAt string // canonical "HH:MM", 24-hour
	CreatedAt time.Time
}

// Alert is a stored price-threshold rule.
type Alert struct {
	ID        int64
	UserID    int64
	Coin      string
	Target    float64
	Above     bool
	Active    bool
	CreatedAt time.Time
}

// Position is the holdings of one coin for a user.
type Position struct {
	ID        int64
	UserID    int64
	Coin      string
	Amount    float64
	AvgPrice  float64
	CreatedAt time.Time
}

// Transaction is an immutable log record of a buy or sell.
type Transaction struct {
	ID     int64
	UserID int64
	Coin   string
	Type   string // "buy" or "sell"
	Amount float64
	Price  float64
	Total  float64
	Date   time.Time
}
