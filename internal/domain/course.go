package domain

import "time"

// LocalizedText carries the two storefront languages side by side.
type LocalizedText struct {
	EN string `json:"en"`
	UK string `json:"uk"`
}

// Price holds per-currency amounts in minor units (kopiykas / cents).
type Price struct {
	UAH int64 `json:"uah"`
	USD int64 `json:"usd"`
}

type Course struct {
	ID          string
	Name        LocalizedText
	Description LocalizedText
	Price       Price

	// Backing Drive file shared with buyers.
	FileID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
