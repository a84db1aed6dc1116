package dto

import "time"

// Quote is a single fetched price for one instrument, valid for one monitor
// cycle tick. It is never stored beyond the cycle that fetched it.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}
