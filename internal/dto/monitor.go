package dto

import "time"

// UserEvaluation is one monitoring user's outcome within a single cycle. User
// identities are redacted before they reach this struct.
type UserEvaluation struct {
	User          string  `json:"user"`
	BTCPnL        float64 `json:"btc_pnl"`
	ETHPnL        float64 `json:"eth_pnl"`
	TotalPnL      float64 `json:"total_pnl"`
	TargetProfit  float64 `json:"target_profit"`
	Alerted       bool    `json:"alerted"`
	DeliveryError string  `json:"delivery_error,omitempty"`
}

// MonitorCycleResult is the full return value of one monitor cycle, exposed to
// the external scheduler for operational visibility.
type MonitorCycleResult struct {
	StartedAt   time.Time        `json:"started_at"`
	BTCPrice    float64          `json:"btc_price"`
	ETHPrice    float64          `json:"eth_price"`
	Evaluations []UserEvaluation `json:"evaluations"`
}
