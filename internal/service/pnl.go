package service

import (
	"fmt"

	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/model"
)

// CalculatePnL returns the signed unrealized profit-and-loss of one leveraged
// position at the given price. The wizard rejects non-positive entry prices, so
// the zero-entry guard here is unreachable through normal flow.
func CalculatePnL(current, entry, amount, leverage float64, side model.Side) (float64, error) {
	if entry <= 0 {
		return 0, fmt.Errorf("entry price must be positive, got %f", entry)
	}

	switch side {
	case model.SideLong:
		return ((current - entry) / entry) * amount * leverage, nil
	case model.SideShort:
		return ((entry - current) / entry) * amount * leverage, nil
	default:
		return 0, fmt.Errorf("unknown position side: %q", side)
	}
}

// PositionPnL evaluates a committed position against a quote.
func PositionPnL(quote *dto.Quote, position model.Position) (float64, error) {
	return CalculatePnL(quote.Price, position.EntryPrice, position.Amount, position.Leverage, position.Side)
}
