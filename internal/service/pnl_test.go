package service

import (
	"testing"
	"time"

	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePnL(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		entry    float64
		amount   float64
		leverage float64
		side     model.Side
		want     float64
		wantErr  bool
	}{
		{
			name:    "long position in profit",
			current: 55000, entry: 50000, amount: 1000, leverage: 10,
			side: model.SideLong,
			want: 1000,
		},
		{
			name:    "long position in loss",
			current: 45000, entry: 50000, amount: 1000, leverage: 10,
			side: model.SideLong,
			want: -1000,
		},
		{
			name:    "short position in profit",
			current: 2700, entry: 3000, amount: 500, leverage: 5,
			side: model.SideShort,
			want: 250,
		},
		{
			name:    "breakeven long",
			current: 50000, entry: 50000, amount: 1000, leverage: 10,
			side: model.SideLong,
			want: 0,
		},
		{
			name:    "breakeven short",
			current: 3000, entry: 3000, amount: 500, leverage: 5,
			side: model.SideShort,
			want: 0,
		},
		{
			name:    "zero entry price is an error",
			current: 100, entry: 0, amount: 10, leverage: 2,
			side:    model.SideLong,
			wantErr: true,
		},
		{
			name:    "negative entry price is an error",
			current: 100, entry: -5, amount: 10, leverage: 2,
			side:    model.SideLong,
			wantErr: true,
		},
		{
			name:    "unknown side is an error",
			current: 100, entry: 50, amount: 10, leverage: 2,
			side:    model.Side("sideways"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePnL(tt.current, tt.entry, tt.amount, tt.leverage, tt.side)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculatePnL_AntisymmetricUnderSideFlip(t *testing.T) {
	cases := []struct {
		current, entry, amount, leverage float64
	}{
		{55000, 50000, 1000, 10},
		{45000, 50000, 1000, 10},
		{3100, 3000, 500, 5},
		{2900.5, 3000, 250.25, 3},
	}

	for _, c := range cases {
		long, err := CalculatePnL(c.current, c.entry, c.amount, c.leverage, model.SideLong)
		require.NoError(t, err)
		short, err := CalculatePnL(c.current, c.entry, c.amount, c.leverage, model.SideShort)
		require.NoError(t, err)
		assert.InDelta(t, long, -short, 1e-9)
	}
}

func TestPositionPnL(t *testing.T) {
	quote := &dto.Quote{Symbol: dto.SymbolBTCUSDT, Price: 55000, FetchedAt: time.Now()}
	position := model.Position{Side: model.SideLong, EntryPrice: 50000, Amount: 1000, Leverage: 10}

	got, err := PositionPnL(quote, position)
	require.NoError(t, err)
	assert.InDelta(t, 1000, got, 1e-9)
}
