package dto

const (
	SymbolBTCUSDT = "BTCUSDT"
	SymbolETHUSDT = "ETHUSDT"
)
