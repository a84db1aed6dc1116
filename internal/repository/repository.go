package repository

import (
	"futures-pnl-bot/config"
	"futures-pnl-bot/pkg/cache"
	"futures-pnl-bot/pkg/logger"
)

type Repository struct {
	SessionRepo SessionRepository
	BinanceRepo BinanceRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	return &Repository{
		SessionRepo: NewSessionRepository(),
		BinanceRepo: NewBinanceRepository(cfg, inmemoryCache, log),
	}
}
