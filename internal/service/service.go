package service

import (
	"futures-pnl-bot/config"
	"futures-pnl-bot/internal/repository"
	"futures-pnl-bot/pkg/logger"
	"futures-pnl-bot/pkg/whatsapp"
)

type Service struct {
	ConversationService ConversationService
	MonitorService      MonitorService
	SchedulerService    SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	notifier whatsapp.Notifier,
) *Service {
	conversationService := NewConversationService(log, repo.SessionRepo, repo.BinanceRepo)
	monitorService := NewMonitorService(cfg, log, repo.SessionRepo, repo.BinanceRepo, notifier)
	schedulerService := NewSchedulerService(cfg, log, monitorService)

	return &Service{
		ConversationService: conversationService,
		MonitorService:      monitorService,
		SchedulerService:    schedulerService,
	}
}
