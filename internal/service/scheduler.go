package service

import (
	"context"
	"errors"

	"futures-pnl-bot/config"
	"futures-pnl-bot/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService drives the monitor cycle on a fixed cadence. A deployment
// using an external scheduler (hitting GET /check) disables it by leaving the
// cron expression empty.
type SchedulerService interface {
	Start() error
	Stop()
}

type schedulerService struct {
	cfg     *config.Config
	log     *logger.Logger
	monitor MonitorService
	cron    *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, monitor MonitorService) SchedulerService {
	// SkipIfStillRunning guarantees a new cycle never starts while the
	// previous one is still in flight.
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	return &schedulerService{
		cfg:     cfg,
		log:     log,
		monitor: monitor,
		cron:    c,
	}
}

func (s *schedulerService) Start() error {
	if s.cfg.Monitor.CronExpression == "" {
		s.log.Info("Internal monitor scheduler disabled, use GET /check to trigger cycles")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Monitor.CronExpression, s.runCycle)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Monitor scheduler started",
		logger.StringField("cron_expression", s.cfg.Monitor.CronExpression))
	return nil
}

func (s *schedulerService) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Monitor.CycleTimeout)
	defer cancel()

	result, err := s.monitor.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, ErrCycleInProgress) {
			s.log.Warn("Skipped monitor cycle, previous still running")
			return
		}
		s.log.Error("Monitor cycle failed", logger.ErrorField(err))
		return
	}

	s.log.Debug("Scheduled monitor cycle done",
		logger.IntField("evaluated", len(result.Evaluations)))
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Monitor scheduler stopped")
}
