package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"futures-pnl-bot/config"
	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/model"
	"futures-pnl-bot/internal/repository"
	"futures-pnl-bot/pkg/logger"
	"futures-pnl-bot/pkg/utils"
	"futures-pnl-bot/pkg/whatsapp"

	"golang.org/x/sync/errgroup"
)

// ErrCycleInProgress is returned when a cycle is requested while a previous
// one is still running. Cycles never overlap.
var ErrCycleInProgress = errors.New("previous monitor cycle still running")

const alertContinuousFooter = "Bot is still monitoring. Send 'stop' to end."
const alertOnceFooter = "Monitoring stopped. Send 'setup' for your next trade."

// MonitorService runs one evaluation pass over every monitoring session.
type MonitorService interface {
	RunCycle(ctx context.Context) (*dto.MonitorCycleResult, error)
}

type monitorService struct {
	cfg         *config.Config
	log         *logger.Logger
	sessionRepo repository.SessionRepository
	binanceRepo repository.BinanceRepository
	notifier    whatsapp.Notifier
	inFlight    atomic.Bool
}

func NewMonitorService(
	cfg *config.Config,
	log *logger.Logger,
	sessionRepo repository.SessionRepository,
	binanceRepo repository.BinanceRepository,
	notifier whatsapp.Notifier,
) MonitorService {
	return &monitorService{
		cfg:         cfg,
		log:         log,
		sessionRepo: sessionRepo,
		binanceRepo: binanceRepo,
		notifier:    notifier,
	}
}

// RunCycle fetches one BTC and one ETH quote shared by every session this
// tick, computes total PnL per monitoring user, and alerts those whose target
// is met. If either quote is unavailable the whole cycle aborts with no side
// effects: a partial price set must never produce an alert.
func (m *monitorService) RunCycle(ctx context.Context) (*dto.MonitorCycleResult, error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer m.inFlight.Store(false)

	startedAt := time.Now()

	var btcQuote, ethQuote *dto.Quote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		btcQuote, err = m.binanceRepo.GetLastPrice(gctx, dto.SymbolBTCUSDT)
		return err
	})
	g.Go(func() error {
		var err error
		ethQuote, err = m.binanceRepo.GetLastPrice(gctx, dto.SymbolETHUSDT)
		return err
	})
	if err := g.Wait(); err != nil {
		m.log.ErrorContext(ctx, "Aborting monitor cycle, quotes unavailable", logger.ErrorField(err))
		return nil, fmt.Errorf("quotes unavailable: %w", err)
	}

	result := &dto.MonitorCycleResult{
		StartedAt: startedAt,
		BTCPrice:  btcQuote.Price,
		ETHPrice:  ethQuote.Price,
	}

	// Snapshot at cycle start; sessions that change mid-cycle are evaluated
	// with their snapshotted values.
	sessions := m.sessionRepo.GetAllByState(model.StateMonitoring)

	for _, session := range sessions {
		eval, err := m.evaluateSession(ctx, session, btcQuote, ethQuote)
		if err != nil {
			m.log.ErrorContext(ctx, "Skipping session with invalid position",
				logger.StringField("user", utils.RedactIdentity(session.UserID)),
				logger.ErrorField(err))
			continue
		}
		result.Evaluations = append(result.Evaluations, eval)
	}

	m.log.InfoContext(ctx, "Monitor cycle completed",
		logger.IntField("evaluated", len(result.Evaluations)),
		logger.Float64Field("btc_price", btcQuote.Price),
		logger.Float64Field("eth_price", ethQuote.Price))

	return result, nil
}

func (m *monitorService) evaluateSession(ctx context.Context, session model.Session, btcQuote, ethQuote *dto.Quote) (dto.UserEvaluation, error) {
	btcPnL, err := PositionPnL(btcQuote, session.BTC)
	if err != nil {
		return dto.UserEvaluation{}, err
	}
	ethPnL, err := PositionPnL(ethQuote, session.ETH)
	if err != nil {
		return dto.UserEvaluation{}, err
	}

	total := btcPnL + ethPnL
	eval := dto.UserEvaluation{
		User:         utils.RedactIdentity(session.UserID),
		BTCPnL:       btcPnL,
		ETHPnL:       ethPnL,
		TotalPnL:     total,
		TargetProfit: session.TargetProfit,
	}

	if total < session.TargetProfit {
		return eval, nil
	}

	if err := m.notifier.SendMessage(ctx, session.UserID, m.alertMessage(total, btcPnL, ethPnL)); err != nil {
		// Delivery failure never aborts the cycle and never mutates the
		// session: the user stays monitoring and is retried next tick.
		m.log.ErrorContext(ctx, "Failed to deliver alert",
			logger.StringField("user", eval.User),
			logger.ErrorField(err))
		eval.DeliveryError = err.Error()
		return eval, nil
	}
	eval.Alerted = true

	// Under the once policy the session leaves monitoring only after the
	// delivery above succeeded. Re-read the live record first: a user who
	// restarted the wizard mid-cycle must not have that progress discarded.
	if m.cfg.Monitor.AlertPolicy == config.AlertPolicyOnce {
		if current, ok := m.sessionRepo.Get(session.UserID); ok && current.State == model.StateMonitoring {
			current.ResetWizard()
			m.sessionRepo.Save(current)
		}
	}

	return eval, nil
}

func (m *monitorService) alertMessage(total, btcPnL, ethPnL float64) string {
	footer := alertContinuousFooter
	if m.cfg.Monitor.AlertPolicy == config.AlertPolicyOnce {
		footer = alertOnceFooter
	}
	return fmt.Sprintf("🚀 *Profit Target Met!*\nCurrent Profit: *%s*\nBTC: %s\nETH: %s\n\n%s",
		utils.FormatMoney(total),
		utils.FormatMoney(btcPnL),
		utils.FormatMoney(ethPnL),
		footer)
}
