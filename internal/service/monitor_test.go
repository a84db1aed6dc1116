package service

import (
	"context"
	"errors"
	"testing"

	"futures-pnl-bot/config"
	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/model"
	"futures-pnl-bot/internal/repository"
	"futures-pnl-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monitoringSession(userID string, target float64) model.Session {
	session := model.NewSession(userID)
	session.State = model.StateMonitoring
	session.BTC = model.Position{Side: model.SideLong, EntryPrice: 50000, Amount: 1000, Leverage: 10}
	session.ETH = model.Position{Side: model.SideShort, EntryPrice: 3000, Amount: 500, Leverage: 5}
	session.TargetProfit = target
	return session
}

func newMonitorFixture(policy string) (MonitorService, repository.SessionRepository, *fakeBinanceRepo, *fakeNotifier) {
	cfg := &config.Config{}
	cfg.Monitor.AlertPolicy = policy

	sessionRepo := repository.NewSessionRepository()
	binanceRepo := newFakeBinanceRepo()
	notifier := &fakeNotifier{}
	svc := NewMonitorService(cfg, logger.NewNop(), sessionRepo, binanceRepo, notifier)
	return svc, sessionRepo, binanceRepo, notifier
}

func TestMonitor_AlertsWhenTargetMet(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyContinuous)
	sessionRepo.Save(monitoringSession(testUser, 100))

	// BTC long 50000 -> 55000 with amount 1000, leverage 10 yields +1000.
	// ETH short 3000 -> 3000 yields 0.
	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Evaluations, 1)
	eval := result.Evaluations[0]
	assert.Equal(t, "...4567", eval.User)
	assert.InDelta(t, 1000, eval.BTCPnL, 1e-9)
	assert.InDelta(t, 0, eval.ETHPnL, 1e-9)
	assert.InDelta(t, 1000, eval.TotalPnL, 1e-9)
	assert.True(t, eval.Alerted)
	assert.Empty(t, eval.DeliveryError)

	require.Equal(t, 1, notifier.sentCount())
	assert.Equal(t, testUser, notifier.sent[0].To)
	assert.Contains(t, notifier.sent[0].Body, "Profit Target Met")
	assert.Contains(t, notifier.sent[0].Body, "$1000.00")
}

func TestMonitor_NoAlertBelowTarget(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyContinuous)
	sessionRepo.Save(monitoringSession(testUser, 2000))

	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Evaluations, 1)
	assert.False(t, result.Evaluations[0].Alerted)
	assert.Equal(t, 0, notifier.sentCount())
}

func TestMonitor_ContinuousPolicyReAlertsEveryCycle(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyContinuous)
	sessionRepo.Save(monitoringSession(testUser, 100))

	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	for i := 0; i < 3; i++ {
		_, err := svc.RunCycle(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 3, notifier.sentCount())

	session, ok := sessionRepo.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, model.StateMonitoring, session.State)
}

func TestMonitor_OncePolicyStopsAfterDeliveredAlert(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyOnce)
	sessionRepo.Save(monitoringSession(testUser, 100))

	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, notifier.sentCount())

	session, ok := sessionRepo.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, model.StateIdle, session.State)

	// No monitoring sessions remain, nothing more to evaluate or send.
	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Evaluations)
	assert.Equal(t, 1, notifier.sentCount())
}

func TestMonitor_OncePolicyKeepsMonitoringOnDeliveryFailure(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyOnce)
	sessionRepo.Save(monitoringSession(testUser, 100))

	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000
	notifier.err = errors.New("twilio api returned status: 500")

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Evaluations, 1)
	assert.False(t, result.Evaluations[0].Alerted)
	assert.Contains(t, result.Evaluations[0].DeliveryError, "500")

	// The state transition requires a confirmed delivery first.
	session, ok := sessionRepo.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, model.StateMonitoring, session.State)
}

func TestMonitor_UnavailableQuoteAbortsCycle(t *testing.T) {
	svc, sessionRepo, binanceRepo, notifier := newMonitorFixture(config.AlertPolicyContinuous)
	sessionRepo.Save(monitoringSession(testUser, 100))

	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.errs[dto.SymbolETHUSDT] = errors.New("timeout")

	result, err := svc.RunCycle(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)

	// Zero alerts, zero session mutations.
	assert.Equal(t, 0, notifier.sentCount())
	session, ok := sessionRepo.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, monitoringSession(testUser, 100), session)
}

func TestMonitor_DeliveryFailureDoesNotBlockOtherUsers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Monitor.AlertPolicy = config.AlertPolicyContinuous

	sessionRepo := repository.NewSessionRepository()
	binanceRepo := newFakeBinanceRepo()
	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	failFor := "whatsapp:+15550000001"
	notifier := &selectiveFailNotifier{failFor: failFor}
	svc := NewMonitorService(cfg, logger.NewNop(), sessionRepo, binanceRepo, notifier)

	sessionRepo.Save(monitoringSession(failFor, 100))
	sessionRepo.Save(monitoringSession("whatsapp:+15550000002", 100))

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Evaluations, 2)

	var alerted, failed int
	for _, eval := range result.Evaluations {
		if eval.Alerted {
			alerted++
		}
		if eval.DeliveryError != "" {
			failed++
		}
	}
	assert.Equal(t, 1, alerted)
	assert.Equal(t, 1, failed)
}

func TestMonitor_SharedQuotePerCycle(t *testing.T) {
	svc, sessionRepo, binanceRepo, _ := newMonitorFixture(config.AlertPolicyContinuous)
	binanceRepo.prices[dto.SymbolBTCUSDT] = 55000
	binanceRepo.prices[dto.SymbolETHUSDT] = 3000

	for i := 0; i < 5; i++ {
		session := monitoringSession(testUser+string(rune('a'+i)), 1e12)
		sessionRepo.Save(session)
	}

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	// One fetch per symbol regardless of user count.
	assert.Equal(t, 1, binanceRepo.calls[dto.SymbolBTCUSDT])
	assert.Equal(t, 1, binanceRepo.calls[dto.SymbolETHUSDT])
}

type selectiveFailNotifier struct {
	fakeNotifier
	failFor string
}

func (s *selectiveFailNotifier) SendMessage(ctx context.Context, to, body string) error {
	if to == s.failFor {
		return errors.New("delivery failed")
	}
	return s.fakeNotifier.SendMessage(ctx, to, body)
}
