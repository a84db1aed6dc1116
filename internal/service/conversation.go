package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/model"
	"futures-pnl-bot/internal/repository"
	"futures-pnl-bot/pkg/logger"
	"futures-pnl-bot/pkg/utils"
)

const (
	cmdStop   = "stop"
	cmdSetup  = "setup"
	cmdStatus = "status"
)

const (
	msgStopped = "🛑 Monitoring stopped.\nProfit locked in? Send 'setup' for your next trade."

	msgSetupStart        = "Let's start.\nAre you *Long* or *Short* on BTC?"
	msgAskBTCEntry       = "BTC Entry Price:"
	msgAskBTCAmount      = "BTC Amount ($):"
	msgAskBTCLeverage    = "BTC Leverage:"
	msgAskETHSide        = "Now ETH.\n*Long* or *Short*?"
	msgAskETHEntry       = "ETH Entry Price:"
	msgAskETHAmount      = "ETH Amount ($):"
	msgAskETHLeverage    = "ETH Leverage:"
	msgAskTarget         = "Target Profit ($):"
	msgMonitoringStarted = "✅ Monitoring started!\nI will check prices every minute and alert you once your target is hit."

	msgTypeLongOrShort   = "Type Long or Short."
	msgPositiveNumbers   = "Positive numbers only."
	msgNumbersOnly       = "Numbers only."
	msgGenericHelp       = "Send 'setup' to start or 'stop' to end."
	msgNotMonitoring     = "⚠️ Not monitoring."
	msgPricesUnavailable = "Error fetching prices. Try again in a moment."
	msgWizardCorrupt     = "Something went wrong with your setup. Send 'setup' to start over."
)

// ConversationService advances per-user wizard sessions from free-text input.
type ConversationService interface {
	HandleMessage(ctx context.Context, sender, text string) string
	Advance(ctx context.Context, session model.Session, text string) (model.Session, string)
}

type conversationService struct {
	log         *logger.Logger
	sessionRepo repository.SessionRepository
	binanceRepo repository.BinanceRepository
}

func NewConversationService(
	log *logger.Logger,
	sessionRepo repository.SessionRepository,
	binanceRepo repository.BinanceRepository,
) ConversationService {
	return &conversationService{
		log:         log,
		sessionRepo: sessionRepo,
		binanceRepo: binanceRepo,
	}
}

// HandleMessage loads or creates the sender's session, advances it, and saves
// the whole record back. One inbound message, one reply.
func (s *conversationService) HandleMessage(ctx context.Context, sender, text string) string {
	session := s.sessionRepo.GetOrCreate(sender)

	session, reply := s.Advance(ctx, session, text)
	s.sessionRepo.Save(session)

	s.log.DebugContext(ctx, "Conversation advanced",
		logger.StringField("user", utils.RedactIdentity(sender)),
		logger.StringField("state", string(session.State)))

	return reply
}

// Advance runs one step of the wizard state machine. Keyword commands take
// precedence over state-specific parsing regardless of current state. Parse
// failures reprompt without touching the session.
func (s *conversationService) Advance(ctx context.Context, session model.Session, text string) (model.Session, string) {
	input := strings.ToLower(strings.TrimSpace(text))

	switch input {
	case cmdStop:
		session.ResetWizard()
		return session, msgStopped
	case cmdSetup:
		session.ResetWizard()
		session.State = model.StateAwaitingBTCSide
		return session, msgSetupStart
	case cmdStatus:
		return session, s.statusReply(ctx, session)
	}

	switch session.State {
	case model.StateAwaitingBTCSide:
		side, ok := model.ParseSide(input)
		if !ok {
			return session, msgTypeLongOrShort
		}
		session.BTCDraft.Side = utils.ToPointer(side)
		session.State = model.StateAwaitingBTCEntry
		return session, msgAskBTCEntry

	case model.StateAwaitingBTCEntry:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.BTCDraft.EntryPrice = utils.ToPointer(value)
		session.State = model.StateAwaitingBTCAmount
		return session, msgAskBTCAmount

	case model.StateAwaitingBTCAmount:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.BTCDraft.Amount = utils.ToPointer(value)
		session.State = model.StateAwaitingBTCLeverage
		return session, msgAskBTCLeverage

	case model.StateAwaitingBTCLeverage:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.BTCDraft.Leverage = utils.ToPointer(value)
		session.State = model.StateAwaitingETHSide
		return session, msgAskETHSide

	case model.StateAwaitingETHSide:
		side, ok := model.ParseSide(input)
		if !ok {
			return session, msgTypeLongOrShort
		}
		session.ETHDraft.Side = utils.ToPointer(side)
		session.State = model.StateAwaitingETHEntry
		return session, msgAskETHEntry

	case model.StateAwaitingETHEntry:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.ETHDraft.EntryPrice = utils.ToPointer(value)
		session.State = model.StateAwaitingETHAmount
		return session, msgAskETHAmount

	case model.StateAwaitingETHAmount:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.ETHDraft.Amount = utils.ToPointer(value)
		session.State = model.StateAwaitingETHLeverage
		return session, msgAskETHLeverage

	case model.StateAwaitingETHLeverage:
		value, ok := parsePositiveFloat(input)
		if !ok {
			return session, msgPositiveNumbers
		}
		session.ETHDraft.Leverage = utils.ToPointer(value)
		session.State = model.StateAwaitingTarget
		return session, msgAskTarget

	case model.StateAwaitingTarget:
		target, ok := parseFloat(input)
		if !ok {
			return session, msgNumbersOnly
		}
		return s.startMonitoring(session, target)

	default:
		// Idle and monitoring accept keywords only.
		return session, msgGenericHelp
	}
}

// startMonitoring commits both drafts and the target. Monitoring is entered
// only with two complete positions; an incomplete draft here means the state
// bookkeeping broke, so the wizard restarts cleanly instead of committing.
func (s *conversationService) startMonitoring(session model.Session, target float64) (model.Session, string) {
	btc, btcOK := session.BTCDraft.Complete()
	eth, ethOK := session.ETHDraft.Complete()
	if !btcOK || !ethOK {
		s.log.Warn("Incomplete position draft at target step",
			logger.StringField("user", utils.RedactIdentity(session.UserID)))
		session.ResetWizard()
		return session, msgWizardCorrupt
	}

	session.BTC = btc
	session.ETH = eth
	session.TargetProfit = target
	session.BTCDraft = model.PositionDraft{}
	session.ETHDraft = model.PositionDraft{}
	session.State = model.StateMonitoring
	return session, msgMonitoringStarted
}

// statusReply reports live PnL without changing state. Quote failures collapse
// to a plain "unavailable" reply.
func (s *conversationService) statusReply(ctx context.Context, session model.Session) string {
	if session.State != model.StateMonitoring {
		return msgNotMonitoring
	}

	btcQuote, err := s.binanceRepo.GetLastPrice(ctx, dto.SymbolBTCUSDT)
	if err != nil {
		s.log.WarnContext(ctx, "BTC quote unavailable for status", logger.ErrorField(err))
		return msgPricesUnavailable
	}
	ethQuote, err := s.binanceRepo.GetLastPrice(ctx, dto.SymbolETHUSDT)
	if err != nil {
		s.log.WarnContext(ctx, "ETH quote unavailable for status", logger.ErrorField(err))
		return msgPricesUnavailable
	}

	btcPnL, err := PositionPnL(btcQuote, session.BTC)
	if err != nil {
		return msgPricesUnavailable
	}
	ethPnL, err := PositionPnL(ethQuote, session.ETH)
	if err != nil {
		return msgPricesUnavailable
	}

	return fmt.Sprintf("📊 *Live Status*\nPnL: %s\nBTC: %s\nETH: %s\nTarget: %s",
		utils.FormatMoney(btcPnL+ethPnL),
		utils.FormatMoney(btcPnL),
		utils.FormatMoney(ethPnL),
		utils.FormatMoney(session.TargetProfit))
}

func parseFloat(text string) (float64, bool) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parsePositiveFloat(text string) (float64, bool) {
	value, ok := parseFloat(text)
	if !ok || value <= 0 {
		return 0, false
	}
	return value, true
}
