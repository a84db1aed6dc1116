package model

// Side is the direction of a leveraged position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ParseSide matches already-normalized (lowercased) input.
func ParseSide(text string) (Side, bool) {
	switch Side(text) {
	case SideLong:
		return SideLong, true
	case SideShort:
		return SideShort, true
	default:
		return "", false
	}
}

// State is the wizard position of a session. States are compared by name only,
// never by ordinal.
type State string

const (
	StateIdle                State = "idle"
	StateAwaitingBTCSide     State = "awaiting_btc_side"
	StateAwaitingBTCEntry    State = "awaiting_btc_entry"
	StateAwaitingBTCAmount   State = "awaiting_btc_amount"
	StateAwaitingBTCLeverage State = "awaiting_btc_leverage"
	StateAwaitingETHSide     State = "awaiting_eth_side"
	StateAwaitingETHEntry    State = "awaiting_eth_entry"
	StateAwaitingETHAmount   State = "awaiting_eth_amount"
	StateAwaitingETHLeverage State = "awaiting_eth_leverage"
	StateAwaitingTarget      State = "awaiting_target"
	StateMonitoring          State = "monitoring"
)

// Position is a fully-populated instrument position. All numeric fields are
// validated positive at wizard-input time.
type Position struct {
	Side       Side
	EntryPrice float64
	Amount     float64
	Leverage   float64
}

// PositionDraft accumulates wizard answers one field at a time. Fields are
// replaced wholesale (new pointers), never written through, so copies of the
// owning session stay consistent.
type PositionDraft struct {
	Side       *Side
	EntryPrice *float64
	Amount     *float64
	Leverage   *float64
}

// Complete converts the draft into a usable Position once every field is set.
func (d PositionDraft) Complete() (Position, bool) {
	if d.Side == nil || d.EntryPrice == nil || d.Amount == nil || d.Leverage == nil {
		return Position{}, false
	}
	return Position{
		Side:       *d.Side,
		EntryPrice: *d.EntryPrice,
		Amount:     *d.Amount,
		Leverage:   *d.Leverage,
	}, true
}

// Session is the per-user record of wizard progress and committed position
// parameters. It is stored and passed by value; the session store replaces the
// whole record on save.
type Session struct {
	UserID string
	State  State

	// In-progress wizard answers.
	BTCDraft PositionDraft
	ETHDraft PositionDraft

	// Committed parameters, meaningful only while State == StateMonitoring.
	BTC          Position
	ETH          Position
	TargetProfit float64
}

// NewSession returns a fresh idle session for a newly seen user.
func NewSession(userID string) Session {
	return Session{UserID: userID, State: StateIdle}
}

// ResetWizard discards all wizard progress and committed positions, keeping
// identity only.
func (s *Session) ResetWizard() {
	*s = NewSession(s.UserID)
}
