package types

import "time"

// Bar is one OHLCV candle. Series are ordered oldest-first and are never
// mutated after fetching.
type Bar struct {
	Ts                     int64
	Open, High, Low, Close float64
	Volume                 float64
}

// IndicatorSet holds the indicator values for a single evaluation cycle.
// It is computed once per cycle from the full bar window; identical bars
// always produce an identical set.
type IndicatorSet struct {
	MAFast     float64 `json:"ma_fast"`
	MASlow     float64 `json:"ma_slow"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	ATR        float64 `json:"atr"`
	ATRMedian  float64 `json:"atr_median"`
}

// Direction is the trade direction bias of a strategy.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Action is the per-cycle scheduling outcome.
type Action string

const (
	ActionObserve     Action = "observe"
	ActionPendingOnly Action = "pending_only"
	ActionWaitRR      Action = "wait_rr"
	ActionOpenOrScale Action = "open_or_scale"
)

// Executable reports whether the action warrants creating a trade idea.
func (a Action) Executable() bool {
	return a == ActionPendingOnly || a == ActionOpenOrScale
}

// EMNRFlags are the four signal categories: Entry, Exit, Strong and Weak.
// Each flag is the AND of the facts named in the corresponding rule-set
// condition list.
type EMNRFlags struct {
	Entry  bool `json:"entry"`
	Exit   bool `json:"exit"`
	Strong bool `json:"strong"`
	Weak   bool `json:"weak"`
}

// ExecutionPlan maps a confidence score to what the desk is allowed to do
// this cycle.
type ExecutionPlan struct {
	Action  Action  `json:"action"`
	RiskPct float64 `json:"risk_pct"`
}

// RiskFigures are the stop/target/size numbers for one candidate trade.
// HasLevels is false when no volatility measure was available; callers must
// then treat RewardRisk as 0.
type RiskFigures struct {
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	RewardRisk float64 `json:"reward_risk"`
	Volume     float64 `json:"volume"`
	HasLevels  bool    `json:"has_levels"`
}

// IdeaStatus is the lifecycle state of a trade idea.
type IdeaStatus string

const (
	StatusPendingApproval IdeaStatus = "pending_approval"
	StatusApproved        IdeaStatus = "approved"
	StatusRejected        IdeaStatus = "rejected"
	StatusExecuted        IdeaStatus = "executed"
	StatusCancelled       IdeaStatus = "cancelled"
)

// TradeIdea is the terminal, auditable artifact of an evaluation cycle.
// Every field except Status is immutable after construction.
type TradeIdea struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Symbol     string        `json:"symbol"`
	Timeframe  string        `json:"timeframe"`
	Confidence int           `json:"confidence"`
	Action     Action        `json:"action"`
	Direction  Direction     `json:"direction"`
	EntryPrice float64       `json:"entry_price"`
	StopLoss   float64       `json:"stop_loss"`
	TakeProfit float64       `json:"take_profit"`
	Volume     float64       `json:"volume"`
	RewardRisk float64       `json:"reward_risk"`
	Flags      EMNRFlags     `json:"emnr_flags"`
	Indicators IndicatorSet  `json:"indicators"`
	Plan       ExecutionPlan `json:"execution_plan"`
	Status     IdeaStatus    `json:"status"`
}

// EvaluationResult is what Evaluate hands back to callers, including
// "no trade idea" cycles.
type EvaluationResult struct {
	TradeIdea  *TradeIdea `json:"trade_idea,omitempty"`
	Confidence int        `json:"confidence"`
	Action     Action     `json:"action"`
	Message    string     `json:"message"`
}

// AccountInfo is the broker account snapshot used for sizing.
type AccountInfo struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// SymbolInfo is the contract metadata for a tradeable symbol.
type SymbolInfo struct {
	ContractSize float64 `json:"contract_size"`
	TickValue    float64 `json:"tick_value"`
	TickSize     float64 `json:"tick_size"`
	MinVolume    float64 `json:"min_volume"`
	VolumeStep   float64 `json:"volume_step"`
}

// OrderReq is a market order submission to the bridge.
type OrderReq struct {
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	Volume     float64   `json:"volume"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Comment    string    `json:"comment,omitempty"`
}

// OrderResp is the bridge's answer to an order submission.
type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
