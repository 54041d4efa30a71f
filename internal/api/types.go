package api

// PortfolioSnapshot is the authoritative portfolio state returned by
// GET /portfolio. The client never mutates it locally; every refresh replaces
// it wholesale.
type PortfolioSnapshot struct {
	BalanceUSDT    float64             `json:"balance_usdt"`
	Positions      map[string]Position `json:"positions"`
	PositionsValue float64             `json:"positions_value"`
	PositionsPnL   float64             `json:"positions_pnl"`
	TotalValue     float64             `json:"total_value"`
	TotalPnL       float64             `json:"total_pnl"`
	TotalPnLPct    float64             `json:"total_pnl_pct"`
	AIEnabled      bool                `json:"enabled"`
	TotalTrades    int                 `json:"total_trades"`
	PositionsCount int                 `json:"positions_count"`
}

// Position is one open position. Symbol duplicates the map key in
// PortfolioSnapshot.Positions and is filled in after decoding.
type Position struct {
	Symbol       string  `json:"-"`
	Amount       float64 `json:"amount"`
	EntryPrice   float64 `json:"entry_price"`
	EntryValue   float64 `json:"entry_value"`
	CurrentValue float64 `json:"current_value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	EntryTime    string  `json:"entry_time"`
}

// Signal kinds as emitted by the backend.
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

// Trend directions as emitted by the backend.
const (
	TrendBullish = "BULLISH"
	TrendBearish = "BEARISH"
	TrendNeutral = "NEUTRAL"
)

// Signal is one ephemeral trading signal; the list is replaced wholesale on
// every fetch.
type Signal struct {
	Symbol        string  `json:"symbol"`
	Kind          string  `json:"signal"`
	Price         float64 `json:"price"`
	Confidence    float64 `json:"confidence"`
	Trend         string  `json:"trend"`
	RSI           float64 `json:"rsi"`
	TrendStrength string  `json:"trend_strength"`
}

// TradeRecord is one closed trade from the history endpoint. Immutable once
// received.
type TradeRecord struct {
	Symbol     string  `json:"symbol"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Amount     float64 `json:"amount"`
	ProfitUSDT float64 `json:"profit_usdt"`
	ProfitPct  float64 `json:"profit_pct"`
	EntryTime  string  `json:"entry_time"`
	CloseTime  string  `json:"close_time"`
}

// Stats is the aggregate derived from trade history.
type Stats struct {
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Winrate     float64 `json:"winrate"`
	TotalPnL    float64 `json:"total_pnl"`
	AvgPnL      float64 `json:"avg_pnl"`
	BestTrade   float64 `json:"best_trade"`
	WorstTrade  float64 `json:"worst_trade"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
}

// History bundles the trade list with its derived stats, as returned by
// GET /history?limit=N. The canonical payload key for the list is "trades".
type History struct {
	Trades []TradeRecord `json:"trades"`
	Stats  Stats         `json:"stats"`
}

// EquityPoint is one point of the equity curve from GET /stats/daily.
type EquityPoint struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// Candle is one OHLCV bar from GET /chart/{symbol}.
type Candle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Settings is the backend configuration blob from GET /settings.
type Settings struct {
	PositionSizePct float64 `json:"position_size_pct"`
	StopLossPct     float64 `json:"stop_loss_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct"`
	MinConfidence   float64 `json:"min_confidence"`
	MaxPositions    int     `json:"max_positions"`
	RiskPerTrade    float64 `json:"risk_per_trade"`
	TrailingStop    bool    `json:"trailing_stop"`
	PartialClose    bool    `json:"partial_close"`
}

// TradeResult is the outcome of a buy or sell command.
type TradeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToggleResult is the outcome of the AI on/off toggle. Enabled reflects the
// authoritative server state after the flip.
type ToggleResult struct {
	Success bool   `json:"success"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}
