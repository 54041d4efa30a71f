package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tradewatch/internal/api"
)

// Empty-state placeholders. An empty result renders one of these, never a
// bare empty container.
const (
	EmptyPortfolio = "No open positions"
	EmptySignals   = "No signals right now"
	EmptyHistory   = "No closed trades yet"
	EmptyEquity    = "Not enough data for an equity curve"
)

// RenderOverview renders the overview region: AI state, balances, and the
// equity curve block (already drawn by the chart adapter; empty string means
// no chart).
func RenderOverview(snap api.PortfolioSnapshot, equityChart string) string {
	var b strings.Builder

	ai := "INACTIVE"
	if snap.AIEnabled {
		ai = "ACTIVE"
	}

	fmt.Fprintf(&b, "AI trading:   %s\n", ai)
	fmt.Fprintf(&b, "Balance:      %s\n", money(snap.BalanceUSDT))
	fmt.Fprintf(&b, "In positions: %s (%d open)\n", money(snap.PositionsValue), snap.PositionsCount)
	fmt.Fprintf(&b, "Total value:  %s\n", money(snap.TotalValue))
	fmt.Fprintf(&b, "Total PnL:    %s (%s)\n", signedMoney(snap.TotalPnL), signedPct(snap.TotalPnLPct))

	if equityChart == "" {
		b.WriteString("\n" + EmptyEquity)
	} else {
		b.WriteString("\nEquity curve:\n" + equityChart)
	}

	return b.String()
}

// RenderPortfolio renders one card per open position, sorted by symbol. An
// empty position map renders the placeholder instead.
func RenderPortfolio(snap api.PortfolioSnapshot) string {
	if len(snap.Positions) == 0 {
		return EmptyPortfolio
	}

	symbols := make([]string, 0, len(snap.Positions))
	for sym := range snap.Positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var b strings.Builder
	for i, sym := range symbols {
		pos := snap.Positions[sym]
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]  %.6f @ %s\n", sym, pos.Amount, money(pos.EntryPrice))
		fmt.Fprintf(&b, "  value %s  pnl %s (%s)\n", money(pos.CurrentValue), signedMoney(pos.PnL), signedPct(pos.PnLPct))
		fmt.Fprintf(&b, "  sl %s  tp %s\n", money(pos.StopLoss), money(pos.TakeProfit))
	}

	fmt.Fprintf(&b, "\nFree balance: %s", money(snap.BalanceUSDT))
	return b.String()
}

// RenderSignals renders the current signal list in fetch order.
func RenderSignals(signals []api.Signal) string {
	if len(signals) == 0 {
		return EmptySignals
	}

	var b strings.Builder
	for i, s := range signals {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-5s %-4s  %s  conf %.0f%%  %s  rsi %.0f",
			s.Symbol, s.Kind, money(s.Price), s.Confidence, s.Trend, s.RSI)
	}
	return b.String()
}

// RenderHistory renders the stats block followed by the trade list (newest
// first, as returned by the backend).
func RenderHistory(hist api.History) string {
	if len(hist.Trades) == 0 {
		return EmptyHistory
	}

	var b strings.Builder
	st := hist.Stats
	fmt.Fprintf(&b, "Trades %d  W/L %d/%d  Winrate %.1f%%  PnL %s\n",
		st.TotalTrades, st.Wins, st.Losses, st.Winrate, signedMoney(st.TotalPnL))
	fmt.Fprintf(&b, "Best %s  Worst %s\n\n", signedMoney(st.BestTrade), signedMoney(st.WorstTrade))

	for _, t := range hist.Trades {
		fmt.Fprintf(&b, "%-5s %s -> %s  %s (%s)  %s\n",
			t.Symbol, money(t.EntryPrice), money(t.ExitPrice),
			signedMoney(t.ProfitUSDT), signedPct(t.ProfitPct), shortTime(t.CloseTime))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSettings renders the backend settings blob.
func RenderSettings(s api.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position size: %.1f%%\n", s.PositionSizePct)
	fmt.Fprintf(&b, "Stop loss:     %.2f%%\n", s.StopLossPct)
	fmt.Fprintf(&b, "Take profit:   %.2f%%\n", s.TakeProfitPct)
	fmt.Fprintf(&b, "Min conf:      %.0f%%\n", s.MinConfidence)
	fmt.Fprintf(&b, "Max positions: %d\n", s.MaxPositions)
	fmt.Fprintf(&b, "Risk/trade:    %.2f%%\n", s.RiskPerTrade)
	fmt.Fprintf(&b, "Trailing stop: %t\n", s.TrailingStop)
	fmt.Fprintf(&b, "Partial close: %t", s.PartialClose)
	return b.String()
}

// RenderRegionError renders the per-region failure state shown when a fetch
// for that region fails. Other regions are unaffected.
func RenderRegionError(region Region) string {
	return fmt.Sprintf("Failed to load %s — will retry on next refresh", region)
}

// money formats a USDT amount with a fixed two-decimal scale. Going through
// decimal avoids float artifacts like $1049.9999999999 on aggregated values.
func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// signedMoney is money with an explicit sign, used for PnL values.
func signedMoney(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.Sign() >= 0 {
		return "+$" + d.StringFixed(2)
	}
	return "-$" + d.Abs().StringFixed(2)
}

// signedPct formats a percentage with an explicit sign.
func signedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// shortTime trims an ISO timestamp to minute precision for list rows.
func shortTime(ts string) string {
	if len(ts) >= 16 {
		return strings.Replace(ts[:16], "T", " ", 1)
	}
	return ts
}
