package view

import (
	"strings"
	"testing"

	"tradewatch/internal/api"
)

func TestRenderPortfolio_EmptyPositions(t *testing.T) {
	got := RenderPortfolio(api.PortfolioSnapshot{BalanceUSDT: 10000})
	if got != EmptyPortfolio {
		t.Errorf("expected empty-state placeholder, got %q", got)
	}
}

func TestRenderPortfolio_OneCardPerPosition(t *testing.T) {
	snap := api.PortfolioSnapshot{
		BalanceUSDT: 5000,
		Positions: map[string]api.Position{
			"BTC": {Symbol: "BTC", Amount: 0.01, EntryPrice: 95450, CurrentValue: 970, PnL: 15.5, PnLPct: 1.6},
			"ETH": {Symbol: "ETH", Amount: 0.5, EntryPrice: 2380, CurrentValue: 1180, PnL: -10, PnLPct: -0.8},
			"SOL": {Symbol: "SOL", Amount: 9, EntryPrice: 112.5, CurrentValue: 1020, PnL: 7.5, PnLPct: 0.7},
		},
	}

	got := RenderPortfolio(snap)

	for _, sym := range []string{"[BTC]", "[ETH]", "[SOL]"} {
		if strings.Count(got, sym) != 1 {
			t.Errorf("expected exactly one card for %s:\n%s", sym, got)
		}
	}

	// PnL signs match the position's pnl.
	if !strings.Contains(got, "+$15.50") {
		t.Errorf("expected positive BTC pnl:\n%s", got)
	}
	if !strings.Contains(got, "-$10.00") {
		t.Errorf("expected negative ETH pnl:\n%s", got)
	}
	if !strings.Contains(got, "+$7.50") {
		t.Errorf("expected positive SOL pnl:\n%s", got)
	}
}

func TestRenderPortfolio_Idempotent(t *testing.T) {
	snap := api.PortfolioSnapshot{
		BalanceUSDT: 5000,
		Positions: map[string]api.Position{
			"BTC": {Symbol: "BTC", Amount: 0.01, EntryPrice: 95450},
			"ETH": {Symbol: "ETH", Amount: 0.5, EntryPrice: 2380},
		},
	}

	first := RenderPortfolio(snap)
	for i := 0; i < 10; i++ {
		if got := RenderPortfolio(snap); got != first {
			t.Fatalf("render is not idempotent:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestRenderOverview_AIState(t *testing.T) {
	off := RenderOverview(api.PortfolioSnapshot{AIEnabled: false}, "")
	if !strings.Contains(off, "INACTIVE") {
		t.Errorf("expected inactive AI state:\n%s", off)
	}

	on := RenderOverview(api.PortfolioSnapshot{AIEnabled: true}, "")
	if !strings.Contains(on, "ACTIVE") || strings.Contains(on, "INACTIVE") {
		t.Errorf("expected active AI state:\n%s", on)
	}
}

func TestRenderOverview_NoEquityChart(t *testing.T) {
	got := RenderOverview(api.PortfolioSnapshot{}, "")
	if !strings.Contains(got, EmptyEquity) {
		t.Errorf("expected equity placeholder:\n%s", got)
	}
}

func TestRenderSignals_Empty(t *testing.T) {
	if got := RenderSignals(nil); got != EmptySignals {
		t.Errorf("expected empty-state placeholder, got %q", got)
	}
}

func TestRenderSignals_FetchOrder(t *testing.T) {
	got := RenderSignals([]api.Signal{
		{Symbol: "BTC", Kind: api.SignalBuy, Price: 95450, Confidence: 82, Trend: api.TrendBullish, RSI: 45},
		{Symbol: "ETH", Kind: api.SignalSell, Price: 2380, Confidence: 76, Trend: api.TrendBearish, RSI: 72},
	})

	if strings.Index(got, "BTC") > strings.Index(got, "ETH") {
		t.Errorf("expected signals in fetch order:\n%s", got)
	}
	if !strings.Contains(got, "BUY") || !strings.Contains(got, "SELL") {
		t.Errorf("expected signal kinds:\n%s", got)
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	if got := RenderHistory(api.History{}); got != EmptyHistory {
		t.Errorf("expected empty-state placeholder, got %q", got)
	}
}

func TestRenderHistory_StatsAndTrades(t *testing.T) {
	got := RenderHistory(api.History{
		Trades: []api.TradeRecord{
			{Symbol: "BTC", EntryPrice: 95450, ExitPrice: 96500, ProfitUSDT: 10.5, ProfitPct: 1.1, CloseTime: "2025-08-01T12:30:00"},
		},
		Stats: api.Stats{TotalTrades: 12, Wins: 8, Losses: 4, Winrate: 66.7, TotalPnL: 120.5},
	})

	if !strings.Contains(got, "W/L 8/4") {
		t.Errorf("expected win/loss counts:\n%s", got)
	}
	if !strings.Contains(got, "66.7%") {
		t.Errorf("expected winrate:\n%s", got)
	}
	if !strings.Contains(got, "2025-08-01 12:30") {
		t.Errorf("expected trimmed close time:\n%s", got)
	}
}
