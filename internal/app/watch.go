package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// portfolioWatcher polls the portfolio endpoint and turns state changes into
// notifications. The first successful poll only primes the baseline.
type portfolioWatcher struct {
	deps   *Dependencies
	logger *slog.Logger

	primed      bool
	aiEnabled   bool
	totalTrades int
}

func newPortfolioWatcher(deps *Dependencies, logger *slog.Logger) *portfolioWatcher {
	return &portfolioWatcher{
		deps:   deps,
		logger: logger.With(slog.String("component", "watcher")),
	}
}

// run polls immediately and then on every tick until ctx is cancelled.
func (w *portfolioWatcher) run(ctx context.Context, interval time.Duration) error {
	w.poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll fetches the portfolio and emits notifications for the deltas since the
// previous poll. Fetch failures are logged and retried on the next tick.
func (w *portfolioWatcher) poll(ctx context.Context) {
	snap, err := w.deps.Client.GetPortfolio(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "portfolio poll failed", slog.String("error", err.Error()))
		return
	}

	if !w.primed {
		w.primed = true
		w.aiEnabled = snap.AIEnabled
		w.totalTrades = snap.TotalTrades
		w.logger.InfoContext(ctx, "watcher primed",
			slog.Bool("ai_enabled", snap.AIEnabled),
			slog.Int("total_trades", snap.TotalTrades),
		)
		return
	}

	if snap.AIEnabled != w.aiEnabled {
		w.aiEnabled = snap.AIEnabled
		state := "disabled"
		if snap.AIEnabled {
			state = "enabled"
		}
		w.notify(ctx, "ai_toggled", "AI trading", fmt.Sprintf("AI trading %s", state))
	}

	if snap.TotalTrades > w.totalTrades {
		closed := snap.TotalTrades - w.totalTrades
		w.totalTrades = snap.TotalTrades
		w.reportClosedTrades(ctx, closed)
	}
}

// reportClosedTrades fetches the most recent n trades and pushes one
// notification per close.
func (w *portfolioWatcher) reportClosedTrades(ctx context.Context, n int) {
	hist, err := w.deps.Client.GetHistory(ctx, n)
	if err != nil {
		w.logger.WarnContext(ctx, "history fetch failed", slog.String("error", err.Error()))
		return
	}

	for _, t := range hist.Trades {
		msg := fmt.Sprintf("%s closed: %+.2f USDT (%+.2f%%)", t.Symbol, t.ProfitUSDT, t.ProfitPct)
		w.notify(ctx, "trade_closed", "Trade closed", msg)
	}
}

func (w *portfolioWatcher) notify(ctx context.Context, event, title, message string) {
	if err := w.deps.Notifier.Notify(ctx, event, title, message); err != nil {
		w.logger.WarnContext(ctx, "notify failed", slog.String("error", err.Error()))
	}
}
