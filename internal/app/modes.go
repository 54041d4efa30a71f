package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"tradewatch/internal/view"
)

// DashboardMode runs the interactive terminal dashboard: an initial full
// reload, the periodic refresh timer, and a command loop on stdin.
func (a *App) DashboardMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting dashboard mode")

	lines := make(chan string)

	// Confirmation prompts consume the next input line.
	deps.SetConfirm(func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		select {
		case <-ctx.Done():
			return false
		case line, ok := <-lines:
			if !ok {
				return false
			}
			line = strings.ToLower(strings.TrimSpace(line))
			return line == "y" || line == "yes"
		}
	})

	// Initial load is a full reload; the timer then keeps the active tab (or
	// everything, in full-reload mode) fresh.
	deps.Controller.Refresh(ctx, true)
	deps.Scheduler.Start(ctx)
	defer deps.Scheduler.Stop()

	// The reader goroutine is deliberately not joined: a blocked stdin read
	// only ends with the process.
	go func() {
		defer close(lines)
		reader := bufio.NewReader(os.Stdin)
		for {
			line, err := reader.ReadString('\n')
			if len(line) > 0 {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					a.logger.Warn("stdin read failed", slog.String("error", err.Error()))
				}
				return
			}
		}
	}()

	fmt.Println(commandHelp)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := a.dispatch(ctx, deps, line); quit {
				return nil
			}
		}
	}
}

const commandHelp = `commands: overview | portfolio | signals | history | refresh
          buy <symbol> <usdt> | sell <symbol> | ai
          chart <symbol> [timeframe] | settings | hide | show | quit`

// dispatch executes one dashboard command. It returns true when the user
// asked to quit.
func (a *App) dispatch(ctx context.Context, deps *Dependencies, line string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	ctrl := deps.Controller

	switch cmd {
	case "overview", "portfolio", "signals", "history":
		if err := ctrl.SwitchTab(ctx, view.Region(cmd)); err != nil {
			a.logger.Warn("tab switch failed", slog.String("error", err.Error()))
		}

	case "refresh", "r":
		if !ctrl.Refresh(ctx, true) {
			fmt.Println("refresh already in flight")
		}

	case "buy":
		if len(args) != 2 {
			fmt.Println("usage: buy <symbol> <usdt>")
			return false
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil || amount <= 0 {
			fmt.Println("usage: buy <symbol> <usdt>")
			return false
		}
		if err := ctrl.Buy(ctx, strings.ToUpper(args[0]), amount); errors.Is(err, view.ErrUserAborted) {
			fmt.Println("cancelled")
		}

	case "sell":
		if len(args) != 1 {
			fmt.Println("usage: sell <symbol>")
			return false
		}
		if err := ctrl.Sell(ctx, strings.ToUpper(args[0])); errors.Is(err, view.ErrUserAborted) {
			fmt.Println("cancelled")
		}

	case "ai":
		_ = ctrl.ToggleAI(ctx)

	case "chart":
		if len(args) < 1 {
			fmt.Println("usage: chart <symbol> [timeframe]")
			return false
		}
		timeframe := "1h"
		if len(args) > 1 {
			timeframe = args[1]
		}
		drawn, err := ctrl.PriceChart(ctx, strings.ToUpper(args[0]), timeframe, a.cfg.Dashboard.ChartWidth,
			a.cfg.Dashboard.ChartWidth, a.cfg.Dashboard.ChartHeight)
		if err == nil {
			fmt.Println(drawn)
		}

	case "settings":
		if rendered, err := ctrl.ShowSettings(ctx); err == nil {
			fmt.Println(rendered)
		}

	case "hide":
		ctrl.SetVisible(false)
		fmt.Println("refresh suspended")

	case "show":
		ctrl.SetVisible(true)
		fmt.Println("refresh resumed")

	case "help", "h", "?":
		fmt.Println(commandHelp)

	case "quit", "q", "exit":
		return true

	default:
		fmt.Printf("unknown command %q (try: help)\n", cmd)
	}

	return false
}

// WatchMode runs headless: it polls the portfolio, pushes notifications when
// the AI flag flips or trades close, and schedules a daily equity summary.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", a.cfg.Watch.Interval.Duration),
		slog.String("summary_cron", a.cfg.Watch.SummaryCron),
	)

	sched := cron.New()
	if _, err := sched.AddFunc(a.cfg.Watch.SummaryCron, func() {
		a.pushDailySummary(ctx, deps)
	}); err != nil {
		return fmt.Errorf("app: schedule daily summary: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	watcher := newPortfolioWatcher(deps, a.logger)
	return watcher.run(ctx, a.cfg.Watch.Interval.Duration)
}

// pushDailySummary sends one equity/stats digest through the notifier.
func (a *App) pushDailySummary(ctx context.Context, deps *Dependencies) {
	snap, err := deps.Client.GetPortfolio(ctx)
	if err != nil {
		a.logger.Warn("daily summary: portfolio fetch failed", slog.String("error", err.Error()))
		return
	}
	hist, err := deps.Client.GetHistory(ctx, a.cfg.Dashboard.HistoryLimit)
	if err != nil {
		a.logger.Warn("daily summary: history fetch failed", slog.String("error", err.Error()))
		return
	}

	msg := fmt.Sprintf("Equity $%.2f, PnL %+.2f (%+.2f%%), winrate %.1f%% over %d trades",
		snap.TotalValue, snap.TotalPnL, snap.TotalPnLPct, hist.Stats.Winrate, hist.Stats.TotalTrades)

	if err := deps.Notifier.Notify(ctx, "daily_summary", "Daily summary", msg); err != nil {
		a.logger.Warn("daily summary: notify failed", slog.String("error", err.Error()))
	}
}

// OnceMode performs a single full reload, rendering every region to the
// terminal, and exits.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting once mode")
	deps.Controller.Refresh(ctx, true)
	return nil
}
