package app

import (
	"context"
	"log/slog"
	"os"

	"tradewatch/internal/api"
	"tradewatch/internal/chart"
	"tradewatch/internal/config"
	"tradewatch/internal/notify"
	"tradewatch/internal/refresh"
	"tradewatch/internal/view"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Client     *api.Client
	Notifier   *notify.Notifier
	Equity     *chart.Adapter
	Controller *view.Controller
	Scheduler  *refresh.Scheduler

	// Confirm is filled in by the dashboard mode once it owns stdin; other
	// modes never prompt.
	confirm view.Confirmer
}

// SetConfirm installs the interactive confirmation prompt. Must be called
// before the first destructive command is dispatched.
func (d *Dependencies) SetConfirm(confirm view.Confirmer) {
	d.confirm = confirm
}

// Wire constructs all concrete dependencies from the given configuration and
// returns them together with a cleanup function for shutdown.
func Wire(cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- API client (base URL resolved once, per environment) ---
	baseURL := cfg.API.ResolveBaseURL(cfg.Environment)
	deps.Client = api.NewClient(baseURL, cfg.API.InitData, cfg.API.Timeout.Duration)
	logger.Info("api client ready", slog.String("base_url", baseURL))

	// --- Notifier: terminal banner plus optional Telegram channel ---
	senders := []notify.Sender{notify.NewTerminalSender(os.Stderr)}
	if cfg.Notify.TelegramToken != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Equity chart adapter (the single live equity-curve chart) ---
	deps.Equity = chart.NewAdapter(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight)
	closers = append(closers, deps.Equity.Close)

	// --- View controller ---
	screen := view.NewTerminalScreen(os.Stdout)
	deps.Controller = view.NewController(
		deps.Client,
		screen,
		deps.Equity,
		deps.Notifier,
		func(prompt string) bool {
			if deps.confirm == nil {
				return true
			}
			return deps.confirm(prompt)
		},
		view.Options{
			HistoryLimit: cfg.Dashboard.HistoryLimit,
			EquityDays:   cfg.Dashboard.EquityDays,
		},
		logger,
	)

	// --- Refresh scheduler ---
	fullReload := cfg.Refresh.FullReload
	deps.Scheduler = refresh.New(
		cfg.Refresh.Interval.Duration,
		deps.Controller.Visible,
		func(ctx context.Context) bool {
			return deps.Controller.Refresh(ctx, fullReload)
		},
		logger,
	)
	closers = append(closers, deps.Scheduler.Stop)

	return deps, cleanup, nil
}
