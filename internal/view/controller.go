package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"tradewatch/internal/api"
	"tradewatch/internal/chart"
)

// ErrUserAborted is returned when the user declines the confirmation prompt
// before a destructive action.
var ErrUserAborted = errors.New("view: user aborted")

// Backend is the slice of the API client the controller needs. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	GetPortfolio(ctx context.Context) (api.PortfolioSnapshot, error)
	GetSignals(ctx context.Context, symbols ...string) ([]api.Signal, error)
	GetHistory(ctx context.Context, limit int) (api.History, error)
	GetDailyStats(ctx context.Context, days int) ([]api.EquityPoint, error)
	GetChart(ctx context.Context, symbol, timeframe string, limit int) ([]api.Candle, error)
	GetSettings(ctx context.Context) (api.Settings, error)
	Buy(ctx context.Context, symbol string, amountUSDT float64) (api.TradeResult, error)
	Sell(ctx context.Context, symbol string) (api.TradeResult, error)
	ToggleAI(ctx context.Context) (api.ToggleResult, error)
}

// Notifier is the user-visible notification channel (the popup analog).
// *notify.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Confirmer asks the user to approve a destructive action. Returning false
// aborts it.
type Confirmer func(prompt string) bool

// Options tunes controller behavior.
type Options struct {
	HistoryLimit int
	EquityDays   int
}

// Controller drives data loading per tab and maps fetched snapshots into
// screen updates. All mutating entry points are safe for concurrent use; the
// only coordination between the refresh timer and user actions is the busy
// flag (an overlapping refresh is dropped, not queued).
type Controller struct {
	backend  Backend
	screen   Screen
	equity   *chart.Adapter
	notifier Notifier
	confirm  Confirmer
	logger   *slog.Logger
	opts     Options

	busy atomic.Bool
	seqs map[Region]*atomic.Uint64

	mu      sync.Mutex
	tab     Region
	visible bool
	last    map[Region]string // last rendered content per region
}

// NewController wires a controller. equity is the single adapter owning the
// equity-curve chart; confirm may be nil, in which case destructive actions
// proceed without prompting.
func NewController(backend Backend, screen Screen, equity *chart.Adapter, notifier Notifier, confirm Confirmer, opts Options, logger *slog.Logger) *Controller {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.EquityDays <= 0 {
		opts.EquityDays = 30
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}

	seqs := make(map[Region]*atomic.Uint64, len(Regions()))
	for _, r := range Regions() {
		seqs[r] = new(atomic.Uint64)
	}

	return &Controller{
		backend:  backend,
		screen:   screen,
		equity:   equity,
		notifier: notifier,
		confirm:  confirm,
		logger:   logger.With(slog.String("component", "view")),
		opts:     opts,
		seqs:     seqs,
		tab:      RegionOverview,
		visible:  true,
		last:     make(map[Region]string),
	}
}

// Tab returns the active tab.
func (c *Controller) Tab() Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SetVisible flips the visibility flag. The refresh scheduler skips ticks
// while the dashboard is hidden.
func (c *Controller) SetVisible(v bool) {
	c.mu.Lock()
	c.visible = v
	c.mu.Unlock()
}

// Visible reports whether the dashboard is visible.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// LastRendered returns the last content applied for a region, if any.
func (c *Controller) LastRendered(region Region) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.last[region]
	return s, ok
}

// SwitchTab activates tab and loads that tab's region only. The initial load
// and the timer-driven refresh are full reloads; a tab switch is a partial
// refresh.
func (c *Controller) SwitchTab(ctx context.Context, tab Region) error {
	if !tab.Valid() {
		return fmt.Errorf("view: unknown tab %q", tab)
	}

	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()

	return c.loadRegion(ctx, tab)
}

// Refresh is the guarded entry point shared by the scheduler and manual
// refresh. A refresh arriving while one is in flight is dropped; the return
// value reports whether this call ran.
func (c *Controller) Refresh(ctx context.Context, full bool) bool {
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.DebugContext(ctx, "refresh already in flight, dropping")
		return false
	}
	defer c.busy.Store(false)

	if full {
		c.FullReload(ctx)
	} else {
		_ = c.loadRegion(ctx, c.Tab())
	}
	return true
}

// FullReload fetches every region concurrently. Failure domains are
// independent: one region failing renders its own error state and never
// blanks out the others. The reload is complete when all four have settled.
func (c *Controller) FullReload(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	for _, region := range Regions() {
		region := region
		g.Go(func() error {
			if err := c.loadRegion(ctx, region); err != nil {
				c.logger.WarnContext(ctx, "region load failed",
					slog.String("region", string(region)),
					slog.String("error", err.Error()),
				)
			}
			// Never propagate: a failing region must not cancel its siblings.
			return nil
		})
	}

	_ = g.Wait()
}

// loadRegion dispatches to the region's loader.
func (c *Controller) loadRegion(ctx context.Context, region Region) error {
	switch region {
	case RegionOverview:
		return c.LoadOverview(ctx)
	case RegionPortfolio:
		return c.LoadPortfolio(ctx)
	case RegionSignals:
		return c.LoadSignals(ctx)
	case RegionHistory:
		return c.LoadHistory(ctx)
	default:
		return fmt.Errorf("view: unknown region %q", region)
	}
}

// LoadOverview fetches the portfolio snapshot plus the equity curve and
// renders the overview region. A failing equity fetch degrades to an
// overview without a chart rather than failing the region.
func (c *Controller) LoadOverview(ctx context.Context) error {
	seq := c.seqs[RegionOverview].Add(1)

	snap, err := c.backend.GetPortfolio(ctx)
	if err != nil {
		c.failRegion(ctx, RegionOverview, seq, err)
		return err
	}

	equityBlock := ""
	points, err := c.backend.GetDailyStats(ctx, c.opts.EquityDays)
	if err != nil {
		c.logger.WarnContext(ctx, "equity curve fetch failed", slog.String("error", err.Error()))
	} else {
		if ch := c.equity.Build(equityPoints(points)); ch != nil {
			equityBlock = ch.String()
		}
	}

	c.apply(RegionOverview, seq, RenderOverview(snap, equityBlock))
	return nil
}

// LoadPortfolio fetches and renders the positions region.
func (c *Controller) LoadPortfolio(ctx context.Context) error {
	seq := c.seqs[RegionPortfolio].Add(1)

	snap, err := c.backend.GetPortfolio(ctx)
	if err != nil {
		c.failRegion(ctx, RegionPortfolio, seq, err)
		return err
	}

	c.apply(RegionPortfolio, seq, RenderPortfolio(snap))
	return nil
}

// LoadSignals fetches and renders the signals region.
func (c *Controller) LoadSignals(ctx context.Context) error {
	seq := c.seqs[RegionSignals].Add(1)

	signals, err := c.backend.GetSignals(ctx)
	if err != nil {
		c.failRegion(ctx, RegionSignals, seq, err)
		return err
	}

	c.apply(RegionSignals, seq, RenderSignals(signals))
	return nil
}

// LoadHistory fetches and renders the trade-history region.
func (c *Controller) LoadHistory(ctx context.Context) error {
	seq := c.seqs[RegionHistory].Add(1)

	hist, err := c.backend.GetHistory(ctx, c.opts.HistoryLimit)
	if err != nil {
		c.failRegion(ctx, RegionHistory, seq, err)
		return err
	}

	c.apply(RegionHistory, seq, RenderHistory(hist))
	return nil
}

// ToggleAI flips the AI flag server-side, surfaces the server's message, and
// re-renders the overview from the authoritative response. There is no
// optimistic flip: until the backend confirms, the rendered state is the old
// one.
func (c *Controller) ToggleAI(ctx context.Context) error {
	res, err := c.backend.ToggleAI(ctx)
	if err != nil {
		c.report(ctx, "AI toggle failed", err)
		return err
	}

	c.notify(ctx, "ai_toggled", "AI trading", res.Message)
	return c.LoadOverview(ctx)
}

// Buy asks for confirmation, submits a manual buy, and triggers a full reload
// on success. A declined prompt returns ErrUserAborted.
func (c *Controller) Buy(ctx context.Context, symbol string, amountUSDT float64) error {
	if !c.confirm(fmt.Sprintf("Buy %s worth of %s?", money(amountUSDT), symbol)) {
		return ErrUserAborted
	}

	res, err := c.backend.Buy(ctx, symbol, amountUSDT)
	if err != nil {
		c.report(ctx, "Buy failed", err)
		return err
	}
	if !res.Success {
		c.notify(ctx, "error", "Buy rejected", res.Message)
		return fmt.Errorf("view: buy %s rejected: %s", symbol, res.Message)
	}

	c.notify(ctx, "trade_opened", "Bought", res.Message)
	c.Refresh(ctx, true)
	return nil
}

// Sell asks for confirmation, closes the position, and triggers a full reload
// on success. A declined prompt returns ErrUserAborted.
func (c *Controller) Sell(ctx context.Context, symbol string) error {
	if !c.confirm(fmt.Sprintf("Sell the whole %s position?", symbol)) {
		return ErrUserAborted
	}

	res, err := c.backend.Sell(ctx, symbol)
	if err != nil {
		c.report(ctx, "Sell failed", err)
		return err
	}
	if !res.Success {
		c.notify(ctx, "error", "Sell rejected", res.Message)
		return fmt.Errorf("view: sell %s rejected: %s", symbol, res.Message)
	}

	c.notify(ctx, "trade_closed", "Sold", res.Message)
	c.Refresh(ctx, true)
	return nil
}

// PriceChart fetches candles for one symbol and draws them with a throwaway
// adapter, leaving the equity chart untouched.
func (c *Controller) PriceChart(ctx context.Context, symbol, timeframe string, limit, width, height int) (string, error) {
	candles, err := c.backend.GetChart(ctx, symbol, timeframe, limit)
	if err != nil {
		c.report(ctx, "Chart failed", err)
		return "", err
	}
	if len(candles) == 0 {
		return fmt.Sprintf("No chart data for %s", symbol), nil
	}

	points := make([]chart.Point, 0, len(candles))
	for _, cd := range candles {
		points = append(points, chart.Point{Label: cd.Time, Value: cd.Close})
	}

	adapter := chart.NewAdapter(width, height)
	defer adapter.Close()
	return adapter.Build(points).String(), nil
}

// ShowSettings fetches and renders the backend settings blob.
func (c *Controller) ShowSettings(ctx context.Context) (string, error) {
	settings, err := c.backend.GetSettings(ctx)
	if err != nil {
		c.report(ctx, "Settings failed", err)
		return "", err
	}
	return RenderSettings(settings), nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// apply renders content into a region unless a newer fetch for that region
// has been issued since seq; stale completions are discarded so an older
// response can never overwrite a newer one.
func (c *Controller) apply(region Region, seq uint64, content string) {
	if c.seqs[region].Load() != seq {
		c.logger.Debug("discarding stale completion",
			slog.String("region", string(region)),
			slog.Uint64("seq", seq),
		)
		return
	}

	c.mu.Lock()
	c.last[region] = content
	c.mu.Unlock()

	c.screen.Apply(region, content)
}

// failRegion renders the region's error state (stale-guarded like any other
// completion) and surfaces one user-visible notification.
func (c *Controller) failRegion(ctx context.Context, region Region, seq uint64, err error) {
	c.apply(region, seq, RenderRegionError(region))
	c.report(ctx, fmt.Sprintf("Failed to load %s", region), err)
}

// report logs an error and forwards it to the notifier as a single
// user-visible message. Errors are never fatal here.
func (c *Controller) report(ctx context.Context, title string, err error) {
	c.logger.ErrorContext(ctx, title, slog.String("error", err.Error()))
	c.notify(ctx, "error", title, describeError(err))
}

// notify forwards to the notifier, if one is wired.
func (c *Controller) notify(ctx context.Context, event, title, message string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, event, title, message); err != nil {
		c.logger.WarnContext(ctx, "notification failed", slog.String("error", err.Error()))
	}
}

// describeError maps the error taxonomy onto user-facing wording.
func describeError(err error) string {
	var transport *api.TransportError
	if errors.As(err, &transport) {
		return fmt.Sprintf("Backend returned HTTP %d", transport.Status)
	}
	var decode *api.DecodeError
	if errors.As(err, &decode) {
		return "Backend sent a malformed response"
	}
	return err.Error()
}

// equityPoints converts the API series into chart points, preserving order.
func equityPoints(points []api.EquityPoint) []chart.Point {
	out := make([]chart.Point, 0, len(points))
	for _, p := range points {
		out = append(out, chart.Point{Label: p.Date, Value: p.Value})
	}
	return out
}
