// Package chart renders an ordered series of (label, value) pairs as a
// terminal line chart. At most one chart instance is alive per Adapter:
// building a new chart disposes the previous one first.
package chart

import (
	"fmt"
	"strings"
	"sync"
)

// Point is one sample of the series, e.g. ("2025-01-02", 10105.40).
type Point struct {
	Label string
	Value float64
}

// Chart is one built chart instance. It is immutable after construction and
// must be released with Close before the owning Adapter draws a replacement.
type Chart struct {
	lines  []string
	closed bool
}

// String returns the drawn chart, one row per line.
func (c *Chart) String() string {
	return strings.Join(c.lines, "\n")
}

// Close releases the instance. Closing twice is a no-op.
func (c *Chart) Close() {
	c.closed = true
	c.lines = nil
}

// Closed reports whether the instance has been released.
func (c *Chart) Closed() bool {
	return c.closed
}

// Adapter owns the single live chart for one series. It is safe for
// concurrent use.
type Adapter struct {
	width  int
	height int

	mu      sync.Mutex
	current *Chart
}

// NewAdapter creates an Adapter drawing into a width x height character grid
// (exclusive of axis labels).
func NewAdapter(width, height int) *Adapter {
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}
	return &Adapter{width: width, height: height}
}

// Build tears down the previous chart, if any, and draws a new one from
// points. An empty series only tears down: the returned chart is nil and
// nothing is drawn.
func (a *Adapter) Build(points []Point) *Chart {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.current.Close()
		a.current = nil
	}

	if len(points) == 0 {
		return nil
	}

	a.current = &Chart{lines: plot(points, a.width, a.height)}
	return a.current
}

// Current returns the live chart instance, or nil if none is drawn.
func (a *Adapter) Current() *Chart {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Close tears down the live chart without drawing a replacement.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil {
		a.current.Close()
		a.current = nil
	}
}

// plot maps the series onto a rune grid with a value axis on the left and
// first/last labels underneath. When the series is wider than the grid, only
// the most recent width points are drawn.
func plot(points []Point, width, height int) []string {
	if len(points) > width {
		points = points[len(points)-width:]
	}

	minV, maxV := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < minV {
			minV = p.Value
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}

	span := maxV - minV
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", len(points)))
	}

	prevRow := -1
	for i, p := range points {
		row := height / 2
		if span > 0 {
			// Row 0 is the top of the grid.
			row = int(float64(height-1) * (maxV - p.Value) / span)
		}
		grid[row][i] = '*'

		// Fill the vertical gap to the previous point so steep moves stay
		// connected.
		if prevRow >= 0 && absInt(row-prevRow) > 1 {
			lo, hi := minInt(row, prevRow)+1, maxInt(row, prevRow)
			for r := lo; r < hi; r++ {
				if grid[r][i] == ' ' {
					grid[r][i] = '|'
				}
			}
		}
		prevRow = row
	}

	axisWidth := len(axisLabel(maxV))
	if w := len(axisLabel(minV)); w > axisWidth {
		axisWidth = w
	}

	lines := make([]string, 0, height+2)
	for i, row := range grid {
		label := strings.Repeat(" ", axisWidth)
		switch i {
		case 0:
			label = fmt.Sprintf("%*s", axisWidth, axisLabel(maxV))
		case height - 1:
			label = fmt.Sprintf("%*s", axisWidth, axisLabel(minV))
		}
		lines = append(lines, label+" |"+string(row))
	}

	lines = append(lines, strings.Repeat(" ", axisWidth)+" +"+strings.Repeat("-", len(points)))

	first, last := points[0].Label, points[len(points)-1].Label
	pad := len(points) - len(first) - len(last)
	if pad < 1 {
		pad = 1
	}
	lines = append(lines, strings.Repeat(" ", axisWidth+2)+first+strings.Repeat(" ", pad)+last)

	return lines
}

func axisLabel(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
