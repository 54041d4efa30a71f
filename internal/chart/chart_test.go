package chart

import (
	"strings"
	"testing"
)

func TestBuild_RendersPointsInOrder(t *testing.T) {
	a := NewAdapter(20, 5)

	ch := a.Build([]Point{
		{Label: "1/1", Value: 100},
		{Label: "1/2", Value: 105},
		{Label: "1/3", Value: 98},
	})
	if ch == nil {
		t.Fatal("expected a chart")
	}

	lines := strings.Split(ch.String(), "\n")
	// 5 grid rows + axis + label row.
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), ch.String())
	}

	// Max (105) labels the top row, min (98) the bottom row.
	if !strings.Contains(lines[0], "105.00") {
		t.Errorf("expected top axis label 105.00, got %q", lines[0])
	}
	if !strings.Contains(lines[4], "98.00") {
		t.Errorf("expected bottom axis label 98.00, got %q", lines[4])
	}

	// One marker per point, in column order: col 0 for 100, col 1 for 105
	// (top row), col 2 for 98 (bottom row).
	grid := make([]string, 5)
	for i := range grid {
		grid[i] = lines[i][strings.Index(lines[i], "|")+1:]
	}
	if grid[0][1] != '*' {
		t.Errorf("expected the 105 marker on the top row at column 1:\n%s", ch.String())
	}
	if grid[4][2] != '*' {
		t.Errorf("expected the 98 marker on the bottom row at column 2:\n%s", ch.String())
	}

	markers := strings.Count(ch.String(), "*")
	if markers != 3 {
		t.Errorf("expected 3 markers, got %d:\n%s", markers, ch.String())
	}

	// First and last labels end up under the axis.
	last := lines[len(lines)-1]
	if !strings.Contains(last, "1/1") || !strings.Contains(last, "1/3") {
		t.Errorf("expected first/last labels, got %q", last)
	}
}

func TestBuild_DisposesPreviousChart(t *testing.T) {
	a := NewAdapter(20, 5)

	first := a.Build([]Point{{Label: "a", Value: 1}, {Label: "b", Value: 2}})
	second := a.Build([]Point{{Label: "c", Value: 3}, {Label: "d", Value: 4}})

	if !first.Closed() {
		t.Error("expected first chart to be disposed by the second build")
	}
	if second.Closed() {
		t.Error("expected second chart to be live")
	}
	if a.Current() != second {
		t.Error("expected adapter to track the second chart")
	}
}

func TestBuild_EmptySeriesTearsDownOnly(t *testing.T) {
	a := NewAdapter(20, 5)

	first := a.Build([]Point{{Label: "a", Value: 1}})
	if first == nil {
		t.Fatal("expected a chart")
	}

	ch := a.Build(nil)
	if ch != nil {
		t.Errorf("expected no chart for an empty series")
	}
	if !first.Closed() {
		t.Error("expected the previous chart to be torn down")
	}
	if a.Current() != nil {
		t.Error("expected no live chart")
	}
}

func TestBuild_FlatSeries(t *testing.T) {
	a := NewAdapter(20, 5)

	ch := a.Build([]Point{{Label: "a", Value: 50}, {Label: "b", Value: 50}})
	if ch == nil {
		t.Fatal("expected a chart")
	}
	if got := strings.Count(ch.String(), "*"); got != 2 {
		t.Errorf("expected 2 markers on a flat series, got %d", got)
	}
}

func TestBuild_DownsamplesToWidth(t *testing.T) {
	a := NewAdapter(10, 5)

	points := make([]Point, 25)
	for i := range points {
		points[i] = Point{Label: "d", Value: float64(i)}
	}

	ch := a.Build(points)
	if ch == nil {
		t.Fatal("expected a chart")
	}
	// Only the newest 10 points are drawn.
	if got := strings.Count(ch.String(), "*"); got > 10 {
		t.Errorf("expected at most 10 markers, got %d", got)
	}
}
