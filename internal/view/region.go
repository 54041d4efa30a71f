// Package view owns the dashboard state: the active tab, the last rendered
// snapshot per region, and the busy flag guarding concurrent refreshes.
// Rendering is pure per region: a fetched snapshot goes in, a text block comes
// out, and applying the same snapshot twice produces the same output.
package view

// Region is the unit of independent fetch, render, and failure. Tabs map
// one-to-one onto regions.
type Region string

const (
	RegionOverview  Region = "overview"
	RegionPortfolio Region = "portfolio"
	RegionSignals   Region = "signals"
	RegionHistory   Region = "history"
)

// Regions returns all regions in display order.
func Regions() []Region {
	return []Region{RegionOverview, RegionPortfolio, RegionSignals, RegionHistory}
}

// Valid reports whether r names a known region.
func (r Region) Valid() bool {
	switch r {
	case RegionOverview, RegionPortfolio, RegionSignals, RegionHistory:
		return true
	default:
		return false
	}
}

// Screen is the render target. Apply replaces the content of one region;
// regions never bleed into each other.
type Screen interface {
	Apply(region Region, content string)
}
