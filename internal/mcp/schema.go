package mcp

import (
	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/pyramid"
	"github.com/kaleidemoskop/demodash/internal/slider"
	"github.com/kaleidemoskop/demodash/internal/statstable"
)

// SelectionInput selects what to derive. Omitted fields take the dashboard defaults.
type SelectionInput struct {
	Scenario  string `json:"scenario,omitempty" jsonschema:"Scenario code such as G1L1W1 (default G1L1W1)"`
	Year      int    `json:"year,omitempty" jsonschema:"Year to show; clamped to the slider domain (default: first simulated year)"`
	Benchmark bool   `json:"benchmark,omitempty" jsonschema:"Overlay the DESTATIS projection for the scenario"`
	History   bool   `json:"history,omitempty" jsonschema:"Overlay observed history and allow years from 1950"`
}

// SelectionSummary echoes the resolved selection.
type SelectionSummary struct {
	Scenario  string `json:"scenario" jsonschema:"Resolved scenario code"`
	Year      int    `json:"year" jsonschema:"Resolved year, always inside the slider domain"`
	Benchmark bool   `json:"benchmark"`
	History   bool   `json:"history"`
	Caption   string `json:"caption" jsonschema:"Year caption marking historical or simulated years"`
}

// SeriesSummary condenses one pyramid series.
type SeriesSummary struct {
	Layer   string  `json:"layer" jsonschema:"simulation, historical or benchmark"`
	Gender  string  `json:"gender"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Bars    int     `json:"bars" jsonschema:"Number of age bars (0 or 101)"`
	Total   float64 `json:"total" jsonschema:"Sum of absolute counts across all ages"`
	Legend  bool    `json:"legend" jsonschema:"Whether the series has a legend entry"`
}

// DashboardViewOutput defines the output for the dashboard_view tool.
type DashboardViewOutput struct {
	Selection SelectionSummary `json:"selection"`
	Slider    slider.Range     `json:"slider"`
	Series    []SeriesSummary  `json:"series" jsonschema:"Pyramid series in draw order"`
	Table     statstable.Table `json:"table"`
	TableText string           `json:"table_text" jsonschema:"Statistics table rendered as plain text"`
}

// SliderRangeInput defines the input for the slider_range tool.
type SliderRangeInput struct {
	History bool `json:"history,omitempty" jsonschema:"Whether the history overlay is on"`
	Year    int  `json:"year,omitempty" jsonschema:"Current year; omitted means no selection yet"`
	Tick    bool `json:"tick,omitempty" jsonschema:"Advance one year as the play timer would"`
}

// SliderRangeOutput defines the output for the slider_range tool.
type SliderRangeOutput struct {
	Range   slider.Range `json:"range"`
	Caption string       `json:"caption"`
}

// PyramidSeriesOutput defines the output for the pyramid_series tool.
type PyramidSeriesOutput struct {
	Selection SelectionSummary `json:"selection"`
	Chart     pyramid.Chart    `json:"chart"`
}

// StatsTableOutput defines the output for the stats_table tool.
type StatsTableOutput struct {
	Selection SelectionSummary `json:"selection"`
	Table     statstable.Table `json:"table"`
	Text      string           `json:"text" jsonschema:"Table rendered as plain text"`
}

// scenarioAxes is listed in tool descriptions.
var scenarioAxes = func() string {
	out := ""
	for i, a := range constants.Axes {
		if i > 0 {
			out += ", "
		}
		out += a.Title() + " " + a.String() + "1-3"
	}
	return out
}()
