// Package constants provides named constants used throughout the demodash codebase.
// This centralizes year bounds, colours and labels so the derivation packages
// and the presentation shell agree on them.
package constants

import "time"

// Year domain constants
const (
	// HistoryStartYear is the first year of the historical reference series.
	// The slider starts here when the history overlay is enabled.
	HistoryStartYear = 1950

	// ProjectionEndYear is the last projected year for every scenario.
	ProjectionEndYear = 2070

	// MarkStep is the spacing of labelled slider marks and age ticks.
	MarkStep = 10
)

// Age axis constants
const (
	// MaxAge is the open-ended top age bucket of the reference data.
	// Simulated rows above it are dropped at load time.
	MaxAge = 100

	// AxisHeadroom scales the largest absolute count into the symmetric x range.
	AxisHeadroom = 1.1
)

// HistoricalLabel is the scenario label the benchmark tables use for observed years.
const HistoricalLabel = "Historical"

// DefaultTickInterval is the auto-advance period while playing.
const DefaultTickInterval = 500 * time.Millisecond

// Series colours (hex, without alpha).
const (
	MaleColor             = "#6495ED"
	FemaleColor           = "#FF69B4"
	HistoricalMaleColor   = "#395983"
	HistoricalFemaleColor = "#B24F80"
)

// Series opacities.
const (
	SimulationOpacity          = 1.0
	HistoricalOpacity          = 0.9
	BenchmarkOpacity           = 0.3
	BenchmarkHistoricalOpacity = 0.4
)

// Legend labels.
const (
	MaleLabel   = "Männer"
	FemaleLabel = "Frauen"
)

// Statistics table column headers.
const (
	MetricColumn     = "Kennzahl"
	SimulationColumn = "Simulation"
	BenchmarkColumn  = "DESTATIS"
)

// Placeholder is rendered for any missing statistic value.
const Placeholder = "-"

// Chart axis titles and size.
const (
	PopulationAxisTitle = "Bevölkerung (in Tausend)"
	AgeAxisTitle        = "Alter in Jahren"
	ChartWidth          = 1000
	ChartHeight         = 800
)

// PopulationTicks are the fixed x-axis tick positions; labels show absolute values.
var PopulationTicks = []float64{-800, -600, -400, -200, 0, 200, 400, 600, 800}
