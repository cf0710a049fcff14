// Package pyramid derives the population-pyramid bar series for a selection
// and renders them as an image.
//
// Up to three layers are produced, in draw order: the simulation layer
// (always present, possibly empty), the observed historical layer, and the
// benchmark overlay. Bars of all layers share one overlay axis whose width is
// fixed at load time so the chart does not rescale while the year changes.
package pyramid

import (
	"math"
	"sort"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
)

// Layer identifies which data source a series was drawn from.
type Layer string

const (
	LayerSimulation Layer = "simulation"
	LayerHistorical Layer = "historical"
	LayerBenchmark  Layer = "benchmark"
)

// Series is one gender's bars of one layer.
// Ages and Values have equal length; Values are signed counts.
type Series struct {
	Layer        Layer          `json:"layer"`
	Gender       dataset.Gender `json:"gender"`
	Ages         []int          `json:"ages"`
	Values       []float64      `json:"values"`
	Color        string         `json:"color"`
	Opacity      float64        `json:"opacity"`
	LegendLabel  string         `json:"legend_label"`
	ShowInLegend bool           `json:"show_in_legend"`
}

// Empty reports whether the series has no bars.
func (s Series) Empty() bool { return len(s.Ages) == 0 }

// Tick is an axis tick.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Chart is everything the presentation shell needs to draw the pyramid.
type Chart struct {
	Series  []Series   `json:"series"`
	BarMode string     `json:"bar_mode"`
	XRange  [2]float64 `json:"x_range"`
	YRange  [2]float64 `json:"y_range"`
	XTicks  []Tick     `json:"x_ticks"`
	YTicks  []Tick     `json:"y_ticks"`
	XTitle  string     `json:"x_title"`
	YTitle  string     `json:"y_title"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
}

// Input is the part of the selection the pyramid depends on.
type Input struct {
	Scenario    string
	Year        int
	BenchmarkOn bool
	HistoryOn   bool
}

type palette struct {
	color string
	label string
}

var (
	simulationPalette = map[dataset.Gender]palette{
		dataset.Male:   {constants.MaleColor, constants.MaleLabel},
		dataset.Female: {constants.FemaleColor, constants.FemaleLabel},
	}
	historicalPalette = map[dataset.Gender]palette{
		dataset.Male:   {constants.HistoricalMaleColor, constants.MaleLabel},
		dataset.Female: {constants.HistoricalFemaleColor, constants.FemaleLabel},
	}
)

// BuildSeries returns the ordered series for the selection.
func BuildSeries(t *dataset.Tables, in Input) []Series {
	isHistorical := t.IsHistorical(in.Year)

	series := layer(LayerSimulation, t.Pyramid(dataset.Simulation, in.Scenario, in.Year),
		simulationPalette, constants.SimulationOpacity, true)

	if in.HistoryOn {
		series = append(series, layer(LayerHistorical, t.Pyramid(dataset.Benchmark, constants.HistoricalLabel, in.Year),
			historicalPalette, constants.HistoricalOpacity, true)...)
	}

	if in.BenchmarkOn {
		opacity := constants.BenchmarkOpacity
		if isHistorical {
			opacity = constants.BenchmarkHistoricalOpacity
		}
		series = append(series, layer(LayerBenchmark, t.Pyramid(dataset.Benchmark, in.Scenario, in.Year),
			simulationPalette, opacity, false)...)
	}

	return series
}

func layer(l Layer, rows []dataset.PyramidRecord, p map[dataset.Gender]palette, opacity float64, legend bool) []Series {
	out := make([]Series, 0, len(dataset.Genders))
	for _, g := range dataset.Genders {
		ages, values := bars(rows, g)
		out = append(out, Series{
			Layer:        l,
			Gender:       g,
			Ages:         ages,
			Values:       values,
			Color:        p[g].color,
			Opacity:      opacity,
			LegendLabel:  p[g].label,
			ShowInLegend: legend,
		})
	}
	return out
}

// bars returns one bar per age 0..MaxAge for gender g, zero-filling gaps,
// or no bars at all when g has no rows. Missing counts are skipped.
func bars(rows []dataset.PyramidRecord, g dataset.Gender) ([]int, []float64) {
	counts := make(map[int]float64)
	for _, r := range rows {
		if r.Gender != g || r.Age < 0 || r.Age > constants.MaxAge || math.IsNaN(r.Count) {
			continue
		}
		counts[r.Age] += r.Count
	}
	if len(counts) == 0 {
		return []int{}, []float64{}
	}

	ages := make([]int, 0, constants.MaxAge+1)
	values := make([]float64, 0, constants.MaxAge+1)
	for age := 0; age <= constants.MaxAge; age++ {
		ages = append(ages, age)
		values = append(values, counts[age])
	}
	return ages, values
}

// Build returns the full chart description for the selection.
func Build(t *dataset.Tables, in Input) Chart {
	m := t.AxisMax()
	if m <= 0 {
		m = 1
	}

	return Chart{
		Series:  BuildSeries(t, in),
		BarMode: "overlay",
		XRange:  [2]float64{-m, m},
		YRange:  [2]float64{0, constants.MaxAge},
		XTicks:  populationTicks(m),
		YTicks:  ageTicks(),
		XTitle:  constants.PopulationAxisTitle,
		YTitle:  constants.AgeAxisTitle,
		Width:   constants.ChartWidth,
		Height:  constants.ChartHeight,
	}
}

// populationTicks keeps the fixed tick positions that fall inside [-m, m],
// labelled with their absolute value.
func populationTicks(m float64) []Tick {
	ticks := make([]Tick, 0, len(constants.PopulationTicks))
	for _, v := range constants.PopulationTicks {
		if v < -m || v > m {
			continue
		}
		ticks = append(ticks, Tick{Value: v, Label: formatAbs(v)})
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return ticks
}

func ageTicks() []Tick {
	ticks := make([]Tick, 0, constants.MaxAge/constants.MarkStep+1)
	for age := 0; age <= constants.MaxAge; age += constants.MarkStep {
		ticks = append(ticks, Tick{Value: float64(age), Label: formatAbs(float64(age))})
	}
	return ticks
}
