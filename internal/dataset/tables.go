package dataset

import (
	"errors"
	"math"
	"sort"

	"github.com/kaleidemoskop/demodash/internal/constants"
)

// ErrNoSimulationData is returned when the simulated pyramid table has no usable rows.
var ErrNoSimulationData = errors.New("simulated pyramid table is empty")

type key struct {
	scenario string
	year     int
}

// Tables is the immutable, indexed view over the four datasets.
type Tables struct {
	meta Metadata

	pyramids [2][]PyramidRecord
	stats    [2][]StatRecord

	pyramidIndex [2]map[key][]PyramidRecord
	statIndex    [2]map[key]map[Metric]float64

	startYear int
	axisMax   float64
	scenarios []string
	years     []int
}

// NewTables indexes the given records. Simulated pyramid rows older than
// constants.MaxAge are dropped to match the benchmark's open top bucket.
// The slices are not retained beyond the filtered copies.
func NewTables(meta Metadata, simPyramid []PyramidRecord, simStats []StatRecord, benchPyramid []PyramidRecord, benchStats []StatRecord) (*Tables, error) {
	filtered := make([]PyramidRecord, 0, len(simPyramid))
	for _, r := range simPyramid {
		if r.Age <= constants.MaxAge {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoSimulationData
	}

	t := &Tables{meta: meta}
	t.pyramids[Simulation] = filtered
	t.pyramids[Benchmark] = append([]PyramidRecord(nil), benchPyramid...)
	t.stats[Simulation] = append([]StatRecord(nil), simStats...)
	t.stats[Benchmark] = append([]StatRecord(nil), benchStats...)

	for _, src := range []Source{Simulation, Benchmark} {
		t.pyramidIndex[src] = indexPyramid(t.pyramids[src])
		t.statIndex[src] = indexStats(t.stats[src])
	}

	scenarioSet := make(map[string]bool)
	yearSet := make(map[int]bool)
	maxAbs := 0.0
	for _, r := range filtered {
		scenarioSet[r.Scenario] = true
		yearSet[r.Year] = true
		if a := math.Abs(r.Count); a > maxAbs {
			maxAbs = a
		}
	}

	for s := range scenarioSet {
		t.scenarios = append(t.scenarios, s)
	}
	sort.Strings(t.scenarios)
	for y := range yearSet {
		t.years = append(t.years, y)
	}
	sort.Ints(t.years)

	t.startYear = t.years[0]
	t.axisMax = maxAbs * constants.AxisHeadroom
	return t, nil
}

func indexPyramid(records []PyramidRecord) map[key][]PyramidRecord {
	idx := make(map[key][]PyramidRecord)
	for _, r := range records {
		k := key{r.Scenario, r.Year}
		idx[k] = append(idx[k], r)
	}
	return idx
}

// indexStats keeps the last value when a (scenario, year, metric) repeats.
func indexStats(records []StatRecord) map[key]map[Metric]float64 {
	idx := make(map[key]map[Metric]float64)
	for _, r := range records {
		k := key{r.Scenario, r.Year}
		m, ok := idx[k]
		if !ok {
			m = make(map[Metric]float64)
			idx[k] = m
		}
		m[r.Metric] = r.Value
	}
	return idx
}

// Metadata returns the simulation metadata record.
func (t *Tables) Metadata() Metadata { return t.meta }

// SimulationStartYear is the earliest simulated year. Earlier years are historical.
func (t *Tables) SimulationStartYear() int { return t.startYear }

// AxisMax is the half-width of the fixed population axis, computed once at load.
func (t *Tables) AxisMax() float64 { return t.axisMax }

// Scenarios returns the scenario labels present in the simulated pyramid table.
func (t *Tables) Scenarios() []string { return append([]string(nil), t.scenarios...) }

// Years returns the simulated years in ascending order.
func (t *Tables) Years() []int { return append([]int(nil), t.years...) }

// IsHistorical reports whether year precedes the simulation start.
func (t *Tables) IsHistorical(year int) bool { return year < t.startYear }

// Pyramid returns the bars of src matching scenario and year exactly.
// The returned slice must not be modified.
func (t *Tables) Pyramid(src Source, scenario string, year int) []PyramidRecord {
	return t.pyramidIndex[src][key{scenario, year}]
}

// Stats returns a copy of the metric values of src for scenario and year.
// An absent combination yields an empty map.
func (t *Tables) Stats(src Source, scenario string, year int) map[Metric]float64 {
	out := make(map[Metric]float64)
	for m, v := range t.statIndex[src][key{scenario, year}] {
		out[m] = v
	}
	return out
}

// PyramidRecords returns every pyramid row of src, used by exporters.
func (t *Tables) PyramidRecords(src Source) []PyramidRecord {
	return append([]PyramidRecord(nil), t.pyramids[src]...)
}

// StatRecords returns every statistic row of src, used by exporters.
func (t *Tables) StatRecords(src Source) []StatRecord {
	return append([]StatRecord(nil), t.stats[src]...)
}
