// Package statstable derives the aggregated-metrics table shown next to the
// pyramid: which value columns are visible, which sources feed them, and the
// grouped, formatted rows.
package statstable

import (
	"math"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
)

// Groups are the metric blocks in display order. A separator follows every
// group but the last.
var Groups = [][]dataset.Metric{
	{dataset.ShareOver67, dataset.Share20To66, dataset.ShareUnder20},
	{dataset.TotalOver67, dataset.Total20To66, dataset.TotalUnder20},
	{dataset.OldQuota, dataset.YouthQuota},
	{dataset.TotalPop},
}

var labels = map[dataset.Metric]string{
	dataset.ShareOver67:  "Anteil >67",
	dataset.Share20To66:  "Anteil 20–66",
	dataset.ShareUnder20: "Anteil <20",
	dataset.TotalOver67:  "Anzahl >67",
	dataset.Total20To66:  "Anzahl 20–66",
	dataset.TotalUnder20: "Anzahl <20",
	dataset.OldQuota:     "Altenquotient",
	dataset.YouthQuota:   "Jugendquotient",
	dataset.TotalPop:     "Gesamtbevölkerung",
}

// Label returns the display name of a metric.
func Label(m dataset.Metric) string {
	if l, ok := labels[m]; ok {
		return l
	}
	return string(m)
}

// Row is either a metric row or a group separator.
// Cells holds one formatted value per visible value column.
type Row struct {
	Separator bool           `json:"separator,omitempty"`
	Metric    dataset.Metric `json:"metric,omitempty"`
	Label     string         `json:"label,omitempty"`
	Cells     []string       `json:"cells,omitempty"`
	Bold      bool           `json:"bold,omitempty"`
}

// Table is the derived statistics table.
type Table struct {
	// Columns are the header titles, starting with the metric column.
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	OnlyBenchmark  bool `json:"only_benchmark"`
	ShowSimulation bool `json:"show_simulation"`
	ShowBenchmark  bool `json:"show_benchmark"`

	// SimulationLoaded and BenchmarkLoaded report which sources fed the join.
	SimulationLoaded bool   `json:"simulation_loaded"`
	BenchmarkLoaded  bool   `json:"benchmark_loaded"`
	BenchmarkLabel   string `json:"benchmark_label,omitempty"`
}

// Input is the part of the selection the table depends on.
type Input struct {
	Scenario    string
	Year        int
	BenchmarkOn bool
	HistoryOn   bool
}

// Build derives the table for the selection.
func Build(t *dataset.Tables, in Input) Table {
	isHistorical := t.IsHistorical(in.Year)

	tbl := Table{OnlyBenchmark: in.BenchmarkOn && isHistorical}
	tbl.ShowSimulation = !tbl.OnlyBenchmark
	tbl.ShowBenchmark = in.BenchmarkOn

	tbl.Columns = []string{constants.MetricColumn}
	if tbl.ShowSimulation {
		tbl.Columns = append(tbl.Columns, constants.SimulationColumn)
	}
	if tbl.ShowBenchmark {
		tbl.Columns = append(tbl.Columns, constants.BenchmarkColumn)
	}

	var sim, bench map[dataset.Metric]float64
	if tbl.ShowSimulation && !isHistorical {
		sim = t.Stats(dataset.Simulation, in.Scenario, in.Year)
		tbl.SimulationLoaded = true
	}
	if (in.BenchmarkOn && !isHistorical) || (in.HistoryOn && isHistorical) {
		label := in.Scenario
		if isHistorical {
			label = constants.HistoricalLabel
		}
		bench = t.Stats(dataset.Benchmark, label, in.Year)
		tbl.BenchmarkLoaded = true
		tbl.BenchmarkLabel = label
	}

	tbl.Rows = rows(Groups, sim, bench, tbl.ShowSimulation, tbl.ShowBenchmark)
	return tbl
}

// rows outer-joins the two sources on metric: a metric present in either
// yields one row, the other cell falling back to the placeholder.
func rows(groups [][]dataset.Metric, sim, bench map[dataset.Metric]float64, showSim, showBench bool) []Row {
	var out []Row
	for gi, group := range groups {
		for _, m := range group {
			simVal, inSim := sim[m]
			benchVal, inBench := bench[m]
			if !inSim && !inBench {
				continue
			}

			row := Row{Metric: m, Label: Label(m), Bold: m == dataset.TotalPop}
			if showSim {
				row.Cells = append(row.Cells, Format(m, valueOrNaN(simVal, inSim)))
			}
			if showBench {
				row.Cells = append(row.Cells, Format(m, valueOrNaN(benchVal, inBench)))
			}
			out = append(out, row)
		}
		if gi < len(groups)-1 {
			out = append(out, Row{Separator: true})
		}
	}
	return out
}

func valueOrNaN(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}

// MetricRows returns the rows that carry a metric, skipping separators.
func (t Table) MetricRows() []Row {
	var out []Row
	for _, r := range t.Rows {
		if !r.Separator {
			out = append(out, r)
		}
	}
	return out
}

// Row returns the row for metric m, if present.
func (t Table) Row(m dataset.Metric) (Row, bool) {
	for _, r := range t.Rows {
		if !r.Separator && r.Metric == m {
			return r, true
		}
	}
	return Row{}, false
}
