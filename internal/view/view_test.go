package view

import (
	"strings"
	"testing"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/pyramid"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/kaleidemoskop/demodash/internal/statstable"
)

const startYear = 2022

func newTestTables(t *testing.T) *dataset.Tables {
	t.Helper()

	var sim []dataset.PyramidRecord
	var simStats []dataset.StatRecord
	for year := startYear; year <= 2030; year++ {
		for age := 0; age <= 100; age++ {
			sim = append(sim,
				dataset.PyramidRecord{Scenario: "G1L1W1", Year: year, Gender: dataset.Male, Age: age, Count: -float64(age)},
				dataset.PyramidRecord{Scenario: "G1L1W1", Year: year, Gender: dataset.Female, Age: age, Count: float64(age)},
			)
		}
		for _, m := range dataset.Metrics {
			simStats = append(simStats, dataset.StatRecord{Scenario: "G1L1W1", Year: year, Metric: m, Value: 0.5})
		}
	}

	bench := []dataset.PyramidRecord{
		{Scenario: "G1L1W1", Year: 2030, Gender: dataset.Male, Age: 40, Count: -30},
		{Scenario: constants.HistoricalLabel, Year: 1960, Gender: dataset.Male, Age: 10, Count: -80},
		{Scenario: constants.HistoricalLabel, Year: 1960, Gender: dataset.Female, Age: 10, Count: 75},
	}
	benchStats := []dataset.StatRecord{
		{Scenario: "G1L1W1", Year: 2030, Metric: dataset.TotalPop, Value: 83000},
		{Scenario: constants.HistoricalLabel, Year: 1960, Metric: dataset.TotalPop, Value: 73000},
		{Scenario: constants.HistoricalLabel, Year: 1960, Metric: dataset.OldQuota, Value: 0.19},
	}

	meta := dataset.Metadata{InitPopulation: 100000, SimsPerScenario: 10, ScalingFactor: 831.2}
	tables, err := dataset.NewTables(meta, sim, simStats, bench, benchStats)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tables
}

func state(year int, benchmark, history bool) selection.State {
	st := selection.Default(startYear)
	st.Year = year
	st.BenchmarkOn = benchmark
	st.HistoryOn = history
	return st
}

func seriesByLayer(c pyramid.Chart, l pyramid.Layer) []pyramid.Series {
	var out []pyramid.Series
	for _, s := range c.Series {
		if s.Layer == l {
			out = append(out, s)
		}
	}
	return out
}

func TestDerive_SimulationYearOverlaysOff(t *testing.T) {
	snap := Derive(newTestTables(t), state(2030, false, false))

	wantCols := []string{constants.MetricColumn, constants.SimulationColumn}
	if strings.Join(snap.Table.Columns, ",") != strings.Join(wantCols, ",") {
		t.Errorf("Columns = %v, want %v", snap.Table.Columns, wantCols)
	}
	if len(snap.Pyramid.Series) != 2 {
		t.Errorf("series = %d, want 2", len(snap.Pyramid.Series))
	}
	if snap.Caption != "Jahr: 2030 (Simulation)" {
		t.Errorf("Caption = %q", snap.Caption)
	}
	if snap.Slider.Min != startYear || snap.Slider.Max != constants.ProjectionEndYear {
		t.Errorf("Slider = [%d, %d]", snap.Slider.Min, snap.Slider.Max)
	}
}

func TestDerive_HistoricalYearWithHistory(t *testing.T) {
	snap := Derive(newTestTables(t), state(1960, false, true))

	if snap.Table.ShowBenchmark {
		t.Error("benchmark column shown with benchmark off")
	}
	if snap.Table.SimulationLoaded {
		t.Error("simulation source loaded for a historical year")
	}
	for _, r := range snap.Table.MetricRows() {
		if len(r.Cells) != 1 || r.Cells[0] != constants.Placeholder {
			t.Errorf("row %s cells = %v, want [-]", r.Metric, r.Cells)
		}
	}

	sim := seriesByLayer(snap.Pyramid, pyramid.LayerSimulation)
	if len(sim) != 2 {
		t.Fatalf("simulation series = %d, want 2", len(sim))
	}
	for _, s := range sim {
		if !s.Empty() {
			t.Errorf("simulation %s series has %d bars, want 0", s.Gender, len(s.Ages))
		}
	}
	hist := seriesByLayer(snap.Pyramid, pyramid.LayerHistorical)
	if len(hist) != 2 || hist[0].Empty() {
		t.Errorf("historical series = %+v", hist)
	}
	if got := seriesByLayer(snap.Pyramid, pyramid.LayerBenchmark); len(got) != 0 {
		t.Errorf("benchmark series = %d, want 0", len(got))
	}
	if snap.Caption != "Jahr: 1960 (Historisch)" {
		t.Errorf("Caption = %q", snap.Caption)
	}
}

func TestDerive_BenchmarkOnHistoricalYear(t *testing.T) {
	tables := newTestTables(t)

	st := state(1960, false, true)
	st, _ = selection.Reduce(st, selection.SetBenchmark{On: true}, startYear)
	snap := Derive(tables, st)

	if !snap.Table.OnlyBenchmark {
		t.Error("OnlyBenchmark = false")
	}
	for _, c := range snap.Table.Columns {
		if c == constants.SimulationColumn {
			t.Error("Simulation column present")
		}
	}

	// Without history the table builder still hides the simulation column
	// for a historical year once the benchmark is on.
	tbl := statstable.Build(tables, statstable.Input{Scenario: "G1L1W1", Year: 1960, BenchmarkOn: true})
	if !tbl.OnlyBenchmark || tbl.ShowSimulation {
		t.Errorf("OnlyBenchmark=%v ShowSimulation=%v", tbl.OnlyBenchmark, tbl.ShowSimulation)
	}
}

func TestDerive_ClampsYear(t *testing.T) {
	snap := Derive(newTestTables(t), state(1960, false, false))
	if snap.State.Year != startYear || snap.Slider.Year != startYear {
		t.Errorf("year = %d / %d, want %d", snap.State.Year, snap.Slider.Year, startYear)
	}
}

func TestCaption(t *testing.T) {
	tests := []struct {
		year    int
		hasYear bool
		want    string
	}{
		{2030, true, "Jahr: 2030 (Simulation)"},
		{2022, true, "Jahr: 2022 (Simulation)"},
		{2021, true, "Jahr: 2021 (Historisch)"},
		{0, false, LoadingCaption},
	}
	for _, tt := range tests {
		if got := Caption(tt.year, tt.hasYear, startYear); got != tt.want {
			t.Errorf("Caption(%d, %v) = %q, want %q", tt.year, tt.hasYear, got, tt.want)
		}
	}
}

func TestSelector(t *testing.T) {
	sc, err := selection.ParseScenario("G2L1W3")
	if err != nil {
		t.Fatal(err)
	}
	rows := Selector(sc)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		selected := 0
		for _, o := range row.Options {
			if o.Selected {
				selected++
				if o.Code != sc.Get(row.Axis) {
					t.Errorf("axis %s selected %s", row.Axis, o.Code)
				}
			}
		}
		if selected != 1 {
			t.Errorf("axis %s has %d selected options", row.Axis, selected)
		}
	}
	if rows[0].Title != "Geburtenhäufigkeit" || rows[0].Options[2].Level != "hoch" {
		t.Errorf("row[0] = %+v", rows[0])
	}
}

func TestMethodologyNote(t *testing.T) {
	note := MethodologyNote(dataset.Metadata{InitPopulation: 100000, SimsPerScenario: 10, ScalingFactor: 831.2}, "1.0")

	body := strings.Join(note.Items, "\n")
	for _, want := range []string{"10 Simulationen", "100,000 Agenten", "Faktor 831.20"} {
		if !strings.Contains(body, want) {
			t.Errorf("note missing %q:\n%s", want, body)
		}
	}
	if note.Footer != "Version 1.0 · Kaleidemoskop © 2025" {
		t.Errorf("Footer = %q", note.Footer)
	}
}
