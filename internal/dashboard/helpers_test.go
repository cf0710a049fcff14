package dashboard

import (
	"testing"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/selection"
)

const testStartYear = 2022

// setupTestTables builds a small G1L1W1 dataset for 2022..2025 with
// benchmark statistics for 2025 and a Historical year 1960.
func setupTestTables(t *testing.T) *dataset.Tables {
	t.Helper()

	var sim []dataset.PyramidRecord
	var simStats []dataset.StatRecord
	for year := testStartYear; year <= 2025; year++ {
		for age := 0; age <= 100; age++ {
			sim = append(sim,
				dataset.PyramidRecord{Scenario: "G1L1W1", Year: year, Gender: dataset.Male, Age: age, Count: -float64(100 - age)},
				dataset.PyramidRecord{Scenario: "G1L1W1", Year: year, Gender: dataset.Female, Age: age, Count: float64(100 - age)},
			)
		}
		simStats = append(simStats,
			dataset.StatRecord{Scenario: "G1L1W1", Year: year, Metric: dataset.ShareOver67, Value: 0.2345},
			dataset.StatRecord{Scenario: "G1L1W1", Year: year, Metric: dataset.TotalPop, Value: 1234567.4},
		)
	}

	bench := []dataset.PyramidRecord{
		{Scenario: constants.HistoricalLabel, Year: 1960, Gender: dataset.Male, Age: 30, Count: -50},
		{Scenario: constants.HistoricalLabel, Year: 1960, Gender: dataset.Female, Age: 30, Count: 52},
	}
	benchStats := []dataset.StatRecord{
		{Scenario: "G1L1W1", Year: 2025, Metric: dataset.TotalPop, Value: 1200000},
		{Scenario: constants.HistoricalLabel, Year: 1960, Metric: dataset.TotalPop, Value: 73000},
	}

	meta := dataset.Metadata{InitPopulation: 100000, SimsPerScenario: 10, ScalingFactor: 831.2}
	tables, err := dataset.NewTables(meta, sim, simStats, bench, benchStats)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tables
}

func newTestStore() *selection.Store {
	return selection.NewStore(selection.Default(testStartYear), testStartYear)
}
