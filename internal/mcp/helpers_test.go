package mcp

import (
	"testing"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	var sim []dataset.PyramidRecord
	var simStats []dataset.StatRecord
	for year := 2022; year <= 2024; year++ {
		for age := 0; age <= 100; age++ {
			sim = append(sim,
				dataset.PyramidRecord{Scenario: "G2L1W3", Year: year, Gender: dataset.Male, Age: age, Count: -2},
				dataset.PyramidRecord{Scenario: "G2L1W3", Year: year, Gender: dataset.Female, Age: age, Count: 3},
			)
		}
		simStats = append(simStats, dataset.StatRecord{Scenario: "G2L1W3", Year: year, Metric: dataset.OldQuota, Value: 0.4})
	}
	bench := []dataset.PyramidRecord{
		{Scenario: constants.HistoricalLabel, Year: 1970, Gender: dataset.Female, Age: 5, Count: 9},
	}
	benchStats := []dataset.StatRecord{
		{Scenario: constants.HistoricalLabel, Year: 1970, Metric: dataset.TotalPop, Value: 78000},
	}

	tables, err := dataset.NewTables(dataset.Metadata{InitPopulation: 1000, SimsPerScenario: 2, ScalingFactor: 1}, sim, simStats, bench, benchStats)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}

	server := NewServer(&Config{
		Name:     "test-server",
		Version:  "v1.0.0",
		Tables:   tables,
		AuditDir: t.TempDir(),
	})
	t.Cleanup(func() { server.Close() })
	return server
}
