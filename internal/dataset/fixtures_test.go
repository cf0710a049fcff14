package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFixtureDir writes a small but complete dataset directory:
// scenario G1L1W1 for 2022..2023 (ages 0..101 so the age filter is exercised),
// benchmark rows for G1L1W1/2022 (one with an empty count) and a Historical year 1960.
func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var pyr strings.Builder
	pyr.WriteString("scenario_label,simulation_year,gender,age_in_years,count_signed\n")
	for _, year := range []int{2022, 2023} {
		for age := 0; age <= 101; age++ {
			fmt.Fprintf(&pyr, "G1L1W1,%d,male,%d,%d\n", year, age, -(age + 1))
			fmt.Fprintf(&pyr, "G1L1W1,%d,female,%d,%d\n", year, age, age+1)
		}
	}
	writeFile(t, dir, "pyramid_agg.csv", pyr.String())

	writeFile(t, dir, "agestats_agg.csv", "scenario_label,simulation_year,metric,value\n"+
		"G1L1W1,2022,share_over_67,0.2345\n"+
		"G1L1W1,2022,total_pop,1234567.4\n"+
		"G1L1W1,2023,total_pop,\n")

	writeFile(t, dir, "pyramid_destatis.csv", "scenario_label,simulation_year,gender,age_in_years,count_signed\n"+
		"G1L1W1,2022,male,0,-5\n"+
		"G1L1W1,2022,female,0,\n"+
		"Historical,1960,female,0,7\n")

	writeFile(t, dir, "agestats_destatis.csv", "scenario_label,simulation_year,metric,value\n"+
		"Historical,1960,total_pop,73000000\n"+
		"G1L1W1,2022,old_quota,0.5\n")

	writeFile(t, dir, "simulations_meta.json", `{"init_population": 100000, "sims_per_scenario": 10, "scaling_factor": 831.2}`)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
