// Package dataset holds the read-only tables the dashboard derives its views from.
//
// Four tables are loaded once at startup: simulated pyramid counts, simulated
// age-group statistics, and their benchmark counterparts (DESTATIS projections
// plus the "Historical" observed series). A Tables value is immutable after
// construction and safe for concurrent readers.
package dataset

import (
	"fmt"
	"strings"
)

// Gender is the sex of a pyramid bar.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Genders lists the genders in the order series are drawn.
var Genders = []Gender{Male, Female}

// ParseGender maps a CSV value to a Gender.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Metric names one of the nine precomputed age-group statistics.
type Metric string

const (
	ShareOver67  Metric = "share_over_67"
	Share20To66  Metric = "share_20_66"
	ShareUnder20 Metric = "share_under_20"
	TotalOver67  Metric = "total_over_67"
	Total20To66  Metric = "total_20_66"
	TotalUnder20 Metric = "total_under_20"
	OldQuota     Metric = "old_quota"
	YouthQuota   Metric = "youth_quota"
	TotalPop     Metric = "total_pop"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	ShareOver67, Share20To66, ShareUnder20,
	TotalOver67, Total20To66, TotalUnder20,
	OldQuota, YouthQuota,
	TotalPop,
}

// Valid returns true if the metric is a recognized value.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// IsRatio reports whether the metric is a share or quotient rendered as a percentage.
func (m Metric) IsRatio() bool {
	return strings.HasPrefix(string(m), "share_") || m == OldQuota || m == YouthQuota
}

// PyramidRecord is one bar of a population pyramid.
// Count is negative for one gender so the bars extend back to back.
type PyramidRecord struct {
	Scenario string  `json:"scenario_label"`
	Year     int     `json:"simulation_year"`
	Gender   Gender  `json:"gender"`
	Age      int     `json:"age_in_years"`
	Count    float64 `json:"count_signed"`
}

// StatRecord is one age-group statistic for a scenario and year.
type StatRecord struct {
	Scenario string  `json:"scenario_label"`
	Year     int     `json:"simulation_year"`
	Metric   Metric  `json:"metric"`
	Value    float64 `json:"value"`
}

// Metadata describes how the simulated tables were produced.
type Metadata struct {
	InitPopulation  int     `json:"init_population"`
	SimsPerScenario int     `json:"sims_per_scenario"`
	ScalingFactor   float64 `json:"scaling_factor"`
}

// Source selects between the simulated and the benchmark tables.
type Source int

const (
	Simulation Source = iota
	Benchmark
)

// String returns the name stored in the SQLite source column.
func (s Source) String() string {
	if s == Benchmark {
		return "benchmark"
	}
	return "simulation"
}

// ParseSource is the inverse of Source.String.
func ParseSource(s string) (Source, error) {
	switch s {
	case "simulation":
		return Simulation, nil
	case "benchmark":
		return Benchmark, nil
	}
	return 0, fmt.Errorf("unknown source %q", s)
}
