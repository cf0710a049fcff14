package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Files names the dataset files inside a data directory.
type Files struct {
	SimPyramid   string `json:"sim_pyramid" yaml:"sim_pyramid"`
	SimStats     string `json:"sim_stats" yaml:"sim_stats"`
	BenchPyramid string `json:"bench_pyramid" yaml:"bench_pyramid"`
	BenchStats   string `json:"bench_stats" yaml:"bench_stats"`
	Metadata     string `json:"metadata" yaml:"metadata"`
}

// DefaultFiles returns the file names the simulation pipeline writes.
func DefaultFiles() Files {
	return Files{
		SimPyramid:   "pyramid_agg.csv",
		SimStats:     "agestats_agg.csv",
		BenchPyramid: "pyramid_destatis.csv",
		BenchStats:   "agestats_destatis.csv",
		Metadata:     "simulations_meta.json",
	}
}

// Paths resolves the file names against dir, in load order.
func (f Files) Paths(dir string) []string {
	return []string{
		filepath.Join(dir, f.SimPyramid),
		filepath.Join(dir, f.SimStats),
		filepath.Join(dir, f.BenchPyramid),
		filepath.Join(dir, f.BenchStats),
		filepath.Join(dir, f.Metadata),
	}
}

// MissingFilesError lists every dataset file absent at startup.
type MissingFilesError struct {
	Paths []string
}

func (e *MissingFilesError) Error() string {
	return "missing dataset files:\n - " + strings.Join(e.Paths, "\n - ")
}

// ParseError locates a malformed row.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadDir reads the four CSV tables and the metadata JSON from dir.
// All files are checked before any is parsed so the error names every missing one.
func LoadDir(dir string, files Files) (*Tables, error) {
	paths := files.Paths(dir)

	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, p)
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFilesError{Paths: missing}
	}

	simPyramid, err := readPyramidFile(paths[0])
	if err != nil {
		return nil, err
	}
	simStats, err := readStatsFile(paths[1])
	if err != nil {
		return nil, err
	}
	benchPyramid, err := readPyramidFile(paths[2])
	if err != nil {
		return nil, err
	}
	benchStats, err := readStatsFile(paths[3])
	if err != nil {
		return nil, err
	}
	meta, err := ReadMetadataFile(paths[4])
	if err != nil {
		return nil, err
	}

	return NewTables(meta, simPyramid, simStats, benchPyramid, benchStats)
}

// ReadMetadataFile decodes the simulations metadata JSON.
func ReadMetadataFile(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata %s: %w", path, err)
	}
	return meta, nil
}

func readPyramidFile(path string) ([]PyramidRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadPyramidCSV(path, f)
}

func readStatsFile(path string) ([]StatRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadStatsCSV(path, f)
}

// ReadPyramidCSV parses a pyramid table. Columns are located by header name,
// extra columns are ignored. name is only used in error messages.
func ReadPyramidCSV(name string, r io.Reader) ([]PyramidRecord, error) {
	rows, cols, err := readTable(name, r, "scenario_label", "simulation_year", "gender", "age_in_years", "count_signed")
	if err != nil {
		return nil, err
	}

	records := make([]PyramidRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		year, err := parseInt(row[cols["simulation_year"]])
		if err != nil {
			return nil, &ParseError{name, line, fmt.Errorf("simulation_year: %w", err)}
		}
		gender, err := ParseGender(row[cols["gender"]])
		if err != nil {
			return nil, &ParseError{name, line, err}
		}
		age, err := parseInt(row[cols["age_in_years"]])
		if err != nil {
			return nil, &ParseError{name, line, fmt.Errorf("age_in_years: %w", err)}
		}
		count, err := parseFloat(row[cols["count_signed"]])
		if err != nil {
			return nil, &ParseError{name, line, fmt.Errorf("count_signed: %w", err)}
		}
		records = append(records, PyramidRecord{
			Scenario: row[cols["scenario_label"]],
			Year:     year,
			Gender:   gender,
			Age:      age,
			Count:    count,
		})
	}
	return records, nil
}

// ReadStatsCSV parses an age-statistics table. Empty values become NaN.
func ReadStatsCSV(name string, r io.Reader) ([]StatRecord, error) {
	rows, cols, err := readTable(name, r, "scenario_label", "simulation_year", "metric", "value")
	if err != nil {
		return nil, err
	}

	records := make([]StatRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		year, err := parseInt(row[cols["simulation_year"]])
		if err != nil {
			return nil, &ParseError{name, line, fmt.Errorf("simulation_year: %w", err)}
		}
		metric := Metric(strings.TrimSpace(row[cols["metric"]]))
		if !metric.Valid() {
			return nil, &ParseError{name, line, fmt.Errorf("unknown metric %q", metric)}
		}
		value, err := parseFloat(row[cols["value"]])
		if err != nil {
			return nil, &ParseError{name, line, fmt.Errorf("value: %w", err)}
		}
		records = append(records, StatRecord{
			Scenario: row[cols["scenario_label"]],
			Year:     year,
			Metric:   metric,
			Value:    value,
		})
	}
	return records, nil
}

// readTable returns the data rows and the index of every required column.
func readTable(name string, r io.Reader, required ...string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, &ParseError{name, 1, errors.New("empty file")}
		}
		return nil, nil, &ParseError{name, 1, err}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, nil, &ParseError{name, 1, fmt.Errorf("missing column %q", c)}
		}
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{name, line, err}
		}
		if len(row) < len(header) {
			return nil, nil, &ParseError{name, line, fmt.Errorf("expected %d fields, got %d", len(header), len(row))}
		}
		rows = append(rows, row)
	}
	return rows, cols, nil
}

// parseInt accepts integral floats such as "2022.0", which pandas writes for nullable columns.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
