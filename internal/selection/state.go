// Package selection holds the dashboard's current selection and the single
// reducer through which every control event changes it.
package selection

import (
	"fmt"

	"github.com/kaleidemoskop/demodash/internal/constants"
)

// Scenario is one choice per axis, e.g. G1 L1 W1.
type Scenario struct {
	Fertility      string
	LifeExpectancy string
	Migration      string
}

// DefaultScenario picks the first option of every axis.
func DefaultScenario() Scenario {
	return Scenario{
		Fertility:      constants.AxisFertility.Options()[0],
		LifeExpectancy: constants.AxisLifeExpectancy.Options()[0],
		Migration:      constants.AxisMigration.Options()[0],
	}
}

// ParseScenario splits a six-character code such as "G1L1W1".
func ParseScenario(code string) (Scenario, error) {
	if len(code) != 6 {
		return Scenario{}, fmt.Errorf("invalid scenario code %q", code)
	}
	s := Scenario{Fertility: code[0:2], LifeExpectancy: code[2:4], Migration: code[4:6]}
	for _, a := range constants.Axes {
		if !a.ValidOption(s.Get(a)) {
			return Scenario{}, fmt.Errorf("invalid scenario code %q: bad %s option %q", code, a, s.Get(a))
		}
	}
	return s, nil
}

// Code concatenates the three axis codes.
func (s Scenario) Code() string {
	return s.Fertility + s.LifeExpectancy + s.Migration
}

func (s Scenario) String() string { return s.Code() }

// Get returns the chosen option of axis a.
func (s Scenario) Get(a constants.Axis) string {
	switch a {
	case constants.AxisFertility:
		return s.Fertility
	case constants.AxisLifeExpectancy:
		return s.LifeExpectancy
	case constants.AxisMigration:
		return s.Migration
	}
	return ""
}

// With returns s with axis a set to code.
func (s Scenario) With(a constants.Axis, code string) (Scenario, error) {
	if !a.ValidOption(code) {
		return s, fmt.Errorf("invalid option %q for axis %q", code, a)
	}
	switch a {
	case constants.AxisFertility:
		s.Fertility = code
	case constants.AxisLifeExpectancy:
		s.LifeExpectancy = code
	case constants.AxisMigration:
		s.Migration = code
	}
	return s, nil
}

// MarshalText encodes the scenario as its code.
func (s Scenario) MarshalText() ([]byte, error) {
	return []byte(s.Code()), nil
}

// UnmarshalText parses a scenario code.
func (s *Scenario) UnmarshalText(b []byte) error {
	parsed, err := ParseScenario(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// State is a snapshot of the selection.
type State struct {
	Scenario    Scenario `json:"scenario"`
	Year        int      `json:"year"`
	BenchmarkOn bool     `json:"benchmark_on"`
	HistoryOn   bool     `json:"history_on"`
	Playing     bool     `json:"playing"`
}

// Default returns the initial selection: first option per axis, the
// earliest year of the history-off domain, overlays off, paused.
func Default(startYear int) State {
	return State{
		Scenario: DefaultScenario(),
		Year:     startYear,
	}
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Scenario    *Scenario
	Year        *int
	BenchmarkOn *bool
	HistoryOn   *bool
	Playing     *bool
}

// Merge applies p to s field by field.
func (s State) Merge(p Patch) State {
	if p.Scenario != nil {
		s.Scenario = *p.Scenario
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
	if p.BenchmarkOn != nil {
		s.BenchmarkOn = *p.BenchmarkOn
	}
	if p.HistoryOn != nil {
		s.HistoryOn = *p.HistoryOn
	}
	if p.Playing != nil {
		s.Playing = *p.Playing
	}
	return s
}
