// Package slider resolves the year selector: its valid domain, the decade
// marks, and the selected year after clamping or an auto-advance tick.
package slider

import (
	"strconv"

	"github.com/kaleidemoskop/demodash/internal/constants"
)

// Mark is a labelled slider tick.
type Mark struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Range is the resolved slider. Min <= Year <= Max always holds.
type Range struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Marks []Mark `json:"marks"`
	Year  int    `json:"year"`
}

// Input carries what the resolver needs from the selection.
type Input struct {
	HistoryOn bool
	// Year is the current selection; HasYear is false when none was made yet.
	Year    int
	HasYear bool
	// Tick is true when the resolver runs because of a timer tick while playing.
	Tick bool
	// StartYear is the first simulated year.
	StartYear int
}

// Domain returns the valid year bounds for the history flag.
func Domain(historyOn bool, startYear int) (min, max int) {
	min, max = startYear, constants.ProjectionEndYear
	if historyOn {
		min = constants.HistoryStartYear
	}
	if min > max {
		max = min
	}
	return min, max
}

// Marks returns a mark for every year in [min, max] divisible by constants.MarkStep.
func Marks(min, max int) []Mark {
	marks := make([]Mark, 0, (max-min)/constants.MarkStep+1)
	for y := min; y <= max; y++ {
		if y%constants.MarkStep == 0 {
			marks = append(marks, Mark{Value: y, Label: strconv.Itoa(y)})
		}
	}
	return marks
}

// Clamp bounds year to [min, max].
func Clamp(year, min, max int) int {
	if year < min {
		return min
	}
	if year > max {
		return max
	}
	return year
}

// Advance steps year to the next year of the domain, wrapping to min past max.
// A year outside the domain resets to min.
func Advance(year, min, max int) int {
	if year < min || year > max {
		return min
	}
	idx := year - min
	n := max - min + 1
	return min + (idx+1)%n
}

// Resolve derives the slider for the given input.
func Resolve(in Input) Range {
	min, max := Domain(in.HistoryOn, in.StartYear)

	year := min
	if in.HasYear {
		year = Clamp(in.Year, min, max)
	}
	if in.Tick {
		year = Advance(year, min, max)
	}

	return Range{
		Min:   min,
		Max:   max,
		Marks: Marks(min, max),
		Year:  year,
	}
}
