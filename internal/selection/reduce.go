package selection

import (
	"github.com/kaleidemoskop/demodash/internal/slider"
)

// Reduce returns the state after ev. changed is false for no-op events,
// in which case the caller keeps its previous render.
//
// Every transition touching the year or the history flag re-runs the slider
// resolver, so the returned year always lies in the resolved domain.
func Reduce(s State, ev Event, startYear int) (next State, changed bool) {
	next = s
	switch e := ev.(type) {
	case SelectAxis:
		sc, err := s.Scenario.With(e.Axis, e.Code)
		if err != nil {
			return s, false
		}
		next.Scenario = sc

	case SetYear:
		if e.Year == nil {
			return s, false
		}
		next.Year = resolveYear(next, *e.Year, false, startYear)

	case SetBenchmark:
		next.BenchmarkOn = e.On
		next.Year = resolveYear(next, next.Year, false, startYear)

	case SetHistory:
		next.HistoryOn = e.On
		next.Year = resolveYear(next, next.Year, false, startYear)

	case Play:
		next.Playing = true

	case Pause:
		next.Playing = false

	case TimerTick:
		if !s.Playing {
			return s, false
		}
		next.Year = resolveYear(next, next.Year, true, startYear)

	default:
		return s, false
	}
	return next, next != s
}

func resolveYear(s State, year int, tick bool, startYear int) int {
	return slider.Resolve(slider.Input{
		HistoryOn: s.HistoryOn,
		Year:      year,
		HasYear:   true,
		Tick:      tick,
		StartYear: startYear,
	}).Year
}
