// Package view combines the per-component derivations into one snapshot of
// everything the dashboard shows for a selection.
package view

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/pyramid"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/kaleidemoskop/demodash/internal/slider"
	"github.com/kaleidemoskop/demodash/internal/statstable"
)

// LoadingCaption is shown before a year has been selected.
const LoadingCaption = "Jahr wird geladen..."

// Option is one button of the scenario selector.
type Option struct {
	Code     string `json:"code"`
	Level    string `json:"level"`
	Selected bool   `json:"selected"`
}

// AxisRow is one row of the scenario selector.
type AxisRow struct {
	Axis    constants.Axis `json:"axis"`
	Title   string         `json:"title"`
	Options []Option       `json:"options"`
}

// Snapshot is the derived view of one selection state.
type Snapshot struct {
	State    selection.State  `json:"state"`
	Caption  string           `json:"caption"`
	Slider   slider.Range     `json:"slider"`
	Pyramid  pyramid.Chart    `json:"pyramid"`
	Table    statstable.Table `json:"table"`
	Selector []AxisRow        `json:"selector"`
}

// Derive builds the snapshot for st. The year is re-resolved against the
// slider domain first, so every component sees the same in-range year.
func Derive(t *dataset.Tables, st selection.State) Snapshot {
	start := t.SimulationStartYear()
	r := slider.Resolve(slider.Input{
		HistoryOn: st.HistoryOn,
		Year:      st.Year,
		HasYear:   true,
		StartYear: start,
	})
	st.Year = r.Year

	code := st.Scenario.Code()
	return Snapshot{
		State:   st,
		Caption: Caption(st.Year, true, start),
		Slider:  r,
		Pyramid: pyramid.Build(t, pyramid.Input{
			Scenario:    code,
			Year:        st.Year,
			BenchmarkOn: st.BenchmarkOn,
			HistoryOn:   st.HistoryOn,
		}),
		Table: statstable.Build(t, statstable.Input{
			Scenario:    code,
			Year:        st.Year,
			BenchmarkOn: st.BenchmarkOn,
			HistoryOn:   st.HistoryOn,
		}),
		Selector: Selector(st.Scenario),
	}
}

// Caption labels the year as historical or simulated.
func Caption(year int, hasYear bool, startYear int) string {
	if !hasYear {
		return LoadingCaption
	}
	if year < startYear {
		return fmt.Sprintf("Jahr: %d (Historisch)", year)
	}
	return fmt.Sprintf("Jahr: %d (Simulation)", year)
}

// Selector lays out the three axis rows with the current choice marked.
func Selector(s selection.Scenario) []AxisRow {
	rows := make([]AxisRow, 0, len(constants.Axes))
	for _, a := range constants.Axes {
		row := AxisRow{Axis: a, Title: a.Title()}
		for i, code := range a.Options() {
			row.Options = append(row.Options, Option{
				Code:     code,
				Level:    constants.LevelTitles[i],
				Selected: s.Get(a) == code,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// Note is the methodology box under the table.
type Note struct {
	Title  string   `json:"title"`
	Items  []string `json:"items"`
	Footer string   `json:"footer"`
}

// MethodologyNote describes how the simulated data was produced.
func MethodologyNote(meta dataset.Metadata, version string) Note {
	p := message.NewPrinter(language.English)
	return Note{
		Title: "Methodologische Anmerkung:",
		Items: []string{
			"27 Szenarien von DESTATIS wurden mit einem agentenbasierten Modell nachsimuliert.",
			fmt.Sprintf("Pro Szenario wurden %d Simulationen mit je %s Agenten durchgeführt.", meta.SimsPerScenario, p.Sprintf("%d", meta.InitPopulation)),
			"Dargestellt sind Durchschnittswerte über die jeweiligen Simulationsläufe.",
			fmt.Sprintf("Absolute Werte wurden zur besseren Vergleichbarkeit um den Faktor %.2f "+
				"auf die Bevölkerungsgröße des Jahres 2021 hochgerechnet und werden in Tausend dargestellt.", meta.ScalingFactor),
		},
		Footer: fmt.Sprintf("Version %s · Kaleidemoskop © 2025", version),
	}
}
