package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"sync"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/kaleidemoskop/demodash/internal/view"
)

// Title is the page heading.
const Title = "Interaktives Bevölkerungs-Dashboard"

var parseTemplates = sync.OnceValues(func() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.tmpl")
})

// legendEntry is one swatch under the pyramid image.
type legendEntry struct {
	Label   string
	Color   string
	Opacity float64
}

// pageData holds data passed to the HTML templates.
type pageData struct {
	Title      string
	View       view.Snapshot
	Note       view.Note
	Levels     []string
	Legend     []legendEntry
	ImageURL   string
	TickMillis int64
}

func newPageData(snap view.Snapshot, note view.Note, tickMillis int64) pageData {
	return pageData{
		Title:      Title,
		View:       snap,
		Note:       note,
		Levels:     constants.LevelTitles,
		Legend:     legend(snap),
		ImageURL:   ImageURL(snap.State),
		TickMillis: tickMillis,
	}
}

// legend lists the series that carry a legend entry, empty ones included
// so the legend does not jump when a year has no simulated data.
func legend(snap view.Snapshot) []legendEntry {
	var out []legendEntry
	for _, s := range snap.Pyramid.Series {
		if !s.ShowInLegend {
			continue
		}
		out = append(out, legendEntry{Label: s.LegendLabel, Color: s.Color, Opacity: s.Opacity})
	}
	return out
}

// ImageURL addresses the rendered pyramid of st. Encoding the state in the
// query lets the browser cache each frame.
func ImageURL(st selection.State) string {
	q := url.Values{}
	q.Set("scenario", st.Scenario.Code())
	q.Set("year", strconv.Itoa(st.Year))
	q.Set("benchmark", strconv.FormatBool(st.BenchmarkOn))
	q.Set("history", strconv.FormatBool(st.HistoryOn))
	return "/pyramid.png?" + q.Encode()
}

// RenderPage produces the full dashboard HTML.
func RenderPage(snap view.Snapshot, note view.Note, tickMillis int64) ([]byte, error) {
	return execute("index.html.tmpl", newPageData(snap, note, tickMillis))
}

// RenderView produces the #view fragment swapped in after each event.
func RenderView(snap view.Snapshot) ([]byte, error) {
	return execute("view", newPageData(snap, view.Note{}, 0))
}

func execute(name string, data pageData) ([]byte, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse HTML templates: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
