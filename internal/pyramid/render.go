package pyramid

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// barHalfHeight is half a bar's thickness in age units.
const barHalfHeight = 0.4

// Render draws c in the given format. Series are painted in order so later
// layers overlay earlier ones.
func Render(c Chart, format Format, w io.Writer) error {
	var provider chart.RendererProvider
	switch format {
	case FormatPNG, "":
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported image format %q (use png or svg)", format)
	}

	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		series = append(series, barSeries{
			name:   s.LegendLabel,
			color:  fillColor(s.Color, s.Opacity),
			ages:   s.Ages,
			values: s.Values,
		})
	}

	ch := chart.Chart{
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  c.XTitle,
			Range: &chart.ContinuousRange{Min: c.XRange[0], Max: c.XRange[1]},
			Ticks: chartTicks(c.XTicks, c.XRange),
		},
		YAxis: chart.YAxis{
			Name:  c.YTitle,
			Range: &chart.ContinuousRange{Min: c.YRange[0], Max: c.YRange[1]},
			Ticks: chartTicks(c.YTicks, c.YRange),
		},
		Series: series,
	}

	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render pyramid: %w", err)
	}
	return nil
}

// chartTicks converts ticks and pads them with unlabelled ticks at the range
// bounds. go-chart replaces an axis range with the span of its explicit ticks,
// so the outermost ticks must sit on the bounds.
func chartTicks(ticks []Tick, bounds [2]float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > bounds[0] {
		out = append(out, chart.Tick{Value: bounds[0]})
	}
	for _, t := range ticks {
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < bounds[1] {
		out = append(out, chart.Tick{Value: bounds[1]})
	}
	return out
}

// fillColor parses "#RRGGBB" and applies opacity as alpha.
func fillColor(hex string, opacity float64) drawing.Color {
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return c.WithAlpha(uint8(math.Round(opacity * 255)))
}

func formatAbs(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
}

// barSeries draws horizontal bars from the zero line to each signed value.
type barSeries struct {
	name   string
	color  drawing.Color
	ages   []int
	values []float64
}

func (b barSeries) GetName() string { return b.name }

func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (b barSeries) GetStyle() chart.Style {
	return chart.Style{FillColor: b.color, StrokeWidth: 0}
}

func (b barSeries) Validate() error {
	if len(b.ages) != len(b.values) {
		return fmt.Errorf("series %q: %d ages but %d values", b.name, len(b.ages), len(b.values))
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if len(b.ages) == 0 {
		return
	}
	zero := canvasBox.Left + xrange.Translate(0)

	r.SetFillColor(b.color)
	for i, age := range b.ages {
		x := canvasBox.Left + xrange.Translate(b.values[i])
		top := canvasBox.Bottom - yrange.Translate(float64(age)+barHalfHeight)
		bottom := canvasBox.Bottom - yrange.Translate(float64(age)-barHalfHeight)
		left, right := zero, x
		if x < zero {
			left, right = x, zero
		}
		if right == left {
			continue
		}

		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.Fill()
	}
}
