package statstable

import (
	"fmt"
	"math"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format renders a metric value for display. Shares and quotients become a
// percentage with two decimals, counts an integer with thousands separators.
// NaN (missing) renders as the placeholder.
func Format(metric dataset.Metric, value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return constants.Placeholder
	}
	if metric.IsRatio() {
		return fmt.Sprintf("%.2f %%", value*100)
	}
	return FormatCount(value)
}

// FormatCount rounds half to even and groups thousands with commas.
func FormatCount(value float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", int64(math.RoundToEven(value)))
}
