package diagram

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
)

// RatioChart plots the governing stress ratio of every sized member in
// report order. It returns an empty string when no member was sized.
func RatioChart(rep *report.Report, height int) string {
	ratios := make([]float64, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		if r.Sized() {
			ratios = append(ratios, r.MaxRatio)
		}
	}
	if len(ratios) == 0 {
		return ""
	}
	if height <= 0 {
		height = 10
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("max stress ratio per member (%d sized)", len(ratios))),
	}
	// asciigraph needs at least two points to draw a line
	if len(ratios) == 1 {
		ratios = append(ratios, ratios[0])
	}
	return asciigraph.Plot(ratios, opts...)
}
