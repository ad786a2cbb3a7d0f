package diagram

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Spacing between layout cells, in plot units (metres)
const cellSpacing = 5.0

// Label offsets below the section, one per annotation line
var labelOffsets = [5]float64{0.5, 1.0, 1.5, 2.0, 2.5}

// ErrNoSections is returned when there is nothing to draw
var ErrNoSections = errors.New("diagram: no sized sections")

var (
	unitFill   = color.RGBA{R: 222, G: 184, B: 135, A: 200}
	unitEdge   = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	overFill   = color.RGBA{R: 240, G: 128, B: 128, A: 200}
	bundleEdge = color.Black
)

// CellOrigin returns the grid origin of the i-th section when laid out in
// rows of the given number of columns
func CellOrigin(i, columns int) (x, y float64) {
	if columns <= 0 {
		columns = 1
	}
	return float64(i%columns) * cellSpacing, -float64(i/columns) * cellSpacing
}

// ExportLayout draws every section on a grid and saves it to filename. The
// image format follows the extension (.png, .svg, .pdf); anything else gets
// ".png" appended.
func ExportLayout(sections []SectionDiagramData, columns int, filename string) error {
	if len(sections) == 0 {
		return ErrNoSections
	}

	p := plot.New()
	p.Title.Text = "Composite Member Sections"
	p.X.Label.Text = "Layout X (m)"
	p.Y.Label.Text = "Layout Y (m)"

	for i, data := range sections {
		ox, oy := CellOrigin(i, columns)
		if err := addSection(p, data, ox, oy); err != nil {
			return fmt.Errorf("diagram: member %d: %w", data.MemberID, err)
		}
	}

	// Determine file format from extension
	ext := filepath.Ext(filename)
	rows := (len(sections) + max(columns, 1) - 1) / max(columns, 1)
	width := vg.Length(max(min(columns, len(sections)), 1)) * 3 * vg.Inch
	height := vg.Length(rows) * 3 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch ext {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// addSection draws one bundle with its origin at the bottom-left corner.
// Section dimensions are in cm and drawn at 1/100 scale.
func addSection(p *plot.Plot, data SectionDiagramData, ox, oy float64) error {
	unitW := data.UnitWidth / 100
	h := data.Height / 100
	n := max(data.Composite, 1)

	fill := unitFill
	if data.MaxRatio > 1 {
		fill = overFill
	}

	for u := 0; u < n; u++ {
		x0 := ox + float64(u)*unitW
		unit, err := plotter.NewPolygon(rect(x0, oy, unitW, h))
		if err != nil {
			return err
		}
		unit.Color = fill
		unit.LineStyle.Color = unitEdge
		unit.LineStyle.Width = vg.Points(0.5)
		p.Add(unit)
	}

	outline := rect(ox, oy, unitW*float64(n), h)
	outline = append(outline, outline[0])
	edge, err := plotter.NewLine(outline)
	if err != nil {
		return err
	}
	edge.LineStyle.Width = vg.Points(1.5)
	edge.LineStyle.Color = bundleEdge
	p.Add(edge)

	xys := make([]plotter.XY, 0, len(data.Labels))
	texts := make([]string, 0, len(data.Labels))
	for i, text := range data.Labels {
		if text == "" {
			continue
		}
		xys = append(xys, plotter.XY{X: ox, Y: oy - labelOffsets[i]})
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

func rect(x, y, w, h float64) plotter.XYs {
	return plotter.XYs{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}
