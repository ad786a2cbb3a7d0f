package diagram

import (
	"fmt"
	"strings"

	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
)

// SectionDiagramData holds data for drawing one composite member section
type SectionDiagramData struct {
	MemberID int

	// Bundle dimensions (cm)
	Width     float64
	Height    float64
	UnitWidth float64
	Composite int

	MaxRatio float64
	Buckled  bool

	// Annotation lines, see report.Labels
	Labels [5]string
}

// FromReport builds one SectionDiagramData per sized member, in report order
func FromReport(rep *report.Report) []SectionDiagramData {
	out := make([]SectionDiagramData, 0, len(rep.Rows))
	for i, row := range rep.Rows {
		if !row.Sized() {
			continue
		}
		unit := row.Width
		if row.CompositeNum > 0 {
			unit = row.Width / float64(row.CompositeNum)
		}
		out = append(out, SectionDiagramData{
			MemberID:  row.MemberID,
			Width:     row.Width,
			Height:    row.Height,
			UnitWidth: unit,
			Composite: row.CompositeNum,
			MaxRatio:  row.MaxRatio,
			Buckled:   row.Buckled,
			Labels:    report.Labels(row, rep.Export[i]),
		})
	}
	return out
}

// DrawASCIISection draws the bundled units of a member side by side, scaled
// so one character column is about 1 cm
func DrawASCIISection(data SectionDiagramData) string {
	var sb strings.Builder

	unitChars := max(int(data.UnitWidth+0.5), 3)
	heightChars := max(int(data.Height/4+0.5), 3)
	composite := max(data.Composite, 1)

	// Cap very wide bundles so the drawing stays on screen
	shown := composite
	if shown > 12 {
		shown = 12
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  MEMBER %d  ─  %d × %.1f cm = %.1f cm wide, %.1f cm high\n",
		data.MemberID, composite, data.UnitWidth, data.Width, data.Height))
	sb.WriteString("  " + strings.Repeat("─", 50) + "\n")

	for i := 0; i <= heightChars+1; i++ {
		sb.WriteString("  ")
		for u := 0; u < shown; u++ {
			switch {
			case i == 0:
				sb.WriteString(corner(u, "┌", "┬") + strings.Repeat("─", unitChars))
			case i == heightChars+1:
				sb.WriteString(corner(u, "└", "┴") + strings.Repeat("─", unitChars))
			default:
				sb.WriteString("│" + strings.Repeat("░", unitChars))
			}
		}
		switch {
		case i == 0:
			sb.WriteString("┐")
		case i == heightChars+1:
			sb.WriteString("┘")
		default:
			sb.WriteString("│")
		}
		if i == heightChars/2+1 && shown < composite {
			sb.WriteString(fmt.Sprintf(" … +%d", composite-shown))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, line := range data.Labels {
		if line != "" {
			sb.WriteString("  " + line + "\n")
		}
	}
	status := "OK"
	if data.MaxRatio > 1 {
		status = "OVERSTRESSED"
	}
	sb.WriteString(fmt.Sprintf("  Max ratio: %.2f (%s)", data.MaxRatio, status))
	if data.Buckled {
		sb.WriteString("  [buckling governs count]")
	}
	sb.WriteString("\n")

	return sb.String()
}

func corner(u int, first, inner string) string {
	if u == 0 {
		return first
	}
	return inner
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
