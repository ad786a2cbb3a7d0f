// Package report turns a sizing result into ordered tables and writes them
// as CSV, XLSX or PDF. It performs no engineering computation.
package report

import (
	"fmt"

	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
)

// Row is one line of the sizing report
type Row struct {
	MemberID     int        `json:"member_id"`
	Force        force.Kind `json:"force"`
	CompositeNum int        `json:"composite_num"`
	MaterialID   int        `json:"material_id"`
	Width        float64    `json:"width"`  // cm
	Height       float64    `json:"height"` // cm
	Length       float64    `json:"length"` // cm

	MaxRatio         float64 `json:"max_ratio"`
	BendingRatio     float64 `json:"bending_ratio"`
	CompressionRatio float64 `json:"compression_ratio"`
	ShearRatio       float64 `json:"shear_ratio"`

	// Buckled is set when the buckling check raised the composite count
	Buckled bool `json:"buckled"`
	// Err is non-empty when the member could not be sized
	Err string `json:"error,omitempty"`
}

// Sized reports whether the member received an assignment
func (r Row) Sized() bool {
	return r.Err == ""
}

// ExportRow is one line of the tabular export
type ExportRow struct {
	MemberID     int          `json:"member_id"`
	Start        member.Point `json:"start"`
	End          member.Point `json:"end"`
	CompositeNum int          `json:"composite_num"`
	MaterialID   int          `json:"material_id"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Reference    string       `json:"reference"`
}

// Report holds both tables in original member order
type Report struct {
	Rows   []Row       `json:"rows"`
	Export []ExportRow `json:"export"`
}

// Failed returns the rows of members that could not be sized
func (r *Report) Failed() []Row {
	var out []Row
	for _, row := range r.Rows {
		if !row.Sized() {
			out = append(out, row)
		}
	}
	return out
}

// Assemble builds the report from a sizing result. Members without an
// assignment appear with Err set and zero sizing values.
func Assemble(res *sizing.Result) (*Report, error) {
	failures := make(map[int]string, len(res.Errors))
	for _, e := range res.Errors {
		failures[e.MemberID] = e.Err.Error()
	}

	rep := &Report{
		Rows:   make([]Row, 0, len(res.Members)),
		Export: make([]ExportRow, 0, len(res.Members)),
	}
	for i := range res.Members {
		m := &res.Members[i]
		row := Row{MemberID: m.ID, Force: m.Force, Length: m.LengthCm()}
		exp := ExportRow{MemberID: m.ID, Start: m.Start, End: m.End}

		if a := m.Assignment; a != nil {
			stock, ok := res.Material(a.MaterialID)
			if !ok {
				return nil, fmt.Errorf("report: member %d references unknown material %d", m.ID, a.MaterialID)
			}
			row.CompositeNum = a.CompositeNum
			row.MaterialID = a.MaterialID
			row.Width = a.Width
			row.Height = a.Height
			row.MaxRatio = a.MaxRatio
			row.BendingRatio = a.BendingRatio
			row.CompressionRatio = a.CompressionRatio
			row.ShearRatio = a.ShearRatio
			row.Buckled = a.Buckled()

			exp.CompositeNum = a.CompositeNum
			exp.MaterialID = a.MaterialID
			exp.Width = a.Width
			exp.Height = a.Height
			exp.Reference = stock.Reference
		} else {
			row.Err = failures[m.ID]
			if row.Err == "" {
				row.Err = "not sized"
			}
			row.MaterialID = -1
			exp.MaterialID = -1
		}

		rep.Rows = append(rep.Rows, row)
		rep.Export = append(rep.Export, exp)
	}
	return rep, nil
}

// Labels returns the five annotation lines drawn next to a member section
func Labels(row Row, exp ExportRow) [5]string {
	return [5]string{
		fmt.Sprintf("Member Index: %d", row.MemberID),
		fmt.Sprintf("Number of Composite: %d", row.CompositeNum),
		fmt.Sprintf("From: ( %s, %s, %s)  To: ( %s, %s, %s)",
			mechanics.Format2(exp.Start.X), mechanics.Format2(exp.Start.Y), mechanics.Format2(exp.Start.Z),
			mechanics.Format2(exp.End.X), mechanics.Format2(exp.End.Y), mechanics.Format2(exp.End.Z)),
		fmt.Sprintf("Width: %s cm   Height: %s cm", mechanics.Format2(row.Width), mechanics.Format2(row.Height)),
		fmt.Sprintf("Material Index: %d", row.MaterialID),
	}
}
