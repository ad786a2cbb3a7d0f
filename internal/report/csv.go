package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
)

// ExportHeader is the header row of the tabular export
var ExportHeader = []string{
	"Member Index",
	"startPt.X", "startPt.Y", "startPt.Z",
	"endPt.X", "endPt.Y", "endPt.Z",
	"Number of Composite",
	"Material ID",
	"Beam Width",
	"Beam Height",
	"Timber Image",
}

// SizingHeader is the header row of the sizing report
var SizingHeader = []string{
	"compositeNum", "materialID", "width", "height", "length",
	"maxRatio", "bendingRatio", "compressionRatio", "shearRatio",
}

// WriteCSV writes the tabular export, numbers rounded to two decimals
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.MemberID),
			mechanics.Format2(r.Start.X), mechanics.Format2(r.Start.Y), mechanics.Format2(r.Start.Z),
			mechanics.Format2(r.End.X), mechanics.Format2(r.End.Y), mechanics.Format2(r.End.Z),
			strconv.Itoa(r.CompositeNum),
			strconv.Itoa(r.MaterialID),
			mechanics.Format2(r.Width),
			mechanics.Format2(r.Height),
			r.Reference,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSizingCSV writes the sizing report, one row per member
func WriteSizingCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SizingHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.CompositeNum),
			strconv.Itoa(r.MaterialID),
			formatFull(r.Width),
			formatFull(r.Height),
			formatFull(r.Length),
			formatFull(r.MaxRatio),
			formatFull(r.BendingRatio),
			formatFull(r.CompressionRatio),
			formatFull(r.ShearRatio),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the tabular export to path, creating its directory
func SaveCSV(path string, rows []ExportRow) error {
	return save(path, func(w io.Writer) error { return WriteCSV(w, rows) })
}

// SaveSizingCSV writes the sizing report to path, creating its directory
func SaveSizingCSV(path string, rows []Row) error {
	return save(path, func(w io.Writer) error { return WriteSizingCSV(w, rows) })
}

func save(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFull(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
