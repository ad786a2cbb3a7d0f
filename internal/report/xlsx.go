package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sizingSheet = "Sizing"
	exportSheet = "Export"
)

// WriteXLSX saves a workbook with a "Sizing" sheet (full ratios) and an
// "Export" sheet (same columns as the CSV export)
func WriteXLSX(path string, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sizingSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(exportSheet); err != nil {
		return err
	}

	header := []interface{}{"Member Index", "Force"}
	for _, h := range SizingHeader {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sizingSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rep.Rows {
		row := []interface{}{
			r.MemberID, r.Force.String(),
			r.CompositeNum, r.MaterialID,
			r.Width, r.Height, r.Length,
			r.MaxRatio, r.BendingRatio, r.CompressionRatio, r.ShearRatio,
		}
		if !r.Sized() {
			row = append(row, r.Err)
		}
		if err := setRow(f, sizingSheet, i+2, row); err != nil {
			return err
		}
	}

	exportHeader := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		exportHeader[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, r := range rep.Export {
		row := []interface{}{
			r.MemberID,
			r.Start.X, r.Start.Y, r.Start.Z,
			r.End.X, r.End.Y, r.End.Z,
			r.CompositeNum, r.MaterialID,
			r.Width, r.Height,
			r.Reference,
		}
		if err := setRow(f, exportSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
