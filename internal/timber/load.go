package timber

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFile reads catalog rows from a .csv or .xlsx file
func LoadFile(path string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV reads a header row followed by
// reference_id, modulus_of_rupture, modulus_of_elasticity, shear_strength, compression_strength
func LoadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	return fromTable(records)
}

// LoadXLSX reads the first sheet of a workbook laid out like the CSV form
func LoadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return fromTable(rows)
}

func fromTable(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedCatalog)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("%w: row %d: want 5 fields, got %d", ErrMalformedCatalog, i, len(rec))
		}
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %d: %v", ErrMalformedCatalog, i, j+1, err)
			}
			vals[j] = v
		}
		rows = append(rows, Row{
			Reference:           strings.TrimSpace(rec[0]),
			MOR:                 vals[0],
			MOE:                 vals[1],
			ShearStrength:       vals[2],
			CompressionStrength: vals[3],
		})
	}
	return rows, nil
}
