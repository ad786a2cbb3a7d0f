package member

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Columns is the header of a member table, in the default order.
var Columns = []string{
	"start_x", "start_y", "start_z",
	"end_x", "end_y", "end_z",
	"length",
	"bending",
	"axial_start", "axial_end",
	"shear_z_start", "shear_z_end",
	"shear_y_start", "shear_y_end",
}

// LoadFile reads member rows from a .csv, .xlsx, .yaml, .yml or .json file
func LoadFile(path string) ([]Raw, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".yaml", ".yml", ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadYAML(f)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return LoadCSV(f)
	}
}

// LoadCSV reads a header row naming the member columns (any order) followed
// by one row per member.
func LoadCSV(r io.Reader) ([]Raw, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return fromTable(records)
}

// LoadXLSX reads the first sheet of a workbook laid out like the CSV form
func LoadXLSX(path string) ([]Raw, error) {
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

// LoadYAML reads a YAML (or JSON) sequence of members
func LoadYAML(r io.Reader) ([]Raw, error) {
	var rows []Raw
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty member file", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return rows, nil
}

func fromTable(records [][]string) ([]Raw, error) {
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedInput)
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, c)
		}
	}

	rows := make([]Raw, 0, len(records)-1)
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		vals := make(map[string]float64, len(Columns))
		for _, c := range Columns {
			i := index[c]
			if i >= len(rec) {
				return nil, fmt.Errorf("%w: row %d: missing %s", ErrMalformedInput, n, c)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %s: %v", ErrMalformedInput, n, c, err)
			}
			vals[c] = v
		}
		rows = append(rows, Raw{
			Start:       Point{X: vals["start_x"], Y: vals["start_y"], Z: vals["start_z"]},
			End:         Point{X: vals["end_x"], Y: vals["end_y"], Z: vals["end_z"]},
			Length:      vals["length"],
			Bending:     vals["bending"],
			AxialStart:  vals["axial_start"],
			AxialEnd:    vals["axial_end"],
			ShearZStart: vals["shear_z_start"],
			ShearZEnd:   vals["shear_z_end"],
			ShearYStart: vals["shear_y_start"],
			ShearYEnd:   vals["shear_y_end"],
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
