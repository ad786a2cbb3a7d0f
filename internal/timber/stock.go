package timber

import (
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
)

// Row is one catalog entry as read from the strength-prediction output.
// Strengths are in kgf/cm².
type Row struct {
	Reference           string  `json:"reference" yaml:"reference"`
	MOR                 float64 `json:"mor" yaml:"mor"`
	MOE                 float64 `json:"moe" yaml:"moe"`
	ShearStrength       float64 `json:"shear" yaml:"shear"`
	CompressionStrength float64 `json:"compression" yaml:"compression"`
}

// Stock is a catalog entry with its assigned cross-section and capacities
type Stock struct {
	ID        int
	Reference string

	// Strength properties (kgf/cm²)
	MOR                 float64 // modulus of rupture
	MOE                 float64 // modulus of elasticity
	ShearStrength       float64
	CompressionStrength float64

	// Cross-section (cm)
	NominalSize Size
	Width       float64
	Height      float64

	// Single-unit capacities (kgf·cm, kgf)
	MaxBending     float64
	MaxCompression float64
	MaxShear       float64
}

// NewStock assigns size to row and computes its capacities
func NewStock(id int, row Row, size Size) (Stock, error) {
	w, h, err := size.Dimensions()
	if err != nil {
		return Stock{}, err
	}
	s := Stock{
		ID:                  id,
		Reference:           row.Reference,
		MOR:                 row.MOR,
		MOE:                 row.MOE,
		ShearStrength:       row.ShearStrength,
		CompressionStrength: row.CompressionStrength,
		NominalSize:         size,
		Width:               w,
		Height:              h,
	}

	sectionModulus := mechanics.SectionModulus(w, h)
	area := mechanics.Area(w, h)
	s.MaxBending = s.MOR * sectionModulus
	s.MaxCompression = s.CompressionStrength * area
	// rectangular section: τmax = 3V/2A
	s.MaxShear = (s.ShearStrength * area * 2) / 3
	return s, nil
}
