package member

import (
	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
)

// Point is a 3D coordinate of a member end
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Raw is one member row as delivered by the structural analysis, before
// classification. Forces are in kN and kN·m, length in m.
type Raw struct {
	Start  Point   `json:"start" yaml:"start"`
	End    Point   `json:"end" yaml:"end"`
	Length float64 `json:"length" yaml:"length"` // m

	Bending float64 `json:"bending" yaml:"bending"` // kN·m

	AxialStart float64 `json:"axial_start" yaml:"axial_start"` // kN, negative = compression
	AxialEnd   float64 `json:"axial_end" yaml:"axial_end"`

	ShearZStart float64 `json:"shear_z_start" yaml:"shear_z_start"` // kN
	ShearZEnd   float64 `json:"shear_z_end" yaml:"shear_z_end"`
	ShearYStart float64 `json:"shear_y_start" yaml:"shear_y_start"`
	ShearYEnd   float64 `json:"shear_y_end" yaml:"shear_y_end"`
}

// Member is a classified member record ready for sizing. All fields except
// Assignment are fixed once Build returns.
type Member struct {
	ID     int
	Start  Point
	End    Point
	Length float64 // m

	// Demand (kgf·cm, kgf)
	Bending    float64
	Force      force.Kind
	AxialForce float64
	Shear      float64

	// Set by the sizing engine
	Assignment *Assignment
}

// LengthCm returns the member length in centimetres
func (m *Member) LengthCm() float64 {
	return m.Length * mechanics.MToCm
}

// Assignment is the result of matching a member to one stock entry
type Assignment struct {
	MaterialID   int
	CompositeNum int

	// Section of the bundled units (cm)
	Width  float64
	Height float64

	// Utilization ratios
	BendingRatio     float64
	CompressionRatio float64
	ShearRatio       float64
	MaxRatio         float64

	// Composite count before the buckling correction
	DemandCount int

	// Buckling check, compression members only (cm⁴, kgf)
	RequiredInertia float64
	CurrentInertia  float64
	CriticalLoad    float64
}

// Buckled reports whether the buckling correction raised the composite count
func (a *Assignment) Buckled() bool {
	return a.CompositeNum > a.DemandCount
}
