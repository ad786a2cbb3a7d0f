package mechanics

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unit conversions from analysis-tool output (SI) to the gravitational
// units used by the timber catalog (kgf, cm).
const (
	// KNmToKgfCm converts a bending moment from kN·m to kgf·cm
	KNmToKgfCm = 10197.16

	// KNToKgf converts a force from kN to kgf
	KNToKgf = 101.9716

	// MToCm converts a length from m to cm
	MToCm = 100.0
)

// SectionModulus returns the elastic section modulus of a rectangle
// S = b·h²/6
func SectionModulus(width, height float64) float64 {
	return (width * height * height) / 6
}

// Area returns the gross area of a rectangle
func Area(width, height float64) float64 {
	return width * height
}

// CompositeInertia returns the second moment of area of n units of
// width×height placed side by side, about the axis parallel to the height.
// I = h·(b·n)³/12
func CompositeInertia(width, height float64, n int) float64 {
	return (height * math.Pow(width*float64(n), 3)) / 12
}

// RequiredInertia rearranges Euler's critical load for the second moment of
// area needed so that Pcr equals the applied axial force.
// I = P·L²/(π²·E)
func RequiredInertia(axialForce, lengthCm, moe float64) float64 {
	return axialForce * math.Pow(lengthCm, 2) / (math.Pow(math.Pi, 2) * moe)
}

// EulerLoad returns the critical buckling load of a pinned column
// Pcr = π²·E·I/L²
func EulerLoad(moe, inertia, lengthCm float64) float64 {
	return (math.Pow(math.Pi, 2) * moe * inertia) / math.Pow(lengthCm, 2)
}

// RequiredWidth solves I = h·b³/12 for the total width b
func RequiredWidth(inertia, height float64) float64 {
	return math.Cbrt((12 * inertia) / height)
}

// Round2 rounds the stored double to two decimals, ties to even: scale by
// 100, round to the nearest even integer, scale back. A literal such as
// 1.015 is stored just below the tie and rounds down.
// x must be finite.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// Format2 renders Round2(x) with trailing zeros trimmed,
// e.g. 14 -> "14", 3.80 -> "3.8".
func Format2(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(Round2(x)).String()
}

// Finite reports whether every value is neither NaN nor ±Inf
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
