// Package force reduces the paired start/end internal-force samples of a
// member to a classification and worst-case magnitudes.
package force

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformed is returned when a force sample is NaN or infinite.
var ErrMalformed = errors.New("force: sample is not a finite number")

// Kind is the net axial behaviour of a member.
type Kind int

const (
	// Compression: net negative axial force
	Compression Kind = iota
	// Tension: net non-negative axial force
	Tension
)

func (k Kind) String() string {
	switch k {
	case Compression:
		return "compression"
	case Tension:
		return "tension"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "compression":
		*k = Compression
	case "tension":
		*k = Tension
	default:
		return fmt.Errorf("force: unknown kind %q", text)
	}
	return nil
}

// Samples holds the raw axial and shear values at both ends of a member.
// Negative axial values are compressive.
type Samples struct {
	AxialStart  float64
	AxialEnd    float64
	ShearZStart float64
	ShearZEnd   float64
	ShearYStart float64
	ShearYEnd   float64
}

// Demand is the reduced form of Samples.
type Demand struct {
	Kind  Kind
	Axial float64 // magnitude of the governing axial sample
	Shear float64 // largest shear magnitude of the four samples
}

// Classify returns Compression when both samples are negative and Tension
// when both are non-negative. When they straddle zero the sample with the
// larger magnitude decides; a tie goes to the end sample.
func Classify(start, end float64) (Kind, error) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return 0, ErrMalformed
	}
	switch {
	case start < 0 && end < 0:
		return Compression, nil
	case start >= 0 && end >= 0:
		return Tension, nil
	}
	governing := end
	if math.Abs(start) > math.Abs(end) {
		governing = start
	}
	if governing < 0 {
		return Compression, nil
	}
	return Tension, nil
}

// AxialMagnitude returns the larger of |start| and |end|.
func AxialMagnitude(start, end float64) float64 {
	if math.Abs(start) > math.Abs(end) {
		return math.Abs(start)
	}
	return math.Abs(end)
}

// ShearMagnitude returns the largest absolute value of the four samples.
func ShearMagnitude(zs, ze, ys, ye float64) float64 {
	return math.Max(math.Abs(zs), math.Max(math.Abs(ze), math.Max(math.Abs(ys), math.Abs(ye))))
}

// Reduce validates s and reduces it to a Demand.
func Reduce(s Samples) (Demand, error) {
	for _, v := range []float64{s.AxialStart, s.AxialEnd, s.ShearZStart, s.ShearZEnd, s.ShearYStart, s.ShearYEnd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Demand{}, ErrMalformed
		}
	}
	kind, err := Classify(s.AxialStart, s.AxialEnd)
	if err != nil {
		return Demand{}, err
	}
	return Demand{
		Kind:  kind,
		Axial: AxialMagnitude(s.AxialStart, s.AxialEnd),
		Shear: ShearMagnitude(s.ShearZStart, s.ShearZEnd, s.ShearYStart, s.ShearYEnd),
	}, nil
}
