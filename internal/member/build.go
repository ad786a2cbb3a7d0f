package member

import (
	"errors"
	"fmt"
	"math"

	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
)

// ErrMalformedInput is returned for member rows that cannot enter the model.
var ErrMalformedInput = errors.New("member: malformed input")

// Options controls record building
type Options struct {
	// SkipUnitConversion takes forces as already expressed in kgf and kgf·cm
	SkipUnitConversion bool
}

// Build classifies every raw row and returns one Member per row, with ID set
// to the row index. Any malformed row fails the whole build.
func Build(rows []Raw, opts Options) ([]Member, error) {
	members := make([]Member, 0, len(rows))
	for i, r := range rows {
		m, err := buildOne(i, r, opts)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func buildOne(id int, r Raw, opts Options) (Member, error) {
	if !mechanics.Finite(r.Start.X, r.Start.Y, r.Start.Z, r.End.X, r.End.Y, r.End.Z, r.Length, r.Bending) {
		return Member{}, fmt.Errorf("%w: row %d: non-finite geometry or bending", ErrMalformedInput, id)
	}
	if r.Length <= 0 {
		return Member{}, fmt.Errorf("%w: row %d: length must be positive, got %g", ErrMalformedInput, id, r.Length)
	}

	demand, err := force.Reduce(force.Samples{
		AxialStart:  r.AxialStart,
		AxialEnd:    r.AxialEnd,
		ShearZStart: r.ShearZStart,
		ShearZEnd:   r.ShearZEnd,
		ShearYStart: r.ShearYStart,
		ShearYEnd:   r.ShearYEnd,
	})
	if err != nil {
		return Member{}, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, id, err)
	}

	bendingFactor, forceFactor := mechanics.KNmToKgfCm, mechanics.KNToKgf
	if opts.SkipUnitConversion {
		bendingFactor, forceFactor = 1, 1
	}

	return Member{
		ID:         id,
		Start:      r.Start,
		End:        r.End,
		Length:     r.Length,
		Bending:    math.Abs(r.Bending) * bendingFactor,
		Force:      demand.Kind,
		AxialForce: demand.Axial * forceFactor,
		Shear:      demand.Shear * forceFactor,
	}, nil
}
