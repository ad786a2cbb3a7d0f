package timber

import (
	"errors"
	"fmt"

	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/seedrand"
)

// DefaultSeed is the fixed seed of the size draw. Changing it changes every
// cross-section assignment.
const DefaultSeed int32 = 42

// ErrMalformedCatalog is returned for catalog rows that cannot be used.
var ErrMalformedCatalog = errors.New("timber: malformed catalog")

// Options controls catalog building
type Options struct {
	Seed       int32
	WidthClass WidthClass
}

// DefaultOptions returns the reference seed and the narrow width class
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, WidthClass: Narrow}
}

// Build draws a height class for every row, in row order, from a single
// generator seeded with opts.Seed, and returns the resulting stock in
// catalog order.
func Build(rows []Row, opts Options) ([]Stock, error) {
	if opts.WidthClass < Narrow || opts.WidthClass > Wide {
		return nil, fmt.Errorf("%w: width class %d", ErrMalformedCatalog, opts.WidthClass)
	}

	r := seedrand.New(opts.Seed)
	sizes := SizeTable[opts.WidthClass]

	stock := make([]Stock, 0, len(rows))
	for i, row := range rows {
		if !mechanics.Finite(row.MOR, row.MOE, row.ShearStrength, row.CompressionStrength) {
			return nil, fmt.Errorf("%w: row %d (%s): non-finite strength", ErrMalformedCatalog, i, row.Reference)
		}
		s, err := NewStock(i, row, sizes[r.Intn(HeightClasses)])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedCatalog, i, err)
		}
		stock = append(stock, s)
	}
	return stock, nil
}
