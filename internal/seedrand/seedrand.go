// Package seedrand implements the seeded subtractive pseudo-random generator
// (Knuth, TAOCP vol. 2, §3.6) whose integer draws reproduce the reference
// sizing output for a given seed.
//
// The generator is deterministic and platform independent. A *Rand is not
// safe for concurrent use; the catalog builder consumes one stream in row
// order.
package seedrand

import "math"

const (
	mbig  = math.MaxInt32
	mseed = 161803398
)

// Rand is a subtractive lagged generator with a 55-element state.
type Rand struct {
	inext     int
	inextp    int
	seedArray [56]int32
}

// New returns a generator initialised from seed.
func New(seed int32) *Rand {
	r := &Rand{}

	var subtraction int32
	if seed == math.MinInt32 {
		subtraction = math.MaxInt32
	} else {
		subtraction = seed
		if subtraction < 0 {
			subtraction = -subtraction
		}
	}

	mj := int32(mseed) - subtraction
	r.seedArray[55] = mj
	mk := int32(1)
	for i := 1; i < 55; i++ {
		ii := (21 * i) % 55
		r.seedArray[ii] = mk
		mk = mj - mk
		if mk < 0 {
			mk += mbig
		}
		mj = r.seedArray[ii]
	}
	for k := 1; k < 5; k++ {
		for i := 1; i < 56; i++ {
			r.seedArray[i] -= r.seedArray[1+(i+30)%55]
			if r.seedArray[i] < 0 {
				r.seedArray[i] += mbig
			}
		}
	}
	r.inext = 0
	r.inextp = 21
	return r
}

func (r *Rand) internalSample() int32 {
	locINext := r.inext + 1
	if locINext >= 56 {
		locINext = 1
	}
	locINextp := r.inextp + 1
	if locINextp >= 56 {
		locINextp = 1
	}

	ret := r.seedArray[locINext] - r.seedArray[locINextp]
	if ret == mbig {
		ret--
	}
	if ret < 0 {
		ret += mbig
	}

	r.seedArray[locINext] = ret
	r.inext = locINext
	r.inextp = locINextp
	return ret
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.internalSample()) * (1.0 / mbig)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("seedrand: invalid argument to Intn")
	}
	return int(r.Float64() * float64(n))
}
