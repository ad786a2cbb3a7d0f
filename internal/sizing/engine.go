// Package sizing pairs members with timber stock by rank and computes the
// composite count and utilization ratios of every pair.
//
// Pairing is greedy: the i-th member by bending demand receives the i-th
// stock entry by bending capacity. Ties keep input order.
package sizing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

// maxCount bounds composite counts so they fit any int
const maxCount = math.MaxInt32

// Observer receives the outcome of every pair, in rank order, after all
// pairs are sized.
type Observer interface {
	Sized(m *member.Member)
	Failed(err *MemberError)
}

// Options configures an Engine
type Options struct {
	// Workers sizes pairs concurrently when greater than one
	Workers  int
	Logger   *zap.Logger
	Observer Observer
}

// Engine runs the match-and-size pass. It holds no state between runs.
type Engine struct {
	workers  int
	log      *zap.Logger
	observer Observer
}

// New creates an Engine
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers, log: log, observer: opts.Observer}
}

// Pair is one rank position: a member and the stock entry it receives
type Pair struct {
	Rank       int `json:"rank"`
	MemberID   int `json:"member_id"`
	MaterialID int `json:"material_id"`
}

// Result holds sized members in original input order and the stock in
// catalog order.
type Result struct {
	Members []member.Member
	Stock   []timber.Stock
	Pairs   []Pair
	Errors  []*MemberError
}

// Material returns the stock entry with the given id
func (r *Result) Material(id int) (timber.Stock, bool) {
	if id >= 0 && id < len(r.Stock) && r.Stock[id].ID == id {
		return r.Stock[id], true
	}
	for _, s := range r.Stock {
		if s.ID == id {
			return s, true
		}
	}
	return timber.Stock{}, false
}

// Match runs a sequential engine without logging
func Match(members []member.Member, stock []timber.Stock) (*Result, error) {
	return New(Options{}).Run(context.Background(), members, stock)
}

// rank orders members by bending demand and stock by bending capacity, both
// descending and stable, and pairs them by slice position.
func rank(members []member.Member, stock []timber.Stock) []Pair {
	mOrder := make([]int, len(members))
	for i := range mOrder {
		mOrder[i] = i
	}
	sort.SliceStable(mOrder, func(a, b int) bool {
		return members[mOrder[a]].Bending > members[mOrder[b]].Bending
	})

	sOrder := make([]int, len(stock))
	for i := range sOrder {
		sOrder[i] = i
	}
	sort.SliceStable(sOrder, func(a, b int) bool {
		return stock[sOrder[a]].MaxBending > stock[sOrder[b]].MaxBending
	})

	n := min(len(members), len(stock))
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{Rank: i, MemberID: mOrder[i], MaterialID: sOrder[i]}
	}
	return pairs
}

// Run sizes every member against its rank-paired stock entry. The inputs
// are copied; the caller's slices are not modified.
//
// Precondition failures return a nil Result. Per-member failures are
// collected: the Result is still returned, the failed members carry no
// Assignment and the returned error joins every *MemberError.
func (e *Engine) Run(ctx context.Context, members []member.Member, stock []timber.Stock) (*Result, error) {
	if len(members) == 0 || len(stock) == 0 {
		return nil, ErrEmptyInput
	}
	if len(members) > len(stock) {
		return nil, fmt.Errorf("%w: %d members, %d stock entries", ErrCatalogTooSmall, len(members), len(stock))
	}

	work := make([]member.Member, len(members))
	copy(work, members)
	for i := range work {
		work[i].Assignment = nil
	}
	inventory := make([]timber.Stock, len(stock))
	copy(inventory, stock)

	// positions into work and inventory, not ids
	pairs := rank(work, inventory)

	assignments := make([]*member.Assignment, len(pairs))
	errs := make([]*MemberError, len(pairs))
	if err := e.sizeAll(ctx, work, inventory, pairs, assignments, errs); err != nil {
		return nil, err
	}

	result := &Result{Pairs: make([]Pair, len(pairs))}
	for i, p := range pairs {
		m := &work[p.MemberID]
		s := &inventory[p.MaterialID]
		result.Pairs[i] = Pair{Rank: p.Rank, MemberID: m.ID, MaterialID: s.ID}
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i])
			if e.observer != nil {
				e.observer.Failed(errs[i])
			}
			continue
		}
		m.Assignment = assignments[i]
		if e.observer != nil {
			e.observer.Sized(m)
		}
	}

	sort.SliceStable(work, func(a, b int) bool { return work[a].ID < work[b].ID })
	sort.SliceStable(inventory, func(a, b int) bool { return inventory[a].ID < inventory[b].ID })
	sort.SliceStable(result.Errors, func(a, b int) bool { return result.Errors[a].MemberID < result.Errors[b].MemberID })
	result.Members = work
	result.Stock = inventory

	e.log.Info("sizing complete",
		zap.Int("members", len(work)),
		zap.Int("stock", len(inventory)),
		zap.Int("failed", len(result.Errors)))

	if len(result.Errors) > 0 {
		joined := make([]error, len(result.Errors))
		for i, me := range result.Errors {
			joined[i] = me
		}
		return result, errors.Join(joined...)
	}
	return result, nil
}

func (e *Engine) sizeAll(ctx context.Context, work []member.Member, inventory []timber.Stock, pairs []Pair, out []*member.Assignment, errs []*MemberError) error {
	sizeAt := func(i int) {
		p := pairs[i]
		m, s := &work[p.MemberID], &inventory[p.MaterialID]
		a, err := Size(m, s)
		if err != nil {
			errs[i] = &MemberError{MemberID: m.ID, MaterialID: s.ID, Err: err}
			e.log.Warn("member sizing failed", zap.Int("member", m.ID), zap.Int("material", s.ID), zap.Error(err))
			return
		}
		if a.Buckled() {
			e.log.Debug("buckling correction",
				zap.Int("member", m.ID),
				zap.Int("demand_count", a.DemandCount),
				zap.Int("composite", a.CompositeNum),
				zap.Float64("required_inertia", a.RequiredInertia))
		}
		out[i] = a
	}

	if e.workers == 1 {
		for i := range pairs {
			if err := ctx.Err(); err != nil {
				return err
			}
			sizeAt(i)
		}
		return nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sizeAt(i)
			}
		}()
	}
	var err error
feed:
	for i := range pairs {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return err
}

// Size computes the assignment of member m to stock entry s.
func Size(m *member.Member, s *timber.Stock) (*member.Assignment, error) {
	if s.MaxBending <= 0 || s.MaxShear <= 0 {
		return nil, fmt.Errorf("%w: bending %g, shear %g", ErrDegenerateCapacity, s.MaxBending, s.MaxShear)
	}

	nb, err := unitCount(m.Bending, s.MaxBending)
	if err != nil {
		return nil, err
	}
	ns, err := unitCount(m.Shear, s.MaxShear)
	if err != nil {
		return nil, err
	}

	a := &member.Assignment{MaterialID: s.ID, Height: s.Height}

	switch m.Force {
	case force.Compression:
		if s.MaxCompression <= 0 || s.MOE <= 0 {
			return nil, fmt.Errorf("%w: compression %g, MOE %g", ErrDegenerateCapacity, s.MaxCompression, s.MOE)
		}
		nc, err := unitCount(m.AxialForce, s.MaxCompression)
		if err != nil {
			return nil, err
		}
		n := atLeastOne(max(nb, nc, ns))
		a.DemandCount = n

		lengthCm := m.LengthCm()
		a.RequiredInertia = mechanics.RequiredInertia(m.AxialForce, lengthCm, s.MOE)
		if a.RequiredInertia > mechanics.CompositeInertia(s.Width, s.Height, n) {
			// stacked width too small: solve h·b³/12 = I for b
			nw, err := unitCount(mechanics.RequiredWidth(a.RequiredInertia, s.Height), s.Width)
			if err != nil {
				return nil, err
			}
			n = max(n, nw)
		}
		a.CurrentInertia = mechanics.CompositeInertia(s.Width, s.Height, n)
		a.CriticalLoad = mechanics.EulerLoad(s.MOE, a.CurrentInertia, lengthCm)
		a.CompositeNum = n

		direct := m.AxialForce / (s.MaxCompression * float64(n))
		buckling := m.AxialForce / a.CriticalLoad
		if !mechanics.Finite(direct, buckling, a.RequiredInertia, a.CurrentInertia) {
			return nil, fmt.Errorf("%w: compression ratio", ErrNonFinite)
		}
		a.CompressionRatio = math.Max(mechanics.Round2(direct), buckling)

	case force.Tension:
		a.CompositeNum = atLeastOne(max(nb, ns))
		a.DemandCount = a.CompositeNum
		a.CompressionRatio = 0

	default:
		return nil, fmt.Errorf("sizing: unknown force kind %v", m.Force)
	}

	if a.CompositeNum < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, a.CompositeNum)
	}

	n := float64(a.CompositeNum)
	bending := m.Bending / (s.MaxBending * n)
	shear := m.Shear / (s.MaxShear * n)
	if !mechanics.Finite(bending, shear) {
		return nil, fmt.Errorf("%w: bending or shear ratio", ErrNonFinite)
	}
	a.Width = s.Width * n
	a.BendingRatio = mechanics.Round2(bending)
	a.ShearRatio = mechanics.Round2(shear)
	a.MaxRatio = math.Max(a.BendingRatio, math.Max(a.CompressionRatio, a.ShearRatio))
	return a, nil
}

// unitCount returns ceil(demand/capacity) for a positive capacity
func unitCount(demand, capacity float64) (int, error) {
	q := math.Ceil(demand / capacity)
	if !mechanics.Finite(q) || q > maxCount {
		return 0, fmt.Errorf("%w: %g / %g", ErrNonFinite, demand, capacity)
	}
	return int(q), nil
}

// atLeastOne lifts a zero count, from zero demand, to a single unit
func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
