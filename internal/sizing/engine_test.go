package sizing_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koson7970/wood-strength-prediction-model/internal/force"
	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

// exampleStock is the 4x8 unit of the worked example.
func exampleStock(id int) timber.Stock {
	return timber.Stock{
		ID: id, Reference: "ref", MOE: 11000,
		NominalSize: "4x8", Width: 8.9, Height: 18.4,
		MaxBending: 1200, MaxCompression: 600, MaxShear: 300,
	}
}

func compressionMember(id int, lengthM float64) member.Member {
	return member.Member{
		ID: id, Length: lengthM,
		Bending: 1000, Force: force.Compression, AxialForce: 500, Shear: 200,
	}
}

func TestSizeWorkedExampleNoCorrection(t *testing.T) {
	m, s := compressionMember(0, 3), exampleStock(0)
	a, err := sizing.Size(&m, &s)
	require.NoError(t, err)

	assert.Equal(t, 1, a.DemandCount)
	assert.Equal(t, 1, a.CompositeNum)
	assert.False(t, a.Buckled())
	assert.InDelta(t, 414.49, a.RequiredInertia, 0.01)
	assert.InDelta(t, 1080.95, a.CurrentInertia, 0.01)
	assert.InDelta(t, 1303.9, a.CriticalLoad, 0.1)

	assert.Equal(t, 8.9, a.Width)
	assert.Equal(t, 18.4, a.Height)
	assert.Equal(t, 0.83, a.BendingRatio)
	assert.Equal(t, 0.83, a.CompressionRatio)
	assert.Equal(t, 0.67, a.ShearRatio)
	assert.Equal(t, 0.83, a.MaxRatio)
}

func TestSizeWorkedExampleBucklingRaisesCount(t *testing.T) {
	m, s := compressionMember(0, 6), exampleStock(0)
	a, err := sizing.Size(&m, &s)
	require.NoError(t, err)

	assert.Equal(t, 1, a.DemandCount)
	assert.Equal(t, 2, a.CompositeNum)
	assert.True(t, a.Buckled())
	assert.InDelta(t, mechanics.CompositeInertia(8.9, 18.4, 2), a.CurrentInertia, 1e-9)
	assert.GreaterOrEqual(t, a.CurrentInertia, a.RequiredInertia)

	assert.InDelta(t, 17.8, a.Width, 1e-12)
	assert.Equal(t, 0.42, a.BendingRatio)
	assert.Equal(t, 0.42, a.CompressionRatio)
	assert.Equal(t, 0.33, a.ShearRatio)
	assert.Equal(t, 0.42, a.MaxRatio)
}

func TestSizeCompressionRatioTakesUnroundedBucklingTerm(t *testing.T) {
	// Slender member where P/Pcr governs over the rounded direct ratio.
	m := member.Member{Length: 4, Bending: 10, Force: force.Compression, AxialForce: 60, Shear: 1}
	s := timber.Stock{MOE: 100, Width: 3.8, Height: 14, MaxBending: 1000, MaxCompression: 1000, MaxShear: 1000}
	a, err := sizing.Size(&m, &s)
	require.NoError(t, err)

	want := 60 / a.CriticalLoad
	assert.Equal(t, want, a.CompressionRatio)
	assert.Equal(t, a.CompressionRatio, a.MaxRatio)
	assert.GreaterOrEqual(t, a.CompositeNum, a.DemandCount)
}

func TestSizeTension(t *testing.T) {
	m := member.Member{Length: 2, Bending: 2500, Force: force.Tension, AxialForce: 1e9, Shear: 100}
	s := exampleStock(4)
	a, err := sizing.Size(&m, &s)
	require.NoError(t, err)

	assert.Equal(t, 3, a.CompositeNum, "ceil(2500/1200)")
	assert.Equal(t, 4, a.MaterialID)
	assert.Equal(t, 0.0, a.CompressionRatio)
	assert.Zero(t, a.CriticalLoad)
	assert.Equal(t, mechanics.Round2(2500.0/3600), a.BendingRatio)
	assert.Equal(t, a.BendingRatio, a.MaxRatio)
}

func TestSizeZeroDemandTakesOneUnit(t *testing.T) {
	for _, k := range []force.Kind{force.Compression, force.Tension} {
		m := member.Member{Length: 1, Force: k}
		s := exampleStock(0)
		a, err := sizing.Size(&m, &s)
		require.NoError(t, err, k)
		assert.Equal(t, 1, a.CompositeNum, k)
		assert.Equal(t, 0.0, a.MaxRatio, k)
	}
}

func TestSizeDegenerateCapacity(t *testing.T) {
	cases := []struct {
		name   string
		kind   force.Kind
		mutate func(*timber.Stock)
	}{
		{"ZeroBending", force.Tension, func(s *timber.Stock) { s.MaxBending = 0 }},
		{"NegativeShear", force.Tension, func(s *timber.Stock) { s.MaxShear = -1 }},
		{"ZeroCompression", force.Compression, func(s *timber.Stock) { s.MaxCompression = 0 }},
		{"ZeroMOE", force.Compression, func(s *timber.Stock) { s.MOE = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := compressionMember(0, 3)
			m.Force = tc.kind
			s := exampleStock(0)
			tc.mutate(&s)
			_, err := sizing.Size(&m, &s)
			assert.ErrorIs(t, err, sizing.ErrDegenerateCapacity)
		})
	}
}

func TestSizeOverflow(t *testing.T) {
	m := member.Member{Length: 1, Bending: math.MaxFloat64, Force: force.Tension}
	s := exampleStock(0)
	s.MaxBending = 1e-300
	_, err := sizing.Size(&m, &s)
	assert.ErrorIs(t, err, sizing.ErrNonFinite)
}

func stockWithBending(values ...float64) []timber.Stock {
	out := make([]timber.Stock, len(values))
	for i, v := range values {
		s := exampleStock(i)
		s.MaxBending = v
		out[i] = s
	}
	return out
}

func tensionMembers(bending ...float64) []member.Member {
	out := make([]member.Member, len(bending))
	for i, b := range bending {
		out[i] = member.Member{ID: i, Length: 2, Bending: b, Force: force.Tension, Shear: 10}
	}
	return out
}

func TestRunPairsByRank(t *testing.T) {
	members := tensionMembers(10, 30, 20)
	stock := stockWithBending(500, 900, 700, 100)

	res, err := sizing.Match(members, stock)
	require.NoError(t, err)
	assert.Equal(t, []sizing.Pair{
		{Rank: 0, MemberID: 1, MaterialID: 1},
		{Rank: 1, MemberID: 2, MaterialID: 2},
		{Rank: 2, MemberID: 0, MaterialID: 0},
	}, res.Pairs)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	res, err := sizing.Match(tensionMembers(5, 5, 5), stockWithBending(100, 100, 100))
	require.NoError(t, err)
	require.Len(t, res.Pairs, 3)
	for i, p := range res.Pairs {
		assert.Equal(t, i, p.Rank)
		assert.Equal(t, i, p.MemberID)
		assert.Equal(t, i, p.MaterialID)
	}
}

func TestSwappingBendingSwapsAssignedStock(t *testing.T) {
	stock := stockWithBending(500, 900, 700)

	before, err := sizing.Match(tensionMembers(10, 30, 20), stock)
	require.NoError(t, err)
	after, err := sizing.Match(tensionMembers(30, 10, 20), stock)
	require.NoError(t, err)

	assert.Equal(t, before.Members[0].Assignment.MaterialID, after.Members[1].Assignment.MaterialID)
	assert.Equal(t, before.Members[1].Assignment.MaterialID, after.Members[0].Assignment.MaterialID)
	assert.Equal(t, before.Members[2].Assignment.MaterialID, after.Members[2].Assignment.MaterialID)
}

func TestRunRestoresOriginalOrder(t *testing.T) {
	members := tensionMembers(1, 50, 3, 40, 2)
	stock := stockWithBending(10, 20, 30, 40, 50, 60)

	res, err := sizing.Match(members, stock)
	require.NoError(t, err)
	require.Len(t, res.Members, 5)
	for i, m := range res.Members {
		assert.Equal(t, i, m.ID)
		require.NotNil(t, m.Assignment)
		assert.GreaterOrEqual(t, m.Assignment.CompositeNum, 1)
	}
	for i, s := range res.Stock {
		assert.Equal(t, i, s.ID)
	}
	assert.Equal(t, 5, res.Members[1].Assignment.MaterialID, "largest demand gets largest capacity")
	assert.Equal(t, 1, res.Members[0].Assignment.MaterialID)

	// inputs untouched
	assert.Nil(t, members[0].Assignment)

	s, ok := res.Material(res.Members[3].Assignment.MaterialID)
	require.True(t, ok)
	assert.Equal(t, 50.0, s.MaxBending)
}

func TestRunPreconditions(t *testing.T) {
	_, err := sizing.Match(nil, stockWithBending(1))
	assert.ErrorIs(t, err, sizing.ErrEmptyInput)

	_, err = sizing.Match(tensionMembers(1), nil)
	assert.ErrorIs(t, err, sizing.ErrEmptyInput)

	res, err := sizing.Match(tensionMembers(1, 2, 3), stockWithBending(1, 2))
	assert.ErrorIs(t, err, sizing.ErrCatalogTooSmall)
	assert.Nil(t, res)
}

func TestRunCollectsMemberErrors(t *testing.T) {
	members := tensionMembers(30, 20, 10)
	stock := stockWithBending(300, 200, 100)
	stock[1].MaxShear = 0 // paired with member 1

	res, err := sizing.Match(members, stock)
	require.Error(t, err)
	require.NotNil(t, res)

	var me *sizing.MemberError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 1, me.MemberID)
	assert.Equal(t, 1, me.MaterialID)
	assert.ErrorIs(t, err, sizing.ErrDegenerateCapacity)

	require.Len(t, res.Errors, 1)
	assert.Nil(t, res.Members[1].Assignment)
	assert.NotNil(t, res.Members[0].Assignment)
	assert.NotNil(t, res.Members[2].Assignment)
}

func TestRunInvariants(t *testing.T) {
	var members []member.Member
	for i := 0; i < 60; i++ {
		k := force.Tension
		if i%3 != 0 {
			k = force.Compression
		}
		members = append(members, member.Member{
			ID: i, Length: 1 + float64(i%7),
			Bending: float64((i * 37) % 101 * 50), Force: k,
			AxialForce: float64((i * 13) % 17 * 120), Shear: float64(i % 5 * 40),
		})
	}
	rows := make([]timber.Row, 80)
	for i := range rows {
		rows[i] = timber.Row{MOR: 300 + float64(i%9)*20, MOE: 80000, ShearStrength: 40, CompressionStrength: 200}
	}
	stock, err := timber.Build(rows, timber.DefaultOptions())
	require.NoError(t, err)

	res, err := sizing.Match(members, stock)
	require.NoError(t, err)
	for _, m := range res.Members {
		a := m.Assignment
		require.NotNil(t, a)
		assert.GreaterOrEqual(t, a.CompositeNum, 1)
		assert.GreaterOrEqual(t, a.CompositeNum, a.DemandCount)
		assert.Equal(t, math.Max(a.BendingRatio, math.Max(a.CompressionRatio, a.ShearRatio)), a.MaxRatio)
		if m.Force == force.Tension {
			assert.Equal(t, 0.0, a.CompressionRatio)
		}
	}
}

func TestWorkersMatchSequential(t *testing.T) {
	members := tensionMembers(5, 80, 13, 44, 2, 61, 7, 29)
	members[3].Force = force.Compression
	members[3].AxialForce = 900
	stock := stockWithBending(70, 10, 90, 30, 50, 20, 80, 40, 60)

	seq, err := sizing.Match(members, stock)
	require.NoError(t, err)
	par, err := sizing.New(sizing.Options{Workers: 4}).Run(context.Background(), members, stock)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

type recorder struct {
	sized, failed int
}

func (r *recorder) Sized(*member.Member)       { r.sized++ }
func (r *recorder) Failed(*sizing.MemberError) { r.failed++ }

func TestObserver(t *testing.T) {
	stock := stockWithBending(300, 200, 100)
	stock[2].MaxBending = -1
	rec := &recorder{}
	_, err := sizing.New(sizing.Options{Observer: rec}).Run(context.Background(), tensionMembers(3, 2, 1), stock)
	require.Error(t, err)
	assert.Equal(t, 2, rec.sized)
	assert.Equal(t, 1, rec.failed)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sizing.New(sizing.Options{}).Run(ctx, tensionMembers(1, 2), stockWithBending(1, 2))
	assert.ErrorIs(t, err, context.Canceled)
}
