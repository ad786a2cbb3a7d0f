package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

func rawMembers() []member.Raw {
	return []member.Raw{
		{End: member.Point{Z: 3}, Length: 3, Bending: 0.05, AxialStart: -2, AxialEnd: -1, ShearZStart: 1},
		{End: member.Point{X: 4}, Length: 4, Bending: 0.2, AxialStart: 1, AxialEnd: 3, ShearYEnd: 2},
		{End: member.Point{Y: 2}, Length: 2, Bending: 0.01, AxialStart: -0.5, AxialEnd: 0.2, ShearZEnd: 0.5},
	}
}

func catalogRows() []timber.Row {
	return []timber.Row{
		{Reference: "a.jpg", MOR: 500, MOE: 110000, ShearStrength: 20, CompressionStrength: 300},
		{Reference: "b.jpg", MOR: 650, MOE: 120000, ShearStrength: 25, CompressionStrength: 350},
		{Reference: "c.jpg", MOR: 420, MOE: 90000, ShearStrength: 18, CompressionStrength: 260},
		{Reference: "d.jpg", MOR: 700, MOE: 130000, ShearStrength: 30, CompressionStrength: 380},
	}
}

func TestRun(t *testing.T) {
	out, err := Run(context.Background(), rawMembers(), catalogRows(), Options{Timber: timber.DefaultOptions()})
	require.NoError(t, err)

	_, perr := uuid.Parse(out.RunID)
	assert.NoError(t, perr)
	require.Len(t, out.Report.Rows, 3)
	for i, row := range out.Report.Rows {
		assert.Equal(t, i, row.MemberID)
		assert.True(t, row.Sized())
		assert.GreaterOrEqual(t, row.CompositeNum, 1)
	}
	assert.Len(t, out.Stock, 4)
	assert.Len(t, out.Result.Pairs, 3)
}

func TestRunIsDeterministic(t *testing.T) {
	opts := Options{Timber: timber.DefaultOptions(), Workers: 3}
	a, err := Run(context.Background(), rawMembers(), catalogRows(), opts)
	require.NoError(t, err)
	b, err := Run(context.Background(), rawMembers(), catalogRows(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Report, b.Report)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunAbortsOnMalformedMembers(t *testing.T) {
	rows := rawMembers()
	rows[1].Bending = math.NaN()
	out, err := Run(context.Background(), rows, catalogRows(), Options{Timber: timber.DefaultOptions()})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, member.ErrMalformedInput)
}

func TestRunAbortsOnMalformedCatalog(t *testing.T) {
	cat := catalogRows()
	cat[0].MOR = math.Inf(1)
	out, err := Run(context.Background(), rawMembers(), cat, Options{Timber: timber.DefaultOptions()})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, timber.ErrMalformedCatalog)
}

func TestRunCatalogTooSmall(t *testing.T) {
	out, err := Run(context.Background(), rawMembers(), catalogRows()[:2], Options{Timber: timber.DefaultOptions()})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, sizing.ErrCatalogTooSmall)
}

func TestRunPartialFailure(t *testing.T) {
	cat := catalogRows()
	for i := range cat {
		cat[i].ShearStrength = 0
	}
	out, err := Run(context.Background(), rawMembers(), cat, Options{Timber: timber.DefaultOptions()})
	require.Error(t, err)
	require.NotNil(t, out)
	assert.ErrorIs(t, err, sizing.ErrDegenerateCapacity)
	assert.Len(t, out.Report.Failed(), 3)
}
