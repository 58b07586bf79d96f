package rankdist

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randomRankings(rng *rand.Rand, nItems, nObs int) *mat.Dense {
	rankings := mat.NewDense(nItems, nObs, nil)
	for col := range nObs {
		perm := rng.Perm(nItems)
		for row, v := range perm {
			rankings.Set(row, col, float64(v+1))
		}
	}
	return rankings
}

func TestPerObservationDistance(t *testing.T) {
	// columns are observations
	rankings := mat.NewDense(4, 3, []float64{
		1, 4, 2,
		2, 3, 1,
		3, 2, 3,
		4, 1, 4,
	})
	rho := []float64{1, 2, 3, 4}

	got, err := PerObservationDistance(rankings, rho, Footrule)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 8, 2}, got)

	total, err := TotalDistance(rankings, rho, Footrule)
	require.NoError(t, err)
	assert.Equal(t, 10.0, total)

	got, err = PerObservationDistance(rankings, rho, Kendall)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 6, 1}, got)
}

func TestTotalDistanceMatchesSum(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	rankings := randomRankings(rng, 8, 25)
	rho := []float64{3, 1, 2, 8, 5, 4, 7, 6}

	for _, metric := range Metrics() {
		t.Run(metric.String(), func(t *testing.T) {
			per, err := PerObservationDistance(rankings, rho, metric)
			require.NoError(t, err)
			require.Len(t, per, 25)

			total, err := TotalDistance(rankings, rho, metric)
			require.NoError(t, err)
			assert.Equal(t, floats.Sum(per), total)
		})
	}
}

func TestAggregateErrors(t *testing.T) {
	rankings := mat.NewDense(3, 2, []float64{1, 3, 2, 2, 3, 1})

	_, err := TotalDistance(rankings, []float64{1, 2}, Footrule)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = PerObservationDistance(rankings, []float64{1, 2, 3, 4}, Spearman)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = PerObservationDistance(rankings, []float64{1, 2, 3}, Metric("l2"))
	assert.ErrorIs(t, err, ErrUnsupportedMetric)
}

func TestNewRankingMatrix(t *testing.T) {
	rankings, err := NewRankingMatrix([][]float64{
		{1, 2, 3},
		{3, 2, 1},
	})
	require.NoError(t, err)

	rows, cols := rankings.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float64{3, 2, 1}, mat.Col(nil, 1, rankings))

	_, err = NewRankingMatrix([][]float64{{1, 2, 3}, {1, 2}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewRankingMatrix(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func BenchmarkTotalDistance(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	rankings := randomRankings(rng, 20, 250)
	rho := make([]float64, 20)
	for i := range rho {
		rho[i] = float64(i + 1)
	}

	for b.Loop() {
		_, _ = TotalDistance(rankings, rho, Kendall)
	}
}
