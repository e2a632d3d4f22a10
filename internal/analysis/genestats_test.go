package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
	"pcenrich/internal/testkit"
)

func fixtureBasis(t *testing.T, seed int64, n, p, k int) (*enrichment.DataMatrix, *enrichment.ComponentBasis) {
	t.Helper()
	data := testkit.NormalMatrix(seed, n, p)
	basis, err := CorrelationPCA(data, k)
	require.NoError(t, err)
	return data, basis
}

func TestGeneStatistics_Loading(t *testing.T) {
	data, basis := fixtureBasis(t, 11, 25, 6, 2)

	values, err := GeneStatistics(data, basis, 1, enrichment.StatLoading, enrichment.TransformNone)
	require.NoError(t, err)
	assert.Equal(t, basis.LoadingVector(1), values)
}

func TestGeneStatistics_CorrelationRange(t *testing.T) {
	data, basis := fixtureBasis(t, 12, 25, 6, 1)

	values, err := GeneStatistics(data, basis, 0, enrichment.StatCorrelation, enrichment.TransformNone)
	require.NoError(t, err)
	require.Len(t, values, 6)
	for j, r := range values {
		assert.GreaterOrEqual(t, r, -1.0, "variable %d", j)
		assert.LessOrEqual(t, r, 1.0, "variable %d", j)
	}
}

// Fisher z is sqrt(n-3)*atanh(r) applied to the per-variable correlations.
func TestGeneStatistics_FisherZ(t *testing.T) {
	data, basis := fixtureBasis(t, 13, 20, 5, 1)

	correlations, err := GeneStatistics(data, basis, 0, enrichment.StatCorrelation, enrichment.TransformNone)
	require.NoError(t, err)
	zs, err := GeneStatistics(data, basis, 0, enrichment.StatFisherZ, enrichment.TransformNone)
	require.NoError(t, err)

	scale := math.Sqrt(float64(20 - 3))
	for j, r := range correlations {
		assert.InDelta(t, scale*math.Atanh(r), zs[j], 1e-12, "variable %d", j)
	}
}

func TestGeneStatistics_AbsValueTransform(t *testing.T) {
	data, basis := fixtureBasis(t, 14, 20, 5, 1)

	signed, err := GeneStatistics(data, basis, 0, enrichment.StatFisherZ, enrichment.TransformNone)
	require.NoError(t, err)
	absolute, err := GeneStatistics(data, basis, 0, enrichment.StatFisherZ, enrichment.TransformAbsValue)
	require.NoError(t, err)

	for j := range signed {
		assert.Equal(t, math.Abs(signed[j]), absolute[j], "variable %d", j)
	}
}

func TestGeneStatistics_Errors(t *testing.T) {
	t.Run("fisher z needs more than 3 observations", func(t *testing.T) {
		data, basis := fixtureBasis(t, 15, 3, 5, 1)
		_, err := GeneStatistics(data, basis, 0, enrichment.StatFisherZ, enrichment.TransformNone)
		assert.ErrorIs(t, err, core.ErrDegenerateInput)
	})

	t.Run("component out of range", func(t *testing.T) {
		data, basis := fixtureBasis(t, 16, 20, 5, 2)
		_, err := GeneStatistics(data, basis, 2, enrichment.StatCorrelation, enrichment.TransformNone)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}
