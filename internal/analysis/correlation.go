package analysis

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"pcenrich/domain/enrichment"
)

// meanPairwiseCorrelation computes the average off-diagonal entry of the
// sample correlation matrix restricted to the member columns:
// (sum of all entries - m1) / (m1 * (m1 - 1)). Callers must guarantee
// len(members) >= 2; a single-member set makes the average undefined.
func meanPairwiseCorrelation(data *enrichment.DataMatrix, members []int) float64 {
	n := data.Observations()
	m1 := len(members)

	sub := mat.NewDense(n, m1, nil)
	col := make([]float64, n)
	for c, j := range members {
		mat.Col(col, j, data.Values)
		sub.SetCol(c, col)
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, sub, nil)

	sum := 0.0
	for i := 0; i < m1; i++ {
		for j := 0; j < m1; j++ {
			sum += corr.At(i, j)
		}
	}
	return (sum - float64(m1)) / (float64(m1) * float64(m1-1))
}

// varianceInflation is the VIF correction for a mean over m1 equicorrelated
// values: 1 + (m1-1) * meanCorrelation.
func varianceInflation(m1 int, meanCorrelation float64) float64 {
	return 1 + float64(m1-1)*meanCorrelation
}
