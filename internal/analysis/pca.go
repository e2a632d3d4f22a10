package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// CorrelationPCA computes the first k principal components of the column
// correlation matrix of data: columns are centered and scaled to unit
// sample variance before the decomposition, so each loading vector is
// proportional to the Pearson correlation between its variable and the
// component scores. The basis is computed once per run and shared
// read-only across all gene set tests.
func CorrelationPCA(data *enrichment.DataMatrix, k int) (*enrichment.ComponentBasis, error) {
	n, p := data.Observations(), data.Variables()
	if n < 2 {
		return nil, core.NewDegenerateInputError("principal components require at least 2 observations")
	}
	maxK := n
	if p < maxK {
		maxK = p
	}
	if k < 1 || k > maxK {
		return nil, core.NewConfigurationError("components",
			fmt.Sprintf("requested %d components, decomposition supports at most %d", k, maxK))
	}

	std, err := standardizeColumns(data)
	if err != nil {
		return nil, err
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(std, nil); !ok {
		return nil, core.NewDegenerateInputError("singular value decomposition failed to converge")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	loadings := mat.NewDense(p, k, nil)
	loadings.Copy(vecs.Slice(0, p, 0, k))

	scores := mat.NewDense(n, k, nil)
	scores.Mul(std, loadings)

	return &enrichment.ComponentBasis{Loadings: loadings, Scores: scores}, nil
}

// standardizeColumns returns a copy of data with each column centered to
// mean zero and scaled to unit sample standard deviation.
func standardizeColumns(data *enrichment.DataMatrix) (*mat.Dense, error) {
	n, p := data.Observations(), data.Variables()
	std := mat.NewDense(n, p, nil)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, data.Values)
		mean, sd := stat.MeanStdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			return nil, core.NewDegenerateInputError(
				fmt.Sprintf("variable %d has zero variance and cannot be standardized", j))
		}
		for i := 0; i < n; i++ {
			std.Set(i, j, (col[i]-mean)/sd)
		}
	}
	return std, nil
}
