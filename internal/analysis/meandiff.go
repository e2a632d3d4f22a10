package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// MeanDiffEngine tests gene sets with a standardized mean-difference
// statistic: the mean gene statistic over members minus the mean over
// non-members, scaled by the pooled standard deviation. Significance comes
// from a two-sided Student-t test. When adjusted is set, the member
// variance term is inflated by the VIF derived from the average pairwise
// correlation among member columns of the data matrix, and the degrees of
// freedom change from m1+m2-2 to n-2.
type MeanDiffEngine struct {
	data     *enrichment.DataMatrix
	adjusted bool
}

// NewMeanDiffEngine creates a mean-difference engine over one data matrix.
func NewMeanDiffEngine(data *enrichment.DataMatrix, adjusted bool) *MeanDiffEngine {
	return &MeanDiffEngine{data: data, adjusted: adjusted}
}

// Test aggregates the gene-level statistics of one component for one gene
// set and returns the signed t statistic with its two-sided p-value.
func (e *MeanDiffEngine) Test(geneStats []float64, set enrichment.GeneSet) (statistic, pValue float64, err error) {
	memberVals, otherVals, err := splitByMembership(geneStats, set)
	if err != nil {
		return 0, 0, err
	}
	m1 := float64(len(memberVals))
	m2 := float64(len(otherVals))

	memberMean, _ := stats.Mean(memberVals)
	otherMean, _ := stats.Mean(otherVals)
	memberVar, _ := stats.SampleVariance(memberVals)
	otherVar, _ := stats.SampleVariance(otherVals)

	meanDiff := memberMean - otherMean
	pooledSD := math.Sqrt(((m1-1)*memberVar + (m2-1)*otherVar) / (m1 + m2 - 2))

	var se, df float64
	if e.adjusted {
		n := e.data.Observations()
		if n <= 2 {
			return 0, 0, core.NewDegenerateInputError("correlation-adjusted test requires more than 2 observations")
		}
		vif := varianceInflation(len(memberVals), meanPairwiseCorrelation(e.data, set.Members))
		se = pooledSD * math.Sqrt(vif/m1+1/m2)
		df = float64(n - 2)
	} else {
		se = pooledSD * math.Sqrt(1/m1+1/m2)
		df = m1 + m2 - 2
	}

	t := meanDiff / se
	return t, twoSidedStudentsT(t, df), nil
}

// splitByMembership partitions a gene statistic vector into member and
// complement values, rejecting set sizes that leave the pooled variance or
// the member correlation matrix undefined.
func splitByMembership(geneStats []float64, set enrichment.GeneSet) (members, others []float64, err error) {
	p := len(geneStats)
	m1 := len(set.Members)
	if m1 < 2 {
		return nil, nil, core.NewDegenerateGroupError(set.Name, "needs at least 2 member variables")
	}
	if p-m1 < 2 {
		return nil, nil, core.NewDegenerateGroupError(set.Name, "needs at least 2 non-member variables")
	}

	inSet := make([]bool, p)
	for _, j := range set.Members {
		inSet[j] = true
	}
	members = make([]float64, 0, m1)
	others = make([]float64, 0, p-m1)
	for j, v := range geneStats {
		if inSet[j] {
			members = append(members, v)
		} else {
			others = append(others, v)
		}
	}
	return members, others, nil
}

// twoSidedStudentsT is 2 * min(P(T <= t), P(T >= t)) under a Student-t
// distribution with df degrees of freedom.
func twoSidedStudentsT(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * math.Min(dist.CDF(t), dist.Survival(t))
}
