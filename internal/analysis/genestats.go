package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// GeneStatistics computes the per-variable association statistic for one
// principal component: the raw loading, the Pearson correlation between
// each variable column and the component scores, or the Fisher
// variance-stabilized correlation z = sqrt(n-3) * atanh(r). The optional
// absolute-value transform is applied element-wise afterwards. The result
// is a fresh length-p vector; inputs are not modified.
func GeneStatistics(data *enrichment.DataMatrix, basis *enrichment.ComponentBasis, component int, kind enrichment.GeneStatistic, transform enrichment.Transform) ([]float64, error) {
	if component < 0 || component >= basis.Components() {
		return nil, core.NewConfigurationError("components",
			fmt.Sprintf("component %d outside the %d retained components", component, basis.Components()))
	}

	var values []float64
	switch kind {
	case enrichment.StatLoading:
		values = basis.LoadingVector(component)
	case enrichment.StatCorrelation:
		values = componentCorrelations(data, basis, component)
	case enrichment.StatFisherZ:
		n := data.Observations()
		if n <= 3 {
			return nil, core.NewDegenerateInputError("Fisher z transform requires more than 3 observations")
		}
		values = componentCorrelations(data, basis, component)
		scale := math.Sqrt(float64(n - 3))
		for j, r := range values {
			values[j] = scale * math.Atanh(r)
		}
	default:
		return nil, core.NewConfigurationError("gene_statistic", fmt.Sprintf("unknown statistic %q", kind))
	}

	if transform == enrichment.TransformAbsValue {
		for j, v := range values {
			values[j] = math.Abs(v)
		}
	}
	return values, nil
}

func componentCorrelations(data *enrichment.DataMatrix, basis *enrichment.ComponentBasis, component int) []float64 {
	p := data.Variables()
	scores := basis.ScoreVector(component)
	values := make([]float64, p)
	for j := 0; j < p; j++ {
		values[j] = stat.Correlation(data.Column(j), scores, nil)
	}
	return values
}
