package analysis

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// setTester is implemented by both gene set test engines.
type setTester interface {
	Test(geneStats []float64, set enrichment.GeneSet) (statistic, pValue float64, err error)
}

// Run executes one enrichment computation: it validates the options,
// canonicalizes the membership, derives the component basis when the caller
// did not supply one, computes the per-variable statistics for every
// requested component, and applies the configured gene set test to every
// (set, component) pair. Gene sets are independent given the shared
// read-only basis, so they are tested concurrently. Any invalid option or
// degenerate set aborts the whole run; a returned result is complete.
func Run(data *enrichment.DataMatrix, basis *enrichment.ComponentBasis, membership enrichment.GroupMembership, opts enrichment.Options) (*enrichment.Result, error) {
	if data == nil || data.Values == nil {
		return nil, core.NewConfigurationError("data", "data matrix is required")
	}
	n, p := data.Observations(), data.Variables()
	if n == 0 || p == 0 {
		return nil, core.NewConfigurationError("data", "data matrix must have at least one observation and one variable")
	}

	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sets, err := ResolveGroups(membership, p)
	if err != nil {
		return nil, err
	}

	maxComponent := 0
	for _, c := range opts.Components {
		if c > maxComponent {
			maxComponent = c
		}
	}
	if basis == nil {
		basis, err = CorrelationPCA(data, maxComponent+1)
		if err != nil {
			return nil, err
		}
	} else {
		if rows, _ := basis.Loadings.Dims(); rows != p {
			return nil, core.NewConfigurationError("basis",
				fmt.Sprintf("loading matrix has %d rows, data has %d variables", rows, p))
		}
		if rows, _ := basis.Scores.Dims(); rows != n {
			return nil, core.NewConfigurationError("basis",
				fmt.Sprintf("score matrix has %d rows, data has %d observations", rows, n))
		}
		if maxComponent >= basis.Components() {
			return nil, core.NewConfigurationError("components",
				fmt.Sprintf("component %d requested, basis retains %d", maxComponent, basis.Components()))
		}
	}

	geneStats := make([][]float64, len(opts.Components))
	for i, component := range opts.Components {
		geneStats[i], err = GeneStatistics(data, basis, component, opts.GeneStatistic, opts.Transform)
		if err != nil {
			return nil, err
		}
	}

	adjusted := opts.TestMethod == enrichment.TestCorAdjParametric
	var tester setTester
	switch opts.SetStatistic {
	case enrichment.SetStatMeanDiff:
		tester = NewMeanDiffEngine(data, adjusted)
	case enrichment.SetStatRankSum:
		tester = NewRankSumEngine(data, adjusted)
	}

	result := &enrichment.Result{
		GroupNames: make([]string, len(sets)),
		Components: append([]int(nil), opts.Components...),
		Statistics: make([][]float64, len(sets)),
		PValues:    make([][]float64, len(sets)),
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, set := range sets {
		result.GroupNames[i] = set.Name
		g.Go(func() error {
			statRow := make([]float64, len(geneStats))
			pRow := make([]float64, len(geneStats))
			for c, column := range geneStats {
				statistic, pValue, err := tester.Test(column, set)
				if err != nil {
					return err
				}
				statRow[c] = statistic
				pRow[c] = pValue
			}
			result.Statistics[i] = statRow
			result.PValues[i] = pRow
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
