package enrichment

import (
	"pcenrich/domain/core"
)

// GeneStatistic selects the per-variable association statistic with a
// principal component.
type GeneStatistic string

const (
	// StatLoading uses the component's loading vector directly.
	StatLoading GeneStatistic = "loading"
	// StatCorrelation uses the Pearson correlation between each variable
	// and the component's scores.
	StatCorrelation GeneStatistic = "cor"
	// StatFisherZ applies the variance-stabilizing Fisher transform to the
	// correlation: z = sqrt(n-3) * atanh(r). Requires n > 3.
	StatFisherZ GeneStatistic = "z"
)

// Transform is an optional element-wise transform applied after the gene
// statistic is computed.
type Transform string

const (
	TransformNone     Transform = "none"
	TransformAbsValue Transform = "abs.value"
)

// SetStatistic selects the gene set aggregation family.
type SetStatistic string

const (
	// SetStatMeanDiff aggregates via a standardized mean difference between
	// members and non-members (pooled two-sample t).
	SetStatMeanDiff SetStatistic = "mean.diff"
	// SetStatRankSum aggregates via a Mann-Whitney rank-sum comparison.
	SetStatRankSum SetStatistic = "rank.sum"
)

// TestMethod selects how significance is assessed.
type TestMethod string

const (
	TestParametric       TestMethod = "parametric"
	TestCorAdjParametric TestMethod = "cor.adj.parametric"
	// TestPermutation is reserved; requesting it fails with
	// core.ErrPermutationTest rather than silently degrading.
	TestPermutation TestMethod = "permutation"
)

// Options configures an enrichment run. Zero values fall back to the
// defaults documented on each field.
type Options struct {
	// Components lists the 0-based principal component indexes to test.
	// Default: component 0 only.
	Components []int `json:"components"`
	// GeneStatistic defaults to StatFisherZ.
	GeneStatistic GeneStatistic `json:"gene_statistic"`
	// Transform defaults to TransformNone.
	Transform Transform `json:"transform"`
	// SetStatistic defaults to SetStatMeanDiff.
	SetStatistic SetStatistic `json:"set_statistic"`
	// TestMethod defaults to TestCorAdjParametric.
	TestMethod TestMethod `json:"test_method"`
	// NPerm is accepted for call-surface compatibility and ignored; it
	// belongs to the disabled permutation path.
	NPerm int `json:"nperm,omitempty"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Components:    []int{0},
		GeneStatistic: StatFisherZ,
		Transform:     TransformNone,
		SetStatistic:  SetStatMeanDiff,
		TestMethod:    TestCorAdjParametric,
	}
}

// WithDefaults fills unset fields with their defaults.
func (o Options) WithDefaults() Options {
	if len(o.Components) == 0 {
		o.Components = []int{0}
	}
	if o.GeneStatistic == "" {
		o.GeneStatistic = StatFisherZ
	}
	if o.Transform == "" {
		o.Transform = TransformNone
	}
	if o.SetStatistic == "" {
		o.SetStatistic = SetStatMeanDiff
	}
	if o.TestMethod == "" {
		o.TestMethod = TestCorAdjParametric
	}
	return o
}

// Validate rejects unknown enum values and illegal option combinations.
// It is called before any matrix computation.
func (o Options) Validate() error {
	switch o.GeneStatistic {
	case StatLoading, StatCorrelation, StatFisherZ:
	default:
		return core.NewConfigurationError("gene_statistic", "must be one of loading, cor, z")
	}
	switch o.Transform {
	case TransformNone, TransformAbsValue:
	default:
		return core.NewConfigurationError("transform", "must be one of none, abs.value")
	}
	switch o.SetStatistic {
	case SetStatMeanDiff, SetStatRankSum:
	default:
		return core.NewConfigurationError("set_statistic", "must be one of mean.diff, rank.sum")
	}
	switch o.TestMethod {
	case TestParametric, TestCorAdjParametric, TestPermutation:
	default:
		return core.NewConfigurationError("test_method", "must be one of parametric, cor.adj.parametric, permutation")
	}

	// Loadings come from the full decomposition and cannot be resampled per
	// observation, so they are illegal with observation-resampling tests.
	if o.GeneStatistic == StatLoading && o.TestMethod == TestPermutation {
		return core.NewConfigurationError("gene_statistic", "loading statistic cannot be combined with permutation testing")
	}
	if o.TestMethod == TestPermutation {
		return core.ErrPermutationTest
	}

	for _, c := range o.Components {
		if c < 0 {
			return core.NewConfigurationError("components", "component indexes must be non-negative")
		}
	}
	return nil
}
