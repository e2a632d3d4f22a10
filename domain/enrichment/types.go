package enrichment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"pcenrich/domain/core"
)

// DataMatrix holds an observations-by-variables matrix. The matrix is
// treated as read-only by the engine; ownership stays with the caller.
type DataMatrix struct {
	Values        *mat.Dense // n observations x p variables
	VariableNames []string   // optional, length p when present
}

// NewDataMatrix wraps row-major data into a DataMatrix. The input must be
// a non-empty rectangle; callers passing untrusted data get a configuration
// error instead of a panic from the matrix algebra.
func NewDataMatrix(rows [][]float64, variableNames []string) (*DataMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, core.NewConfigurationError("data", "matrix has no rows")
	}
	p := len(rows[0])
	if p == 0 {
		return nil, core.NewConfigurationError("data", "matrix has no columns")
	}
	m := mat.NewDense(n, p, nil)
	for i, row := range rows {
		if len(row) != p {
			return nil, core.NewConfigurationError("data",
				fmt.Sprintf("row %d has %d values, row 0 has %d", i, len(row), p))
		}
		m.SetRow(i, row)
	}
	return &DataMatrix{Values: m, VariableNames: variableNames}, nil
}

// Observations returns n, the number of rows.
func (m *DataMatrix) Observations() int {
	r, _ := m.Values.Dims()
	return r
}

// Variables returns p, the number of columns.
func (m *DataMatrix) Variables() int {
	_, c := m.Values.Dims()
	return c
}

// Column returns a copy of column j.
func (m *DataMatrix) Column(j int) []float64 {
	n := m.Observations()
	col := make([]float64, n)
	mat.Col(col, j, m.Values)
	return col
}

// ComponentBasis holds the output of a correlation-matrix PCA: per-variable
// loadings and per-observation scores for each retained component. Loadings
// of component k are proportional to the Pearson correlation between each
// variable and that component's scores. Computed once, then shared read-only
// across all gene set tests of a run.
type ComponentBasis struct {
	Loadings *mat.Dense // p x k
	Scores   *mat.Dense // n x k
}

// Components returns the number of retained components.
func (b *ComponentBasis) Components() int {
	_, k := b.Loadings.Dims()
	return k
}

// LoadingVector returns a copy of the length-p loading vector of component k.
func (b *ComponentBasis) LoadingVector(k int) []float64 {
	p, _ := b.Loadings.Dims()
	v := make([]float64, p)
	mat.Col(v, k, b.Loadings)
	return v
}

// ScoreVector returns a copy of the length-n score vector of component k.
func (b *ComponentBasis) ScoreVector(k int) []float64 {
	n, _ := b.Scores.Dims()
	v := make([]float64, n)
	mat.Col(v, k, b.Scores)
	return v
}

// GeneSet is a named subset of the variable index space. Member indexes are
// 0-based column positions in the DataMatrix, unique within a set.
type GeneSet struct {
	Name    string `json:"name"`
	Members []int  `json:"members"`
}

// BinaryMembership is the matrix form of set membership: one row per gene
// set, one 0/1 column per variable.
type BinaryMembership struct {
	GroupNames []string    `json:"group_names"`
	Rows       [][]float64 `json:"rows"`
}

// GroupMembership is a tagged union over the two accepted membership
// representations. Exactly one of Binary or Sets must be populated; the
// group index resolver canonicalizes either form into ordered gene sets.
type GroupMembership struct {
	Binary *BinaryMembership `json:"binary,omitempty"`
	Sets   []GeneSet         `json:"sets,omitempty"`
}

// Result holds the output of an enrichment run: one signed test statistic
// and one two-sided p-value per (gene set, component) pair. Row order
// follows the input membership order; column order follows the requested
// component indexes. No multiple-testing correction is applied.
type Result struct {
	GroupNames []string    `json:"group_names"`
	Components []int       `json:"components"`
	Statistics [][]float64 `json:"statistics"`
	PValues    [][]float64 `json:"p_values"`
}
