// Package ports defines the interfaces the application layer depends on,
// keeping adapters (database, spreadsheet files) swappable.
package ports

import (
	"context"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// RunStore persists completed enrichment runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *enrichment.Run) error
	GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*enrichment.Run, error)
}

// MatrixSource loads an observations-by-variables data matrix.
type MatrixSource interface {
	ReadMatrix() (*enrichment.DataMatrix, error)
}

// GeneSetSource loads gene sets, resolving gene names against the variable
// names of a previously loaded matrix.
type GeneSetSource interface {
	ReadGeneSets(variableNames []string) ([]enrichment.GeneSet, error)
}
