package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"pcenrich/domain/enrichment"
)

// Testkit generators produce the synthetic matrices the engine tests are
// built on. All generators are deterministic given the seed.

// mustMatrix wraps rows the generators built themselves, so any constructor
// error is a bug in the generator.
func mustMatrix(rows [][]float64) *enrichment.DataMatrix {
	m, err := enrichment.NewDataMatrix(rows, nil)
	if err != nil {
		panic(err)
	}
	return m
}

// NormalMatrix returns an n x p matrix of i.i.d. standard normal draws.
func NormalMatrix(seed int64, n, p int) *enrichment.DataMatrix {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, p)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		rows[i] = row
	}
	return mustMatrix(rows)
}

// CorrelatedBlockMatrix returns an n x p standard normal matrix whose
// columns listed in block share a latent factor so that every pair of block
// columns has correlation rho in expectation. Remaining columns stay
// independent.
func CorrelatedBlockMatrix(seed int64, n, p int, block []int, rho float64) *enrichment.DataMatrix {
	rng := rand.New(rand.NewSource(seed))
	inBlock := make(map[int]bool, len(block))
	for _, j := range block {
		inBlock[j] = true
	}
	a := math.Sqrt(rho)
	b := math.Sqrt(1 - rho)

	rows := make([][]float64, n)
	for i := range rows {
		factor := rng.NormFloat64()
		row := make([]float64, p)
		for j := range row {
			if inBlock[j] {
				row[j] = a*factor + b*rng.NormFloat64()
			} else {
				row[j] = rng.NormFloat64()
			}
		}
		rows[i] = row
	}
	return mustMatrix(rows)
}

// DisjointSets partitions the first count*size variable indexes into count
// equally sized gene sets named set01, set02, ...
func DisjointSets(count, size int) []enrichment.GeneSet {
	sets := make([]enrichment.GeneSet, count)
	for g := range sets {
		members := make([]int, size)
		for k := range members {
			members[k] = g*size + k
		}
		sets[g] = enrichment.GeneSet{Name: fmt.Sprintf("set%02d", g+1), Members: members}
	}
	return sets
}

// PlantedSignalScenario builds the benchmark dataset for the enrichment
// engine: 50 observations over 200 variables split into 20 disjoint
// ten-gene sets, where the members of the first set are driven by a shared
// latent factor (pairwise correlation about 0.9) so they load almost
// exclusively on the first principal component, while all other variables
// are independent noise.
func PlantedSignalScenario(seed int64) (*enrichment.DataMatrix, []enrichment.GeneSet) {
	const (
		n     = 50
		p     = 200
		sets  = 20
		size  = 10
		noise = 0.33
	)
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		factor := rng.NormFloat64()
		row := make([]float64, p)
		for j := range row {
			if j < size {
				row[j] = factor + noise*rng.NormFloat64()
			} else {
				row[j] = rng.NormFloat64()
			}
		}
		rows[i] = row
	}
	return mustMatrix(rows), DisjointSets(sets, size)
}
