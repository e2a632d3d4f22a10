package analysis

import (
	"fmt"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// ResolveGroups canonicalizes a membership representation into an ordered
// list of gene sets. The binary-matrix form is converted row by row; the
// index-set form is validated and passed through. Every member index must
// fall in [0,p). Sets with zero members are rejected outright rather than
// silently skipped, so a returned run is always complete.
func ResolveGroups(membership enrichment.GroupMembership, p int) ([]enrichment.GeneSet, error) {
	switch {
	case membership.Binary != nil && membership.Sets != nil:
		return nil, core.NewConfigurationError("membership", "supply either a binary matrix or index sets, not both")
	case membership.Binary != nil:
		return resolveBinary(membership.Binary, p)
	case membership.Sets != nil:
		return resolveSets(membership.Sets, p)
	default:
		return nil, core.NewConfigurationError("membership", "gene set membership is required")
	}
}

func resolveBinary(bin *enrichment.BinaryMembership, p int) ([]enrichment.GeneSet, error) {
	if len(bin.GroupNames) != len(bin.Rows) {
		return nil, core.NewConfigurationError("membership", "group name count does not match row count")
	}
	sets := make([]enrichment.GeneSet, 0, len(bin.Rows))
	for i, row := range bin.Rows {
		name := bin.GroupNames[i]
		if len(row) != p {
			return nil, core.NewConfigurationError("membership",
				fmt.Sprintf("row %q has %d columns, want %d", name, len(row), p))
		}
		var members []int
		for j, v := range row {
			switch v {
			case 0:
			case 1:
				members = append(members, j)
			default:
				return nil, core.NewConfigurationError("membership",
					fmt.Sprintf("row %q contains non-binary value %v at column %d", name, v, j))
			}
		}
		if len(members) == 0 {
			return nil, core.NewDegenerateGroupError(name, "no member variables")
		}
		sets = append(sets, enrichment.GeneSet{Name: name, Members: members})
	}
	return sets, nil
}

func resolveSets(in []enrichment.GeneSet, p int) ([]enrichment.GeneSet, error) {
	sets := make([]enrichment.GeneSet, 0, len(in))
	for _, set := range in {
		if len(set.Members) == 0 {
			return nil, core.NewDegenerateGroupError(set.Name, "no member variables")
		}
		seen := make(map[int]bool, len(set.Members))
		members := make([]int, 0, len(set.Members))
		for _, idx := range set.Members {
			if idx < 0 || idx >= p {
				return nil, core.NewConfigurationError("membership",
					fmt.Sprintf("set %q references variable index %d outside [0,%d)", set.Name, idx, p))
			}
			if seen[idx] {
				return nil, core.NewConfigurationError("membership",
					fmt.Sprintf("set %q lists variable index %d twice", set.Name, idx))
			}
			seen[idx] = true
			members = append(members, idx)
		}
		sets = append(sets, enrichment.GeneSet{Name: set.Name, Members: members})
	}
	return sets, nil
}

// BinaryFromSets rebuilds the binary-matrix representation from canonical
// gene sets. Resolving the output reproduces the input sets.
func BinaryFromSets(sets []enrichment.GeneSet, p int) *enrichment.BinaryMembership {
	bin := &enrichment.BinaryMembership{
		GroupNames: make([]string, len(sets)),
		Rows:       make([][]float64, len(sets)),
	}
	for i, set := range sets {
		bin.GroupNames[i] = set.Name
		row := make([]float64, p)
		for _, idx := range set.Members {
			row[idx] = 1
		}
		bin.Rows[i] = row
	}
	return bin
}
