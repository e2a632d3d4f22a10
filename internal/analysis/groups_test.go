package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

func TestResolveGroups_BinaryMatrix(t *testing.T) {
	membership := enrichment.GroupMembership{
		Binary: &enrichment.BinaryMembership{
			GroupNames: []string{"first", "second"},
			Rows: [][]float64{
				{1, 1, 0, 0, 1},
				{0, 0, 1, 1, 0},
			},
		},
	}

	sets, err := ResolveGroups(membership, 5)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "first", sets[0].Name)
	assert.Equal(t, []int{0, 1, 4}, sets[0].Members)
	assert.Equal(t, "second", sets[1].Name)
	assert.Equal(t, []int{2, 3}, sets[1].Members)
}

func TestResolveGroups_IndexSets(t *testing.T) {
	membership := enrichment.GroupMembership{
		Sets: []enrichment.GeneSet{{Name: "only", Members: []int{3, 1}}},
	}

	sets, err := ResolveGroups(membership, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, sets[0].Members)
}

func TestResolveGroups_Errors(t *testing.T) {
	tests := []struct {
		name       string
		membership enrichment.GroupMembership
		p          int
		wantErr    error
	}{
		{
			name:       "missing membership",
			membership: enrichment.GroupMembership{},
			p:          4,
			wantErr:    core.ErrConfiguration,
		},
		{
			name: "both representations",
			membership: enrichment.GroupMembership{
				Binary: &enrichment.BinaryMembership{GroupNames: []string{"a"}, Rows: [][]float64{{1, 0}}},
				Sets:   []enrichment.GeneSet{{Name: "a", Members: []int{0}}},
			},
			p:       2,
			wantErr: core.ErrConfiguration,
		},
		{
			name: "empty binary row",
			membership: enrichment.GroupMembership{
				Binary: &enrichment.BinaryMembership{GroupNames: []string{"empty"}, Rows: [][]float64{{0, 0, 0}}},
			},
			p:       3,
			wantErr: core.ErrDegenerateGroup,
		},
		{
			name: "non-binary value",
			membership: enrichment.GroupMembership{
				Binary: &enrichment.BinaryMembership{GroupNames: []string{"bad"}, Rows: [][]float64{{1, 2, 0}}},
			},
			p:       3,
			wantErr: core.ErrConfiguration,
		},
		{
			name: "row width mismatch",
			membership: enrichment.GroupMembership{
				Binary: &enrichment.BinaryMembership{GroupNames: []string{"short"}, Rows: [][]float64{{1, 0}}},
			},
			p:       3,
			wantErr: core.ErrConfiguration,
		},
		{
			name: "index out of range",
			membership: enrichment.GroupMembership{
				Sets: []enrichment.GeneSet{{Name: "oob", Members: []int{0, 7}}},
			},
			p:       4,
			wantErr: core.ErrConfiguration,
		},
		{
			name: "duplicate index",
			membership: enrichment.GroupMembership{
				Sets: []enrichment.GeneSet{{Name: "dup", Members: []int{2, 2}}},
			},
			p:       4,
			wantErr: core.ErrConfiguration,
		},
		{
			name: "empty set",
			membership: enrichment.GroupMembership{
				Sets: []enrichment.GeneSet{{Name: "empty", Members: nil}},
			},
			p:       4,
			wantErr: core.ErrDegenerateGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveGroups(tt.membership, tt.p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBinaryFromSets_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const p = 30

	for trial := 0; trial < 50; trial++ {
		bin := &enrichment.BinaryMembership{}
		for g := 0; g < 5; g++ {
			row := make([]float64, p)
			members := 0
			for j := range row {
				if rng.Float64() < 0.3 {
					row[j] = 1
					members++
				}
			}
			if members == 0 {
				row[rng.Intn(p)] = 1
			}
			bin.GroupNames = append(bin.GroupNames, string(rune('a'+g)))
			bin.Rows = append(bin.Rows, row)
		}

		sets, err := ResolveGroups(enrichment.GroupMembership{Binary: bin}, p)
		require.NoError(t, err)

		back := BinaryFromSets(sets, p)
		assert.Equal(t, bin.GroupNames, back.GroupNames)
		assert.Equal(t, bin.Rows, back.Rows)
	}
}
