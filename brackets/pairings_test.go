package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairings(t *testing.T) {
	tests := []struct {
		name    string
		teamIDs []int
		want    int
	}{
		{"no teams", nil, 0},
		{"one team", []int{7}, 0},
		{"two teams", []int{1, 2}, 1},
		{"three teams", []int{1, 2, 3}, 3},
		{"five teams", []int{1, 2, 3, 4, 5}, 10},
		{"nine teams", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := Pairings(tt.teamIDs)
			assert.Len(t, pairs, tt.want)

			seen := make(map[Pair]bool)
			for _, p := range pairs {
				assert.NotEqual(t, p.TeamA, p.TeamB, "self-pair %v", p)
				assert.False(t, seen[p], "duplicate pair %v", p)
				seen[p] = true
			}
		})
	}
}

func TestPairingsOrder(t *testing.T) {
	pairs := Pairings([]int{10, 20, 30, 40})

	want := []Pair{
		{10, 20}, {10, 30}, {10, 40},
		{20, 30}, {20, 40},
		{30, 40},
	}
	assert.Equal(t, want, pairs)
}
