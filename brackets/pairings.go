package brackets

// Pair is one unordered round-robin pairing. TeamA always comes before
// TeamB in the input order.
type Pair struct {
	TeamA int
	TeamB int
}

// Pairings enumerates all n(n-1)/2 unordered pairs of the given team IDs
// by nested ascending index, so the input (seed) order is the tie-break
// for every downstream consumer. Fewer than two teams yields no pairs.
func Pairings(teamIDs []int) []Pair {
	if len(teamIDs) < 2 {
		return nil
	}

	pairs := make([]Pair, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pairs = append(pairs, Pair{TeamA: teamIDs[i], TeamB: teamIDs[j]})
		}
	}
	return pairs
}
