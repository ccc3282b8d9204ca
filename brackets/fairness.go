package brackets

// Pool is one independent multiset of pending pairings, typically one per
// group. Pool order is the first tie-break when rest scores are equal.
type Pool struct {
	GroupID *int
	Round   string
	Pairs   []Pair
}

// ScheduledPairing is a pairing placed at its final position in the merged
// match sequence, carrying the pool it came from.
type ScheduledPairing struct {
	Pair
	GroupID *int
	Round   string
}

// ScheduleFairly merges all pools into one globally ordered sequence,
// greedily picking at every slot the pairing whose most rest-starved team
// has waited the longest. Ties fall back to encounter order: pool order,
// then pairing order within the pool. O(P^2) over the total pairing count,
// which is fine at tournament scale.
func ScheduleFairly(pools []Pool) []ScheduledPairing {
	pending := make([][]Pair, len(pools))
	total := 0
	for i, pool := range pools {
		pending[i] = append([]Pair(nil), pool.Pairs...)
		total += len(pool.Pairs)
	}

	lastPlayed := make(map[int]int, total)
	out := make([]ScheduledPairing, 0, total)

	// rest returns the number of slots since the team last appeared.
	// A team that has not played yet outrests every team that has: the
	// largest possible recorded gap at slot idx is idx itself.
	rest := func(team, idx int) int {
		if last, ok := lastPlayed[team]; ok {
			return idx - last
		}
		return idx + 1
	}

	for idx := 0; len(out) < total; idx++ {
		bestPool, bestPair, bestScore := -1, -1, -1

		for pi := range pending {
			for qi, pair := range pending[pi] {
				score := rest(pair.TeamA, idx)
				if b := rest(pair.TeamB, idx); b < score {
					score = b
				}
				if score > bestScore {
					bestPool, bestPair, bestScore = pi, qi, score
				}
			}
		}

		pair := pending[bestPool][bestPair]
		pending[bestPool] = append(pending[bestPool][:bestPair], pending[bestPool][bestPair+1:]...)

		lastPlayed[pair.TeamA] = idx
		lastPlayed[pair.TeamB] = idx

		out = append(out, ScheduledPairing{
			Pair:    pair,
			GroupID: pools[bestPool].GroupID,
			Round:   pools[bestPool].Round,
		})
	}

	return out
}
