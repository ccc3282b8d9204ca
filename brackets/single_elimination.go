package brackets

import (
	"context"
	"fmt"
	"math"

	"github.com/matchdayhq/fixture-engine/models"
)

type SingleEliminationBuilder struct{}

func NewSingleEliminationBuilder() FixtureBuilder {
	return &SingleEliminationBuilder{}
}

func (b *SingleEliminationBuilder) GetName() string {
	return "SingleElimination"
}

// BuildFixture only allocates the bracket shape. Round 0 takes its
// assignments pairwise from the seed list, giving the trailing team a bye
// when the count is odd; every later round is emitted as an unassigned
// slot for the advancement service to fill from round winners.
func (b *SingleEliminationBuilder) BuildFixture(ctx context.Context, params BuildFixtureParams) ([]*models.Match, error) {
	tournament := params.Tournament
	teams := params.Teams
	n := len(teams)

	if n < 2 {
		return nil, fmt.Errorf("tournament %d: %w (found %d)", tournament.ID, ErrNotEnoughTeams, n)
	}

	rounds := int(math.Ceil(math.Log2(float64(n))))

	matches := make([]*models.Match, 0, n)
	roundTeams := n
	for r := 0; r < rounds; r++ {
		matchesInRound := (roundTeams + 1) / 2
		label := eliminationRoundLabel(r, rounds)

		for i := 0; i < matchesInRound; i++ {
			m := &models.Match{
				TournamentID: tournament.ID,
				Phase:        models.PhasePlayoff,
				Round:        label,
				Status:       models.StatusSlot,
			}
			if r == 0 {
				m.TeamAID = intPtr(teams[2*i].ID)
				if 2*i+1 < n {
					m.TeamBID = intPtr(teams[2*i+1].ID)
					m.Status = models.StatusPending
				}
				// Odd team count leaves the last pairing as a bye:
				// team A advances unopposed.
			}
			matches = append(matches, m)
		}
		roundTeams = matchesInRound
	}

	if tournament.ThirdPlaceMatch {
		matches = append(matches, playoffSlot(tournament.ID, models.RoundThirdPlace))
	}

	return matches, nil
}

func eliminationRoundLabel(r, rounds int) string {
	switch r {
	case rounds - 1:
		return models.RoundFinal
	case rounds - 2:
		return models.RoundSemifinal
	default:
		return fmt.Sprintf("round_%d", r+1)
	}
}
