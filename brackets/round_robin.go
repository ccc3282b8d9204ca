package brackets

import (
	"context"
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

type RoundRobinBuilder struct{}

func NewRoundRobinBuilder() FixtureBuilder {
	return &RoundRobinBuilder{}
}

func (b *RoundRobinBuilder) GetName() string {
	return "RoundRobin"
}

// BuildFixture pairs every approved team against every other, ignoring
// group configuration, and emits matches in raw pairing order under a
// single fixed round label. Unlike the grouped format the fairness
// scheduler is intentionally not applied here; the shipped product
// behaves this way and changing it needs product sign-off.
func (b *RoundRobinBuilder) BuildFixture(ctx context.Context, params BuildFixtureParams) ([]*models.Match, error) {
	tournament := params.Tournament

	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("tournament %d: %w (found %d)", tournament.ID, ErrNotEnoughTeams, len(params.Teams))
	}

	pairs := Pairings(teamIDs(params.Teams))

	matches := make([]*models.Match, 0, len(pairs))
	for _, pair := range pairs {
		matches = append(matches, &models.Match{
			TournamentID: tournament.ID,
			Phase:        models.PhaseNone,
			Round:        models.RoundRobinLabel,
			TeamAID:      intPtr(pair.TeamA),
			TeamBID:      intPtr(pair.TeamB),
			Status:       models.StatusPending,
		})
	}

	return matches, nil
}
