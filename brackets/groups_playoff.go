package brackets

import (
	"context"
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

type GroupsPlayoffBuilder struct{}

func NewGroupsPlayoffBuilder() FixtureBuilder {
	return &GroupsPlayoffBuilder{}
}

func (b *GroupsPlayoffBuilder) GetName() string {
	return "GroupsPlayoff"
}

// BuildFixture emits every group's round-robin matches, interleaved across
// groups by the fairness scheduler, followed by the playoff skeleton with
// all team slots unassigned. The skeleton gets filled by the advancement
// service once the group tables are final.
func (b *GroupsPlayoffBuilder) BuildFixture(ctx context.Context, params BuildFixtureParams) ([]*models.Match, error) {
	tournament := params.Tournament

	if len(params.Groups) == 0 {
		return nil, fmt.Errorf("tournament %d: %w", tournament.ID, ErrNoGroupsConfigured)
	}

	pools := make([]Pool, 0, len(params.Groups))
	for _, rg := range params.Groups {
		groupID := rg.Group.ID
		pools = append(pools, Pool{
			GroupID: &groupID,
			Round:   rg.Group.Name,
			Pairs:   Pairings(teamIDs(rg.Teams)),
		})
	}

	scheduled := ScheduleFairly(pools)

	matches := make([]*models.Match, 0, len(scheduled)+tournament.TeamsAdvancePerGroup+2)
	for _, sp := range scheduled {
		matches = append(matches, &models.Match{
			TournamentID: tournament.ID,
			Phase:        models.PhaseGroups,
			Round:        sp.Round,
			GroupID:      sp.GroupID,
			TeamAID:      intPtr(sp.TeamA),
			TeamBID:      intPtr(sp.TeamB),
			Status:       models.StatusPending,
		})
	}

	if tournament.TeamsAdvancePerGroup >= 2 {
		for i := 0; i < tournament.TeamsAdvancePerGroup; i++ {
			matches = append(matches, playoffSlot(tournament.ID, models.RoundSemifinal))
		}
	}
	matches = append(matches, playoffSlot(tournament.ID, models.RoundFinal))
	if tournament.ThirdPlaceMatch {
		matches = append(matches, playoffSlot(tournament.ID, models.RoundThirdPlace))
	}

	return matches, nil
}

func playoffSlot(tournamentID int, round string) *models.Match {
	return &models.Match{
		TournamentID: tournamentID,
		Phase:        models.PhasePlayoff,
		Round:        round,
		Status:       models.StatusSlot,
	}
}
