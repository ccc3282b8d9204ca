package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

var (
	ErrNotEnoughTeams     = errors.New("not enough teams to build a fixture (minimum 2 required)")
	ErrNoGroupsConfigured = errors.New("no groups configured for grouped format")
)

// ResolvedGroup is a configured group together with its approved teams,
// produced by the group resolver. Groups that resolved empty are already
// dropped before a builder sees them.
type ResolvedGroup struct {
	Group models.Group
	Teams []models.Team
}

type BuildFixtureParams struct {
	Tournament *models.Tournament
	Groups     []ResolvedGroup
	// Teams holds every approved team in seed order. Grouped builders
	// ignore it and work from Groups.
	Teams []models.Team
}

// FixtureBuilder produces the complete ordered match list for one
// tournament format. Match numbers are assigned later by the fixture
// service over the full concatenation.
type FixtureBuilder interface {
	BuildFixture(ctx context.Context, params BuildFixtureParams) ([]*models.Match, error)

	GetName() string
}

func BuilderForFormat(format models.TournamentFormat) (FixtureBuilder, error) {
	switch format {
	case models.FormatGroupsPlayoff:
		return NewGroupsPlayoffBuilder(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinBuilder(), nil
	case models.FormatSingleElimination:
		return NewSingleEliminationBuilder(), nil
	default:
		return nil, fmt.Errorf("unsupported tournament format %q", format)
	}
}

func teamIDs(teams []models.Team) []int {
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}

func intPtr(v int) *int { return &v }
