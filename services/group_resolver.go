package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matchdayhq/fixture-engine/brackets"
	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/repositories"
)

// GroupResolver decides which approved teams belong to which group.
//
// Two resolution paths exist: the explicit group_id link, and a fallback
// that infers membership from the legacy free-text zone label old admin
// screens wrote onto teams ("Zona C" matches the group whose name ends in
// "C"). The fallback writes the explicit link back so the next resolution
// takes the first path; ReconcileLegacyLabels exposes that repair as an
// idempotent operation callable outside fixture generation.
type GroupResolver interface {
	Resolve(ctx context.Context, tournamentID int) ([]brackets.ResolvedGroup, error)
	ReconcileLegacyLabels(ctx context.Context, tournamentID int) (int, error)
}

type groupResolver struct {
	groupRepo repositories.GroupRepository
	teamRepo  repositories.TeamRepository
	logger    *slog.Logger
}

func NewGroupResolver(
	groupRepo repositories.GroupRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) GroupResolver {
	return &groupResolver{
		groupRepo: groupRepo,
		teamRepo:  teamRepo,
		logger:    logger,
	}
}

func (r *groupResolver) Resolve(ctx context.Context, tournamentID int) ([]brackets.ResolvedGroup, error) {
	groups, err := r.groupRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for tournament %d: %w", tournamentID, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrNoGroupsConfigured)
	}

	// Loaded lazily, only if some group needs the legacy fallback.
	var unlinked []*models.Team

	resolved := make([]brackets.ResolvedGroup, 0, len(groups))
	for _, group := range groups {
		teams, err := r.teamRepo.ListApprovedByGroup(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for group %d: %w", group.ID, err)
		}

		if len(teams) == 0 {
			if unlinked == nil {
				unlinked, err = r.listUnlinked(ctx, tournamentID)
				if err != nil {
					return nil, err
				}
			}
			teams, err = r.repairFromLegacyLabels(ctx, group, unlinked)
			if err != nil {
				return nil, err
			}
		}

		if len(teams) == 0 {
			r.logger.Warn("group resolved to zero approved teams, skipping",
				slog.Int("tournament_id", tournamentID),
				slog.Int("group_id", group.ID),
				slog.String("group_name", group.Name))
			continue
		}

		rg := brackets.ResolvedGroup{Group: *group}
		for _, t := range teams {
			rg.Teams = append(rg.Teams, *t)
		}
		resolved = append(resolved, rg)
	}

	if len(resolved) == 0 {
		return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrNoSchedulableTeams)
	}
	return resolved, nil
}

// ReconcileLegacyLabels runs the label repair for every group of the
// tournament and reports how many teams got their explicit link written.
// Teams already linked are untouched, so repeated runs are no-ops.
func (r *groupResolver) ReconcileLegacyLabels(ctx context.Context, tournamentID int) (int, error) {
	groups, err := r.groupRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list groups for tournament %d: %w", tournamentID, err)
	}

	unlinked, err := r.listUnlinked(ctx, tournamentID)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, group := range groups {
		teams, err := r.repairFromLegacyLabels(ctx, group, unlinked)
		if err != nil {
			return repaired, err
		}
		repaired += len(teams)
	}
	return repaired, nil
}

func (r *groupResolver) listUnlinked(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	all, err := r.teamRepo.ListApprovedByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved teams for tournament %d: %w", tournamentID, err)
	}
	unlinked := make([]*models.Team, 0, len(all))
	for _, t := range all {
		if t.GroupID == nil {
			unlinked = append(unlinked, t)
		}
	}
	return unlinked, nil
}

// repairFromLegacyLabels matches still-unlinked teams against the group's
// trailing letter and writes the explicit link back for every hit.
func (r *groupResolver) repairFromLegacyLabels(ctx context.Context, group *models.Group, unlinked []*models.Team) ([]*models.Team, error) {
	letter := trailingToken(group.Name)
	if letter == "" {
		return nil, nil
	}

	matched := make([]*models.Team, 0)
	for _, team := range unlinked {
		if team.GroupID != nil || team.LegacyGroupLabel == nil {
			continue
		}
		if !legacyLabelMatches(*team.LegacyGroupLabel, letter) {
			continue
		}
		if err := r.teamRepo.AssignGroup(ctx, nil, team.ID, group.ID); err != nil {
			return nil, fmt.Errorf("failed to write back group link for team %d: %w", team.ID, err)
		}
		groupID := group.ID
		team.GroupID = &groupID
		matched = append(matched, team)

		r.logger.Info("repaired legacy group label",
			slog.Int("team_id", team.ID),
			slog.Int("group_id", group.ID),
			slog.String("label", *team.LegacyGroupLabel))
	}
	return matched, nil
}

// trailingToken returns the last whitespace-separated token of a label,
// "Zona C" -> "C".
func trailingToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func legacyLabelMatches(label, groupLetter string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	return strings.EqualFold(label, groupLetter) || strings.EqualFold(trailingToken(label), groupLetter)
}
