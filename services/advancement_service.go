package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/repositories"
)

// AdvancementService moves teams into the bracket slots the fixture
// builders left unassigned. The generators only allocate bracket shape;
// this is the component that fills it: group standings feed the playoff
// semifinals, and finished bracket rounds feed the next round's slots.
type AdvancementService interface {
	Standings(ctx context.Context, tournamentID int) ([]models.GroupStanding, error)
	SeedPlayoffs(ctx context.Context, tournamentID int) ([]*models.Match, error)
	PropagateWinners(ctx context.Context, tournamentID int) (int, error)
}

type advancementService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewAdvancementService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

// Standings computes the live group tables: three points for a win, one
// for a draw, ranked by points, then score difference, then score for.
// Only finished matches count.
func (s *advancementService) Standings(ctx context.Context, tournamentID int) ([]models.GroupStanding, error) {
	phase := models.PhaseGroups
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &phase, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list group matches for tournament %d: %w", tournamentID, err)
	}

	teams, err := s.teamRepo.ListApprovedByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	teamNames := make(map[int]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	byGroup := make(map[int]map[int]*models.GroupStanding)
	groupOrder := make([]int, 0)

	row := func(groupID, teamID int) *models.GroupStanding {
		group, ok := byGroup[groupID]
		if !ok {
			group = make(map[int]*models.GroupStanding)
			byGroup[groupID] = group
			groupOrder = append(groupOrder, groupID)
		}
		st, ok := group[teamID]
		if !ok {
			st = &models.GroupStanding{
				TournamentID: tournamentID,
				GroupID:      groupID,
				TeamID:       teamID,
				TeamName:     teamNames[teamID],
			}
			group[teamID] = st
		}
		return st
	}

	for _, m := range matches {
		if m.GroupID == nil || m.TeamAID == nil || m.TeamBID == nil {
			continue
		}
		// Every group team shows up in the table even before results.
		a := row(*m.GroupID, *m.TeamAID)
		b := row(*m.GroupID, *m.TeamBID)

		if m.Status != models.StatusFinished {
			continue
		}
		a.GamesPlayed++
		b.GamesPlayed++
		a.ScoreFor += m.ScoreA
		a.ScoreAgainst += m.ScoreB
		b.ScoreFor += m.ScoreB
		b.ScoreAgainst += m.ScoreA

		switch {
		case m.ScoreA > m.ScoreB:
			a.Wins++
			a.Points += 3
			b.Losses++
		case m.ScoreB > m.ScoreA:
			b.Wins++
			b.Points += 3
			a.Losses++
		default:
			a.Draws++
			b.Draws++
			a.Points++
			b.Points++
		}
	}

	out := make([]models.GroupStanding, 0)
	for _, groupID := range groupOrder {
		rows := make([]*models.GroupStanding, 0, len(byGroup[groupID]))
		for _, st := range byGroup[groupID] {
			st.ScoreDifference = st.ScoreFor - st.ScoreAgainst
			rows = append(rows, st)
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Points != rows[j].Points {
				return rows[i].Points > rows[j].Points
			}
			if rows[i].ScoreDifference != rows[j].ScoreDifference {
				return rows[i].ScoreDifference > rows[j].ScoreDifference
			}
			if rows[i].ScoreFor != rows[j].ScoreFor {
				return rows[i].ScoreFor > rows[j].ScoreFor
			}
			return rows[i].TeamID < rows[j].TeamID
		})
		for rank, st := range rows {
			st.Rank = rank + 1
			out = append(out, *st)
		}
	}
	return out, nil
}

// SeedPlayoffs fills the semifinal slots of a groups-playoff tournament
// once every group match is finished. Qualifiers are the top
// TeamsAdvancePerGroup of each group table; the best remaining qualifier
// meets the worst remaining one, so slot 1 gets 1st vs lowest seed.
func (s *advancementService) SeedPlayoffs(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}

	phase := models.PhaseGroups
	groupMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &phase, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range groupMatches {
		if m.Status != models.StatusFinished && m.Status != models.StatusCanceled {
			return nil, fmt.Errorf("%w: match %d still %s", ErrGroupStageNotFinished, m.ID, m.Status)
		}
	}

	standings, err := s.Standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	qualifiers := make([]models.GroupStanding, 0)
	for _, st := range standings {
		if st.Rank <= tournament.TeamsAdvancePerGroup {
			qualifiers = append(qualifiers, st)
		}
	}
	sort.SliceStable(qualifiers, func(i, j int) bool {
		if qualifiers[i].Rank != qualifiers[j].Rank {
			return qualifiers[i].Rank < qualifiers[j].Rank
		}
		if qualifiers[i].Points != qualifiers[j].Points {
			return qualifiers[i].Points > qualifiers[j].Points
		}
		return qualifiers[i].ScoreDifference > qualifiers[j].ScoreDifference
	})

	playoff := models.PhasePlayoff
	playoffMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &playoff, nil)
	if err != nil {
		return nil, err
	}
	semis := make([]*models.Match, 0)
	for _, m := range playoffMatches {
		if m.Round == models.RoundSemifinal && m.IsSlot() {
			semis = append(semis, m)
		}
	}
	if len(semis) == 0 {
		return nil, fmt.Errorf("%w: tournament %d", ErrPlayoffSlotsMissing, tournamentID)
	}
	if len(qualifiers) < 2*len(semis) {
		return nil, fmt.Errorf("%w: %d qualifiers for %d semifinal slots",
			ErrNoSchedulableTeams, len(qualifiers), len(semis))
	}

	seeded := make([]*models.Match, 0, len(semis))
	for i, semi := range semis {
		teamA := qualifiers[i].TeamID
		teamB := qualifiers[2*len(semis)-1-i].TeamID
		if err := s.matchRepo.UpdateTeams(ctx, nil, semi.ID, &teamA, &teamB, models.StatusPending); err != nil {
			return nil, fmt.Errorf("failed to seed semifinal %d: %w", semi.ID, err)
		}
		semi.TeamAID = &teamA
		semi.TeamBID = &teamB
		semi.Status = models.StatusPending
		seeded = append(seeded, semi)

		s.logger.Info("semifinal seeded",
			slog.Int("tournament_id", tournamentID),
			slog.Int("match_id", semi.ID),
			slog.Int("team_a_id", teamA),
			slog.Int("team_b_id", teamB))
	}
	return seeded, nil
}

// PropagateWinners copies finished-round winners into the next round's
// unassigned slots, and semifinal losers into the third-place slot.
// Byes advance without a result. Returns the number of slot sides filled.
func (s *advancementService) PropagateWinners(ctx context.Context, tournamentID int) (int, error) {
	playoff := models.PhasePlayoff
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &playoff, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list playoff matches for tournament %d: %w", tournamentID, err)
	}

	rounds, order := groupByRound(matches)
	if len(order) < 2 {
		return 0, nil
	}

	filled := 0
	for r := 0; r+1 < len(order); r++ {
		source := rounds[order[r]]
		target := rounds[order[r+1]]

		// The first listed round was seeded directly, so its byes are
		// structural. Later rounds are fed by the round before them;
		// there a missing side only counts as a bye when its feeder
		// index falls outside that round.
		feederCount := -1
		if r > 0 {
			feederCount = len(rounds[order[r-1]])
		}

		for j, slot := range target {
			winnerA := advancingTeam(source, 2*j, feederCount)
			winnerB := advancingTeam(source, 2*j+1, feederCount)

			changed := false
			if slot.TeamAID == nil && winnerA != nil {
				slot.TeamAID = winnerA
				changed = true
				filled++
			}
			if slot.TeamBID == nil && winnerB != nil {
				slot.TeamBID = winnerB
				changed = true
				filled++
			}
			if !changed {
				continue
			}

			status := slot.Status
			if slot.TeamAID != nil && slot.TeamBID != nil && status == models.StatusSlot {
				status = models.StatusPending
			}
			if err := s.matchRepo.UpdateTeams(ctx, nil, slot.ID, slot.TeamAID, slot.TeamBID, status); err != nil {
				return filled, fmt.Errorf("failed to fill slot match %d: %w", slot.ID, err)
			}
			slot.Status = status
		}
	}

	n, err := s.fillThirdPlace(ctx, rounds, matches)
	if err != nil {
		return filled, err
	}
	filled += n

	if filled > 0 {
		s.logger.Info("bracket winners propagated",
			slog.Int("tournament_id", tournamentID),
			slog.Int("slots_filled", filled))
	}
	return filled, nil
}

func (s *advancementService) fillThirdPlace(ctx context.Context, rounds map[string][]*models.Match, matches []*models.Match) (int, error) {
	var thirdPlace *models.Match
	for _, m := range matches {
		if m.Round == models.RoundThirdPlace {
			thirdPlace = m
			break
		}
	}
	semis := rounds[models.RoundSemifinal]
	if thirdPlace == nil || len(semis) < 2 {
		return 0, nil
	}

	filled := 0
	losers := []**int{&thirdPlace.TeamAID, &thirdPlace.TeamBID}
	for i := 0; i < 2 && i < len(semis); i++ {
		loser := losingTeam(semis[i])
		if loser == nil || *losers[i] != nil {
			continue
		}
		*losers[i] = loser
		filled++
	}
	if filled == 0 {
		return 0, nil
	}

	status := thirdPlace.Status
	if thirdPlace.TeamAID != nil && thirdPlace.TeamBID != nil && status == models.StatusSlot {
		status = models.StatusPending
	}
	if err := s.matchRepo.UpdateTeams(ctx, nil, thirdPlace.ID, thirdPlace.TeamAID, thirdPlace.TeamBID, status); err != nil {
		return 0, fmt.Errorf("failed to fill third place match %d: %w", thirdPlace.ID, err)
	}
	return filled, nil
}

// groupByRound buckets playoff matches by round label, preserving the
// generation order of rounds (match numbers ascend through the bracket).
// The third-place match sits outside the advancement chain.
func groupByRound(matches []*models.Match) (map[string][]*models.Match, []string) {
	rounds := make(map[string][]*models.Match)
	order := make([]string, 0)
	for _, m := range matches {
		if m.Round == models.RoundThirdPlace {
			continue
		}
		if _, ok := rounds[m.Round]; !ok {
			order = append(order, m.Round)
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}
	return rounds, order
}

// advancingTeam resolves who comes out of the i-th match of a round:
// the recorded winner for finished matches, team A for byes, nil while
// the match is undecided or the feeder does not exist. feederCount is
// the size of the round feeding this one (-1 for a seeded round): a
// missing team B is only a bye when feeder 2i+1 lies outside that
// round, otherwise the opponent just is not decided yet.
func advancingTeam(round []*models.Match, i, feederCount int) *int {
	if i >= len(round) {
		return nil
	}
	m := round[i]
	if m.Status == models.StatusFinished && m.WinnerID != nil {
		return m.WinnerID
	}
	if m.IsBye() && (feederCount < 0 || 2*i+1 >= feederCount) {
		return m.TeamAID
	}
	return nil
}

func losingTeam(m *models.Match) *int {
	if m.Status != models.StatusFinished || m.WinnerID == nil || m.TeamAID == nil || m.TeamBID == nil {
		return nil
	}
	if *m.WinnerID == *m.TeamAID {
		return m.TeamBID
	}
	return m.TeamAID
}
