package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(ts ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range ts {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeGroupRepo struct {
	groups []*models.Group
}

func (r *fakeGroupRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error) {
	out := make([]*models.Group, 0)
	for _, g := range r.groups {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, id int) (*models.Group, error) {
	for _, g := range r.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, repositories.ErrGroupNotFound
}

type fakeTeamRepo struct {
	teams       []*models.Team
	assignCalls int
}

func (r *fakeTeamRepo) ListApprovedByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if t.TournamentID == tournamentID && t.Status == models.TeamStatusApproved {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTeamRepo) ListApprovedByGroup(ctx context.Context, groupID int) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if t.GroupID != nil && *t.GroupID == groupID && t.Status == models.TeamStatusApproved {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTeamRepo) AssignGroup(ctx context.Context, exec repositories.SQLExecutor, teamID, groupID int) error {
	for _, t := range r.teams {
		if t.ID == teamID {
			id := groupID
			t.GroupID = &id
			r.assignCalls++
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakeMatchRepo struct {
	matches    []*models.Match
	nextID     int
	replaceErr error

	replaceCalls   int
	lifecycleSaves int
	teamUpdates    int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{nextID: 1}
	for _, m := range matches {
		if m.ID == 0 {
			m.ID = r.nextID
		}
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.matches = append(r.matches, m)
	}
	return r
}

func (r *fakeMatchRepo) ReplaceFixture(ctx context.Context, tournamentID int, matches []*models.Match) error {
	r.replaceCalls++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	kept := r.matches[:0]
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	r.matches = kept
	for _, m := range matches {
		m.ID = r.nextID
		r.nextID++
		r.matches = append(r.matches, m)
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, phase *models.MatchPhase, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if phase != nil && m.Phase != *phase {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateLifecycle(ctx context.Context, match *models.Match) error {
	for i, m := range r.matches {
		if m.ID == match.ID {
			cp := *match
			r.matches[i] = &cp
			r.lifecycleSaves++
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) DecrementClock(ctx context.Context, matchID int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.ID == matchID {
			if m.Status != models.StatusLive || m.TimeRemaining <= 0 {
				return nil, repositories.ErrMatchClockStopped
			}
			m.TimeRemaining--
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateTeams(ctx context.Context, exec repositories.SQLExecutor, matchID int, teamAID, teamBID *int, status models.MatchStatus) error {
	for _, m := range r.matches {
		if m.ID == matchID {
			m.TeamAID = teamAID
			m.TeamBID = teamBID
			m.Status = status
			r.teamUpdates++
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) get(t *testing.T, id int) *models.Match {
	t.Helper()
	for _, m := range r.matches {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("match %d not in fake repo", id)
	return nil
}
