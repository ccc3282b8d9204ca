package repositories

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchdayhq/fixture-engine/models"
)

func newMockDB(t *testing.T) (*postgresMatchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &postgresMatchRepository{db: db}, mock
}

func matchRows(matches ...*models.Match) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "tournament_id", "phase", "round", "group_id", "team_a_id", "team_b_id",
		"match_number", "status", "current_period", "time_remaining", "golden_point",
		"team_a_score", "team_b_score", "fouls_a", "fouls_b", "winner_id", "scheduled_at", "created_at",
	})
	nullable := func(p *int) driver.Value {
		if p == nil {
			return nil
		}
		return int64(*p)
	}
	for _, m := range matches {
		var scheduled driver.Value
		if m.ScheduledAt != nil {
			scheduled = *m.ScheduledAt
		}
		rows.AddRow(
			m.ID, m.TournamentID, string(m.Phase), m.Round,
			nullable(m.GroupID), nullable(m.TeamAID), nullable(m.TeamBID),
			m.MatchNumber, string(m.Status), m.CurrentPeriod, m.TimeRemaining, m.GoldenPoint,
			m.ScoreA, m.ScoreB, m.FoulsA, m.FoulsB, nullable(m.WinnerID), scheduled, m.CreatedAt,
		)
	}
	return rows
}

func TestReplaceFixtureCommits(t *testing.T) {
	repo, mock := newMockDB(t)

	groupID, teamA, teamB := 1, 101, 102
	matches := []*models.Match{
		{
			TournamentID: 9, Phase: models.PhaseGroups, Round: "Zona A",
			GroupID: &groupID, TeamAID: &teamA, TeamBID: &teamB,
			MatchNumber: 1, Status: models.StatusPending,
		},
		{
			TournamentID: 9, Phase: models.PhasePlayoff, Round: models.RoundFinal,
			MatchNumber: 2, Status: models.StatusSlot,
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM matches WHERE tournament_id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 5))
	for i := range matches {
		mock.ExpectQuery(`INSERT INTO matches`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(i+1, time.Now()))
	}
	mock.ExpectCommit()

	err := repo.ReplaceFixture(context.Background(), 9, matches)
	require.NoError(t, err)

	assert.Equal(t, 1, matches[0].ID)
	assert.Equal(t, 2, matches[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceFixtureRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockDB(t)

	matches := []*models.Match{
		{TournamentID: 9, MatchNumber: 1, Status: models.StatusPending},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM matches WHERE tournament_id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO matches`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "matches_tournament_id_match_number_key"})
	mock.ExpectRollback()

	err := repo.ReplaceFixture(context.Background(), 9, matches)
	assert.ErrorIs(t, err, ErrMatchNumberConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceFixtureRollsBackOnDeleteFailure(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM matches WHERE tournament_id = \$1`).
		WithArgs(9).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceFixture(context.Background(), 9, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockDB(t)

	teamA, teamB := 101, 102
	stored := &models.Match{
		ID: 4, TournamentID: 9, Phase: models.PhaseGroups, Round: "Zona A",
		TeamAID: &teamA, TeamBID: &teamB, MatchNumber: 4,
		Status: models.StatusLive, CurrentPeriod: 1, TimeRemaining: 900,
		CreatedAt: time.Now(),
	}
	mock.ExpectQuery(`SELECT .+ FROM matches WHERE id = \$1`).
		WithArgs(4).
		WillReturnRows(matchRows(stored))

	match, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, match.ID)
	assert.Equal(t, models.StatusLive, match.Status)
	assert.Equal(t, 900, match.TimeRemaining)
	require.NotNil(t, match.TeamAID)
	assert.Equal(t, 101, *match.TeamAID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM matches WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(matchRows())

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListByTournamentFilters(t *testing.T) {
	repo, mock := newMockDB(t)

	phase := models.PhaseGroups
	status := models.StatusFinished

	mock.ExpectQuery(`SELECT .+ FROM matches WHERE tournament_id = \$1 AND phase = \$2 AND status = \$3 ORDER BY match_number ASC`).
		WithArgs(9, phase, status).
		WillReturnRows(matchRows(
			&models.Match{ID: 1, TournamentID: 9, Phase: phase, Status: status, MatchNumber: 1, CreatedAt: time.Now()},
			&models.Match{ID: 2, TournamentID: 9, Phase: phase, Status: status, MatchNumber: 2, CreatedAt: time.Now()},
		))

	matches, err := repo.ListByTournament(context.Background(), 9, &phase, &status)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTournamentNoFilters(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM matches WHERE tournament_id = \$1 ORDER BY match_number ASC`).
		WithArgs(9).
		WillReturnRows(matchRows())

	matches, err := repo.ListByTournament(context.Background(), 9, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLifecycle(t *testing.T) {
	repo, mock := newMockDB(t)

	winner := 101
	match := &models.Match{
		ID: 4, Status: models.StatusFinished, CurrentPeriod: 2,
		ScoreA: 2, ScoreB: 1, WinnerID: &winner,
	}

	mock.ExpectExec(`UPDATE matches`).
		WithArgs(match.Status, match.CurrentPeriod, match.TimeRemaining, match.GoldenPoint,
			match.ScoreA, match.ScoreB, match.FoulsA, match.FoulsB, match.WinnerID, match.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLifecycle(context.Background(), match))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLifecycleNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE matches`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLifecycle(context.Background(), &models.Match{ID: 404})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestDecrementClock(t *testing.T) {
	repo, mock := newMockDB(t)

	teamA, teamB := 101, 102
	ticked := &models.Match{
		ID: 4, TournamentID: 9, Phase: models.PhaseGroups, Round: "Zona A",
		TeamAID: &teamA, TeamBID: &teamB, MatchNumber: 4,
		Status: models.StatusLive, CurrentPeriod: 1, TimeRemaining: 899,
		ScoreA: 1, CreatedAt: time.Now(),
	}

	// The decrement is conditional on the row still being live with
	// time on the clock, so a stale tick can never touch scores or
	// revive a finished match.
	mock.ExpectQuery(`UPDATE matches\s+SET time_remaining = time_remaining - 1\s+WHERE id = \$1 AND status = \$2 AND time_remaining > 0`).
		WithArgs(4, models.StatusLive).
		WillReturnRows(matchRows(ticked))

	match, err := repo.DecrementClock(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 899, match.TimeRemaining)
	assert.Equal(t, 1, match.ScoreA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementClockNotRunning(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`UPDATE matches\s+SET time_remaining = time_remaining - 1`).
		WithArgs(4, models.StatusLive).
		WillReturnRows(matchRows())

	_, err := repo.DecrementClock(context.Background(), 4)
	assert.ErrorIs(t, err, ErrMatchClockStopped)
}

func TestUpdateTeams(t *testing.T) {
	repo, mock := newMockDB(t)

	teamA, teamB := 101, 202
	mock.ExpectExec(`UPDATE matches SET team_a_id = \$1, team_b_id = \$2, status = \$3 WHERE id = \$4`).
		WithArgs(&teamA, &teamB, models.StatusPending, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTeams(context.Background(), nil, 7, &teamA, &teamB, models.StatusPending)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTeamsForeignKeyViolation(t *testing.T) {
	repo, mock := newMockDB(t)

	teamA := 999
	mock.ExpectExec(`UPDATE matches SET team_a_id`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "matches_team_a_id_fkey"})

	err := repo.UpdateTeams(context.Background(), nil, 7, &teamA, nil, models.StatusPending)
	assert.ErrorIs(t, err, ErrMatchTeamInvalid)
}
