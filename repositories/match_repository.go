package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/matchdayhq/fixture-engine/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrMatchNumberConflict    = errors.New("match number already taken for this tournament")
	ErrMatchClockStopped      = errors.New("match clock is not running")
)

type MatchRepository interface {
	// ReplaceFixture deletes every match of the tournament and inserts
	// the new list inside a single transaction, so a failed regeneration
	// can never leave the tournament with an empty or partial schedule.
	ReplaceFixture(ctx context.Context, tournamentID int, matches []*models.Match) error

	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, phase *models.MatchPhase, status *models.MatchStatus) ([]*models.Match, error)
	UpdateLifecycle(ctx context.Context, match *models.Match) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, matchID int, teamAID, teamBID *int, status models.MatchStatus) error

	// DecrementClock ticks the countdown of a live match by one second
	// as a single conditional update, so a tick can never overwrite a
	// concurrent score or status change. ErrMatchClockStopped when the
	// match is not live or the clock already reached zero.
	DecrementClock(ctx context.Context, matchID int) (*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, phase, round, group_id, team_a_id, team_b_id,
	match_number, status, current_period, time_remaining, golden_point,
	team_a_score, team_b_score, fouls_a, fouls_b, winner_id, scheduled_at, created_at`

func (r *postgresMatchRepository) ReplaceFixture(ctx context.Context, tournamentID int, matches []*models.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fixture transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit fixture transaction: %w", cErr)
		}
	}()

	if _, txErr = tx.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID); txErr != nil {
		txErr = fmt.Errorf("failed to delete fixture for tournament %d: %w", tournamentID, txErr)
		return txErr
	}

	insertQuery := `
		INSERT INTO matches
			(tournament_id, phase, round, group_id, team_a_id, team_b_id, match_number,
			 status, current_period, time_remaining, golden_point,
			 team_a_score, team_b_score, fouls_a, fouls_b, winner_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	for _, match := range matches {
		txErr = tx.QueryRowContext(ctx, insertQuery,
			match.TournamentID,
			match.Phase,
			match.Round,
			match.GroupID,
			match.TeamAID,
			match.TeamBID,
			match.MatchNumber,
			match.Status,
			match.CurrentPeriod,
			match.TimeRemaining,
			match.GoldenPoint,
			match.ScoreA,
			match.ScoreB,
			match.FoulsA,
			match.FoulsB,
			match.WinnerID,
			match.ScheduledAt,
		).Scan(&match.ID, &match.CreatedAt)
		if txErr != nil {
			txErr = r.handleMatchError(txErr)
			return txErr
		}
	}

	return txErr
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, phaseFilter *models.MatchPhase, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if phaseFilter != nil {
		queryBuilder.WriteString(" AND phase = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *phaseFilter)
		placeholderIndex++
	}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY match_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match := &models.Match{}
		if scanErr := scanMatchRows(rows, match); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateLifecycle(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1, current_period = $2, time_remaining = $3, golden_point = $4,
		    team_a_score = $5, team_b_score = $6, fouls_a = $7, fouls_b = $8, winner_id = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		match.Status,
		match.CurrentPeriod,
		match.TimeRemaining,
		match.GoldenPoint,
		match.ScoreA,
		match.ScoreB,
		match.FoulsA,
		match.FoulsB,
		match.WinnerID,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, matchID int, teamAID, teamBID *int, status models.MatchStatus) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE matches SET team_a_id = $1, team_b_id = $2, status = $3 WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, teamAID, teamBID, status, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) DecrementClock(ctx context.Context, matchID int) (*models.Match, error) {
	query := `
		UPDATE matches
		SET time_remaining = time_remaining - 1
		WHERE id = $1 AND status = $2 AND time_remaining > 0
		RETURNING ` + matchColumns

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, matchID, models.StatusLive), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchClockStopped
		}
		return nil, fmt.Errorf("failed to tick clock for match %d: %w", matchID, err)
	}
	return match, nil
}

func scanMatch(row *sql.Row, match *models.Match) error {
	return row.Scan(
		&match.ID,
		&match.TournamentID,
		&match.Phase,
		&match.Round,
		&match.GroupID,
		&match.TeamAID,
		&match.TeamBID,
		&match.MatchNumber,
		&match.Status,
		&match.CurrentPeriod,
		&match.TimeRemaining,
		&match.GoldenPoint,
		&match.ScoreA,
		&match.ScoreB,
		&match.FoulsA,
		&match.FoulsB,
		&match.WinnerID,
		&match.ScheduledAt,
		&match.CreatedAt,
	)
}

func scanMatchRows(rows *sql.Rows, match *models.Match) error {
	return rows.Scan(
		&match.ID,
		&match.TournamentID,
		&match.Phase,
		&match.Round,
		&match.GroupID,
		&match.TeamAID,
		&match.TeamBID,
		&match.MatchNumber,
		&match.Status,
		&match.CurrentPeriod,
		&match.TimeRemaining,
		&match.GoldenPoint,
		&match.ScoreA,
		&match.ScoreB,
		&match.FoulsA,
		&match.FoulsB,
		&match.WinnerID,
		&match.ScheduledAt,
		&match.CreatedAt,
	)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_id_fkey":
				return ErrMatchTournamentInvalid
			case "matches_team_a_id_fkey", "matches_team_b_id_fkey", "matches_winner_id_fkey":
				return ErrMatchTeamInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_tournament_id_match_number_key" {
				return ErrMatchNumberConflict
			}
		}
	}
	return err
}
