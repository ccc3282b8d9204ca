package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository is the engine's read-only window into registration data,
// plus the single write-back used by the legacy group-label repair.
type TeamRepository interface {
	ListApprovedByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	ListApprovedByGroup(ctx context.Context, groupID int) ([]*models.Team, error)
	AssignGroup(ctx context.Context, exec SQLExecutor, teamID, groupID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, name, group_id, legacy_group_label, status, seed, created_at`

func (r *postgresTeamRepository) ListApprovedByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE tournament_id = $1 AND status = $2
		ORDER BY seed ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.TeamStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

func (r *postgresTeamRepository) ListApprovedByGroup(ctx context.Context, groupID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE group_id = $1 AND status = $2
		ORDER BY seed ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID, models.TeamStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved teams for group %d: %w", groupID, err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

func (r *postgresTeamRepository) AssignGroup(ctx context.Context, exec SQLExecutor, teamID, groupID int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE teams SET group_id = $1 WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, groupID, teamID)
	if err != nil {
		return fmt.Errorf("failed to assign team %d to group %d: %w", teamID, groupID, err)
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func scanTeams(rows *sql.Rows) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.TournamentID,
			&team.Name,
			&team.GroupID,
			&team.LegacyGroupLabel,
			&team.Status,
			&team.Seed,
			&team.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
