package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error)
	GetByID(ctx context.Context, id int) (*models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error) {
	query := `
		SELECT id, tournament_id, name, position
		FROM groups
		WHERE tournament_id = $1
		ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.TournamentID, &group.Name, &group.Position); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `
		SELECT id, tournament_id, name, position
		FROM groups
		WHERE id = $1`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.TournamentID, &group.Name, &group.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}
