package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Stieges/hallenfussball-server/models"
)

type TeamRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID string, teams []models.Team) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Team, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID string, teams []models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (id, tournament_id, name, group_key, position)
		VALUES ($1, $2, $3, $4, $5)`
	for i, team := range teams {
		if _, err := executor.ExecContext(ctx, query, team.ID, tournamentID, team.Name, team.Group, i); err != nil {
			return fmt.Errorf("failed to insert team %q: %w", team.Name, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Team, error) {
	executor := r.getExecutor(exec)
	// position preserves the seeding order the schedule was generated with.
	query := `
		SELECT id, name, group_key
		FROM teams WHERE tournament_id = $1 ORDER BY position ASC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Group); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE tournament_id = $1`, tournamentID)
	return err
}
