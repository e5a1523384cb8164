package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Stieges/hallenfussball-server/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Match, error)
	// UpdateScore sets or clears both scores of one match.
	UpdateScore(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, scoreA, scoreB *int) error
	// UpdateTeams rewrites the team reference columns; used by bracket
	// resolution to replace placeholders with concrete team ids.
	UpdateTeams(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, teamA, teamB models.TeamRef) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
		    (id, tournament_id, round, field, slot, team_a, team_b, score_a, score_b,
		     group_key, is_final, final_type, label, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for i := range matches {
		m := &matches[i]
		_, err := executor.ExecContext(ctx, query,
			m.ID, tournamentID, m.Round, m.Field, m.Slot,
			m.TeamA.String(), m.TeamB.String(), m.ScoreA, m.ScoreB,
			m.Group, m.IsFinal, string(m.FinalType), m.Label, m.StartTime)
		if err != nil {
			return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, round, field, slot, team_a, team_b, score_a, score_b,
		       group_key, is_final, final_type, label, start_time
		FROM matches WHERE tournament_id = $1
		ORDER BY is_final ASC, slot ASC, field ASC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m            models.Match
			teamA, teamB string
			finalType    string
		)
		err := rows.Scan(&m.ID, &m.Round, &m.Field, &m.Slot, &teamA, &teamB,
			&m.ScoreA, &m.ScoreB, &m.Group, &m.IsFinal, &finalType, &m.Label, &m.StartTime)
		if err != nil {
			return nil, err
		}
		m.TeamA = models.ParseTeamRef(teamA)
		m.TeamB = models.ParseTeamRef(teamB)
		m.FinalType = models.FinalType(finalType)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, scoreA, scoreB *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET score_a = $1, score_b = $2
		WHERE tournament_id = $3 AND id = $4`
	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, tournamentID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, teamA, teamB models.TeamRef) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET team_a = $1, team_b = $2
		WHERE tournament_id = $3 AND id = $4`
	result, err := executor.ExecContext(ctx, query, teamA.String(), teamB.String(), tournamentID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}
