package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Stieges/hallenfussball-server/models"
	"github.com/Stieges/hallenfussball-server/repositories"
	"golang.org/x/sync/errgroup"
)

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadTournament fetches the full aggregate; teams and matches load in
// parallel once the tournament row exists.
func loadTournament(
	ctx context.Context,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	id string,
) (*models.Tournament, error) {
	tournament, err := tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := teamRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load teams for tournament %s: %w", id, err)
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := matchRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load matches for tournament %s: %w", id, err)
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}
