package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Stieges/hallenfussball-server/brackets"
	"github.com/Stieges/hallenfussball-server/models"
	"github.com/Stieges/hallenfussball-server/repositories"
)

// UpdateScoreInput carries a score entry. Both scores present records a
// result, both absent clears it. ExpectedVersion, when set, makes the write
// conditional on the aggregate version (optimistic concurrency for multiple
// editors).
type UpdateScoreInput struct {
	ScoreA          *int `json:"scoreA"`
	ScoreB          *int `json:"scoreB"`
	ExpectedVersion *int `json:"expectedVersion,omitempty"`
}

type MatchService interface {
	// UpdateScore applies a score, runs bracket auto-resolution when the
	// group phase just completed, persists everything in one transaction and
	// broadcasts the update. Returns the new aggregate and the resolution
	// result, if a pass ran.
	UpdateScore(ctx context.Context, tournamentID, matchID string, input UpdateScoreInput) (*models.Tournament, *brackets.Result, error)
}

type matchService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) UpdateScore(ctx context.Context, tournamentID, matchID string, input UpdateScoreInput) (*models.Tournament, *brackets.Result, error) {
	if (input.ScoreA == nil) != (input.ScoreB == nil) {
		return nil, nil, fmt.Errorf("%w: both scores must be present, or both absent to clear", ErrScoreInvalid)
	}
	if input.ScoreA != nil && (*input.ScoreA < 0 || *input.ScoreB < 0) {
		return nil, nil, fmt.Errorf("%w: scores must not be negative", ErrScoreInvalid)
	}

	tournament, err := loadTournament(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	next := tournament.Clone()
	match := next.MatchByID(matchID)
	if match == nil {
		return nil, nil, ErrMatchNotFound
	}
	if input.ScoreA != nil && match.HasPlaceholder() {
		return nil, nil, ErrMatchNotResolved
	}
	match.ScoreA = input.ScoreA
	match.ScoreB = input.ScoreB

	next, result := brackets.AutoResolveIfReady(next)

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateScore(ctx, tx, tournamentID, matchID, input.ScoreA, input.ScoreB); err != nil {
			return err
		}
		if result != nil {
			for _, id := range result.UpdatedMatchIDs {
				resolved := next.MatchByID(id)
				if resolved == nil {
					return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
				}
				if err := s.matchRepo.UpdateTeams(ctx, tx, tournamentID, id, resolved.TeamA, resolved.TeamB); err != nil {
					return err
				}
			}
		}
		version, err := s.tournamentRepo.BumpVersion(ctx, tx, tournamentID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		next.Version = version
		return nil
	})
	switch {
	case errors.Is(err, repositories.ErrVersionConflict):
		return nil, nil, ErrVersionConflict
	case errors.Is(err, repositories.ErrMatchNotFound):
		return nil, nil, ErrMatchNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return nil, nil, ErrTournamentNotFound
	case err != nil:
		return nil, nil, err
	}

	room := "tournament_" + tournamentID
	s.hub.BroadcastToRoom(room, brackets.Message{
		Type:    brackets.EventMatchUpdated,
		Payload: next.MatchByID(matchID),
		RoomID:  room,
	})
	if result != nil && result.Resolved {
		s.hub.BroadcastToRoom(room, brackets.Message{
			Type:    brackets.EventBracketResolved,
			Payload: result,
			RoomID:  room,
		})
		s.logger.Info("bracket matches resolved after score entry",
			slog.String("tournament_id", tournamentID),
			slog.String("match_id", matchID),
			slog.Int("resolved", result.UpdatedCount))
	}

	return next, result, nil
}
