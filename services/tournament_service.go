package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Stieges/hallenfussball-server/brackets"
	"github.com/Stieges/hallenfussball-server/models"
	"github.com/Stieges/hallenfussball-server/repositories"
	"github.com/Stieges/hallenfussball-server/schedule"
	"github.com/Stieges/hallenfussball-server/standings"
	"github.com/google/uuid"
)

// TeamInput is one team as entered in the setup wizard or an import.
type TeamInput struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// CreateTournamentInput carries everything needed to create and schedule a
// tournament in one step.
type CreateTournamentInput struct {
	Title  string                  `json:"title"`
	Config models.TournamentConfig `json:"config"`
	Teams  []TeamInput             `json:"teams"`
}

// ScheduleView is the schedule plus the non-blocking fairness warnings.
type ScheduleView struct {
	*models.Schedule
	Warnings []string `json:"warnings,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, []string, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Delete(ctx context.Context, id string) error
	GetSchedule(ctx context.Context, id string) (*ScheduleView, error)
	GetStandings(ctx context.Context, id, group string) ([]models.Standing, error)
	// Resolve runs an explicit bracket resolution pass and persists any
	// newly concrete team assignments.
	Resolve(ctx context.Context, id string) (*models.Tournament, *brackets.Result, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, []string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, ErrTitleRequired
	}

	cfg := input.Config
	if len(cfg.PlacementLogic) == 0 {
		cfg.PlacementLogic = models.DefaultPlacementLogic()
	}
	if cfg.PointSystem == (models.PointSystem{}) {
		cfg.PointSystem = models.DefaultPointSystem()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now().Truncate(time.Minute)
	}

	teams := make([]models.Team, len(input.Teams))
	for i, in := range input.Teams {
		if strings.TrimSpace(in.Name) == "" {
			return nil, nil, fmt.Errorf("%w: team %d has no name", ErrValidationFailed, i+1)
		}
		teams[i] = models.Team{
			ID:    uuid.NewString(),
			Name:  strings.TrimSpace(in.Name),
			Group: in.Group,
		}
	}

	generated, err := schedule.Generate(cfg, teams)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidConfig) {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, nil, fmt.Errorf("failed to generate schedule: %w", err)
	}
	warnings := schedule.CheckFairness(generated)

	tournament := &models.Tournament{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(input.Title),
		Config:  cfg,
		Teams:   teams,
		Matches: generated.Matches,
		Version: 1,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}
		if err := s.teamRepo.BatchCreate(ctx, tx, tournament.ID, teams); err != nil {
			return err
		}
		return s.matchRepo.BatchCreate(ctx, tx, tournament.ID, tournament.Matches)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(tournament.Matches)),
		slog.Int("warnings", len(warnings)))
	return tournament, warnings, nil
}

// GetByID loads the full aggregate; teams and matches are fetched in
// parallel.
func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	return loadTournament(ctx, s.tournamentRepo, s.teamRepo, s.matchRepo, id)
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, nil)
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		if err := s.teamRepo.DeleteByTournament(ctx, tx, id); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, tx, id)
	})
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) GetSchedule(ctx context.Context, id string) (*ScheduleView, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := schedule.Rebuild(tournament.Config, tournament.Matches)
	return &ScheduleView{Schedule: view, Warnings: schedule.CheckFairness(view)}, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, id, group string) ([]models.Standing, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return standings.Calculate(tournament.Teams, tournament.Matches, tournament.Config, group), nil
}

func (s *tournamentService) Resolve(ctx context.Context, id string) (*models.Tournament, *brackets.Result, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	next, result := brackets.ResolvePass(tournament)
	if result.UpdatedCount > 0 {
		if err := s.persistResolution(ctx, next, result.UpdatedMatchIDs, nil); err != nil {
			return nil, nil, err
		}
		s.hub.BroadcastToRoom("tournament_"+id, brackets.Message{
			Type:    brackets.EventBracketResolved,
			Payload: result,
			RoomID:  "tournament_" + id,
		})
	}
	return next, &result, nil
}

// persistResolution writes resolver team assignments and bumps the aggregate
// version in one transaction.
func (s *tournamentService) persistResolution(ctx context.Context, t *models.Tournament, matchIDs []string, expectedVersion *int) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, matchID := range matchIDs {
			m := t.MatchByID(matchID)
			if m == nil {
				return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
			}
			if err := s.matchRepo.UpdateTeams(ctx, tx, t.ID, matchID, m.TeamA, m.TeamB); err != nil {
				return err
			}
		}
		version, err := s.tournamentRepo.BumpVersion(ctx, tx, t.ID, expectedVersion)
		if err != nil {
			return err
		}
		t.Version = version
		return nil
	})
	switch {
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	}
	return err
}
