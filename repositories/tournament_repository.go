package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Stieges/hallenfussball-server/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrVersionConflict    = errors.New("tournament version conflict")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	// BumpVersion increments the aggregate version. When expectedVersion is
	// non-nil the increment only succeeds if the stored version still
	// matches; a stale value fails with ErrVersionConflict.
	BumpVersion(ctx context.Context, exec SQLExecutor, id string, expectedVersion *int) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament config: %w", err)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	if t.Version == 0 {
		t.Version = 1
	}
	query := `
		INSERT INTO tournaments (id, title, config_json, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = executor.ExecContext(ctx, query,
		t.ID, t.Title, configJSON, t.Version, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	var configJSON []byte
	err := rowScanner.Scan(&t.ID, &t.Title, &configJSON, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &t.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config for tournament %s: %w", t.ID, err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, title, config_json, version, created_at, updated_at
		FROM tournaments WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, title, config_json, version, created_at, updated_at
		FROM tournaments ORDER BY created_at DESC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, errScan := r.scanTournament(rows)
		if errScan != nil {
			return nil, errScan
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) BumpVersion(ctx context.Context, exec SQLExecutor, id string, expectedVersion *int) (int, error) {
	executor := r.getExecutor(exec)

	var (
		newVersion int
		err        error
	)
	if expectedVersion != nil {
		err = executor.QueryRowContext(ctx, `
			UPDATE tournaments SET version = version + 1, updated_at = NOW()
			WHERE id = $1 AND version = $2
			RETURNING version`, id, *expectedVersion).Scan(&newVersion)
	} else {
		err = executor.QueryRowContext(ctx, `
			UPDATE tournaments SET version = version + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING version`, id).Scan(&newVersion)
	}
	if errors.Is(err, sql.ErrNoRows) {
		if expectedVersion == nil {
			return 0, ErrTournamentNotFound
		}
		// Distinguish a missing tournament from a stale version.
		if _, getErr := r.GetByID(ctx, executor, id); getErr != nil {
			return 0, getErr
		}
		return 0, ErrVersionConflict
	}
	return newVersion, err
}
