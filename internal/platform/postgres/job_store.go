package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// PostgresJobStore implements store.JobStore on a PostgreSQL database.
// The caller owns the connection or transaction passed in.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a PostgreSQL implementation of the JobStore
// interface. If logger is nil, a default logger is used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

var _ store.JobStore = (*PostgresJobStore)(nil)

// Create implements store.JobStore.Create.
func (s *PostgresJobStore) Create(ctx context.Context, job *domain.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		return err
	}

	inputsJSON, err := json.Marshal(job.Inputs)
	if err != nil {
		return fmt.Errorf("failed to encode job inputs: %w", err)
	}

	query := `
		INSERT INTO jobs (id, status, inputs, status_message, raw_output, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Status,
		inputsJSON,
		job.StatusMessage,
		job.RawOutput,
		job.Error,
		job.CreatedAt,
	)
	if err != nil {
		if IsCheckConstraintViolation(err) {
			// Validate passed but the schema disagreed. The status enum or
			// outcome checks in the migration have drifted from the domain.
			log.Error("job row rejected by schema constraint",
				slog.String("job_id", job.ID.String()),
				slog.String("error", err.Error()))
		} else {
			log.Error("failed to create job",
				slog.String("job_id", job.ID.String()),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError("job", "create", "insert failed", MapError(err))
	}

	log.Info("job created",
		slog.String("job_id", job.ID.String()),
		slog.String("status", string(job.Status)))
	return nil
}

// GetByID implements store.JobStore.GetByID.
func (s *PostgresJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, status, inputs, status_message, raw_output, result, error, created_at, completed_at
		FROM jobs
		WHERE id = $1
	`

	var (
		job         domain.Job
		status      string
		inputsJSON  []byte
		resultJSON  []byte
		completedAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&status,
		&inputsJSON,
		&job.StatusMessage,
		&job.RawOutput,
		&resultJSON,
		&job.Error,
		&job.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		log.Error("failed to get job",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("job", "get", "query failed", MapError(err))
	}

	job.Status = domain.JobStatus(status)
	if err := json.Unmarshal(inputsJSON, &job.Inputs); err != nil {
		return nil, fmt.Errorf("failed to decode job inputs: %w", err)
	}
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &job.Result); err != nil {
			return nil, fmt.Errorf("failed to decode job result: %w", err)
		}
		// jsonb "[]" round-trips to a nil slice through some paths; a
		// completed job always carries a non-nil result.
		if job.Result == nil {
			job.Result = []domain.ResourceRecord{}
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}

	return &job, nil
}

// MarkRunning implements store.JobStore.MarkRunning.
func (s *PostgresJobStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE jobs
		SET status = $1, started_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := s.db.ExecContext(ctx, query, domain.JobStatusRunning, now, id, domain.JobStatusPending)
	if err != nil {
		log.Error("failed to mark job running",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("job", "mark_running", "update failed", MapError(err))
	}

	if err := s.guardOutcome(ctx, result, id); err != nil {
		return err
	}

	log.Debug("job marked running", slog.String("job_id", id.String()))
	return nil
}

// SetStatusMessage implements store.JobStore.SetStatusMessage. The update
// only lands while the job is running; anything else is a silent no-op.
func (s *PostgresJobStore) SetStatusMessage(ctx context.Context, id uuid.UUID, message string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status_message = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	_, err := s.db.ExecContext(ctx, query, message, time.Now().UTC(), id, domain.JobStatusRunning)
	if err != nil {
		log.Error("failed to set job status message",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("job", "set_status_message", "update failed", MapError(err))
	}
	return nil
}

// Complete implements store.JobStore.Complete.
func (s *PostgresJobStore) Complete(ctx context.Context, id uuid.UUID, rawOutput string, result []domain.ResourceRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if result == nil {
		result = []domain.ResourceRecord{}
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode job result: %w", err)
	}

	now := time.Now().UTC()
	query := `
		UPDATE jobs
		SET status = $1, raw_output = $2, result = $3, completed_at = $4, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	res, err := s.db.ExecContext(ctx, query,
		domain.JobStatusCompleted, rawOutput, resultJSON, now, id, domain.JobStatusRunning)
	if err != nil {
		log.Error("failed to complete job",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("job", "complete", "update failed", MapError(err))
	}

	if err := s.guardOutcome(ctx, res, id); err != nil {
		return err
	}

	log.Info("job completed",
		slog.String("job_id", id.String()),
		slog.Int("record_count", len(result)))
	return nil
}

// Fail implements store.JobStore.Fail.
func (s *PostgresJobStore) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE jobs
		SET status = $1, error = $2, completed_at = $3, updated_at = $3
		WHERE id = $4 AND status IN ($5, $6)
	`
	res, err := s.db.ExecContext(ctx, query,
		domain.JobStatusFailed, errMsg, now, id, domain.JobStatusPending, domain.JobStatusRunning)
	if err != nil {
		log.Error("failed to mark job failed",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("job", "fail", "update failed", MapError(err))
	}

	if err := s.guardOutcome(ctx, res, id); err != nil {
		return err
	}

	log.Info("job failed",
		slog.String("job_id", id.String()),
		slog.String("job_error", errMsg))
	return nil
}

// Cancel implements store.JobStore.Cancel. Returns false with a nil error
// when the job is already terminal.
func (s *PostgresJobStore) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE jobs
		SET status = $1, completed_at = $2, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`
	res, err := s.db.ExecContext(ctx, query,
		domain.JobStatusCancelled, now, id, domain.JobStatusPending, domain.JobStatusRunning)
	if err != nil {
		log.Error("failed to cancel job",
			slog.String("job_id", id.String()),
			slog.String("error", err.Error()))
		return false, store.NewStoreError("job", "cancel", "update failed", MapError(err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		log.Info("job cancelled", slog.String("job_id", id.String()))
		return true, nil
	}

	// No transition: the job either finished already or never existed.
	switch err := s.guardOutcome(ctx, res, id); {
	case errors.Is(err, store.ErrJobFinalized):
		return false, nil
	default:
		return false, err
	}
}

// FindStuckRunning implements store.JobStore.FindStuckRunning.
func (s *PostgresJobStore) FindStuckRunning(ctx context.Context, olderThan time.Duration) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := time.Now().UTC().Add(-olderThan)
	query := `
		SELECT id FROM jobs
		WHERE status = $1 AND started_at < $2
	`
	rows, err := s.db.QueryContext(ctx, query, domain.JobStatusRunning, cutoff)
	if err != nil {
		log.Error("failed to query stuck jobs", slog.String("error", err.Error()))
		return nil, store.NewStoreError("job", "find_stuck", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stuck job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

// guardOutcome interprets a zero-row guarded UPDATE: either the job does
// not exist or a different writer already moved it past the guard.
func (s *PostgresJobStore) guardOutcome(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var status string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrJobNotFound
	}
	if err != nil {
		return MapError(err)
	}
	return store.ErrJobFinalized
}
