package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lrivero/macrolens/internal/contracts"
)

// Evaluation is one persisted evaluation cycle: the snapshot plus the signal
// synthesized from it.
type Evaluation struct {
	ID        int64
	Snapshot  *contracts.MacroSnapshot
	Signal    *contracts.MacroSignal
	CreatedAt time.Time
}

// EvaluationRepository persists evaluation cycles. The previous cycle loaded
// from here feeds the delta engine on the next run; the core itself retains
// nothing between calls.
type EvaluationRepository struct {
	db *pgxpool.Pool
}

func NewEvaluationRepository(db *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Save stores one evaluation cycle as JSONB rows.
func (r *EvaluationRepository) Save(ctx context.Context, snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) error {
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	sigJSON, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	query := `
		INSERT INTO macro.evaluations (snapshot, signal, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := r.db.Exec(ctx, query, snapJSON, sigJSON); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	return nil
}

// Latest returns the most recent evaluation, or nil when none exists yet.
func (r *EvaluationRepository) Latest(ctx context.Context) (*Evaluation, error) {
	query := `
		SELECT id, snapshot, signal, created_at
		FROM macro.evaluations
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		ev       Evaluation
		snapJSON []byte
		sigJSON  []byte
	)

	err := r.db.QueryRow(ctx, query).Scan(&ev.ID, &snapJSON, &sigJSON, &ev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest evaluation: %w", err)
	}

	if err := json.Unmarshal(snapJSON, &ev.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := json.Unmarshal(sigJSON, &ev.Signal); err != nil {
		return nil, fmt.Errorf("unmarshal signal: %w", err)
	}

	return &ev, nil
}

// Prune deletes evaluations older than the retention window and returns the
// number of rows removed.
func (r *EvaluationRepository) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	query := `DELETE FROM macro.evaluations WHERE created_at < NOW() - make_interval(secs => $1)`

	tag, err := r.db.Exec(ctx, query, retention.Seconds())
	if err != nil {
		return 0, fmt.Errorf("prune evaluations: %w", err)
	}
	return tag.RowsAffected(), nil
}
