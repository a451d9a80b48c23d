package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lrivero/macrolens/internal/contracts"
)

// CorrelationRepository reads correlation readings loaded by the external
// statistical engine. It backs both the analyzer input and the classifier's
// tactical enrichment.
type CorrelationRepository struct {
	db *pgxpool.Pool
}

func NewCorrelationRepository(db *pgxpool.Pool) *CorrelationRepository {
	return &CorrelationRepository{db: db}
}

// LatestPoints returns the freshest reading per (symbol, benchmark, window).
func (r *CorrelationRepository) LatestPoints(ctx context.Context) ([]contracts.CorrelationPoint, error) {
	query := `
		SELECT DISTINCT ON (symbol, benchmark, window_label)
			symbol, benchmark, window_label, value, sample_size, updated_at
		FROM macro.correlations
		ORDER BY symbol, benchmark, window_label, updated_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query correlation points: %w", err)
	}
	defer rows.Close()

	var points []contracts.CorrelationPoint
	for rows.Next() {
		var p contracts.CorrelationPoint
		if err := rows.Scan(&p.Symbol, &p.Benchmark, &p.Window, &p.Value, &p.SampleSize, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan correlation point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correlation points: %w", err)
	}

	return points, nil
}

// FetchLatest returns the freshest 12m correlation per symbol in one batched
// query. Symbols with no reading are simply absent from the result; a present
// symbol may still carry a nil value when the sample was insufficient.
func (r *CorrelationRepository) FetchLatest(ctx context.Context, symbols []string) (map[string]*float64, error) {
	if len(symbols) == 0 {
		return map[string]*float64{}, nil
	}

	query := `
		SELECT DISTINCT ON (symbol)
			symbol, value
		FROM macro.correlations
		WHERE symbol = ANY($1) AND window_label = '12m'
		ORDER BY symbol, updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, symbols)
	if err != nil {
		return nil, fmt.Errorf("query correlation batch: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*float64, len(symbols))
	for rows.Next() {
		var (
			symbol string
			value  *float64
		)
		if err := rows.Scan(&symbol, &value); err != nil {
			return nil, fmt.Errorf("scan correlation batch row: %w", err)
		}
		out[symbol] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correlation batch: %w", err)
	}

	return out, nil
}
