package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lrivero/macrolens/internal/contracts"
)

// InputRepository reads the collaborator-supplied evaluation inputs that
// external ingestors load into Postgres: indicator observations, calendar
// events and data-quality verdicts.
type InputRepository struct {
	db *pgxpool.Pool
}

func NewInputRepository(db *pgxpool.Pool) *InputRepository {
	return &InputRepository{db: db}
}

// LatestObservations returns the freshest observation per indicator key.
func (r *InputRepository) LatestObservations(ctx context.Context) ([]contracts.IndicatorObservation, error) {
	query := `
		SELECT DISTINCT ON (key)
			key, label, value, prev_value, trend, posture, weight,
			category, obs_date, prev_date, unit
		FROM macro.indicators
		ORDER BY key, obs_date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query indicators: %w", err)
	}
	defer rows.Close()

	var obs []contracts.IndicatorObservation
	for rows.Next() {
		var o contracts.IndicatorObservation
		if err := rows.Scan(&o.Key, &o.Label, &o.Value, &o.PrevValue, &o.Trend, &o.Posture,
			&o.Weight, &o.Category, &o.Date, &o.PrevDate, &o.Unit); err != nil {
			return nil, fmt.Errorf("scan indicator: %w", err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indicators: %w", err)
	}

	return obs, nil
}

// UpcomingEvents returns future calendar events ordered by date.
func (r *InputRepository) UpcomingEvents(ctx context.Context) ([]contracts.CalendarEvent, error) {
	query := `
		SELECT name, event_date, importance, country, currency
		FROM macro.calendar_events
		WHERE event_date > NOW()
		ORDER BY event_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	var events []contracts.CalendarEvent
	for rows.Next() {
		var ev contracts.CalendarEvent
		if err := rows.Scan(&ev.Name, &ev.Date, &ev.Importance, &ev.Country, &ev.Currency); err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar events: %w", err)
	}

	return events, nil
}

// LatestInvariants returns the most recent batch of data-quality verdicts.
func (r *InputRepository) LatestInvariants(ctx context.Context) ([]contracts.QualityInvariantResult, error) {
	query := `
		SELECT level, rule, message
		FROM macro.quality_invariants
		WHERE batch_id = (
			SELECT batch_id FROM macro.quality_invariants
			ORDER BY created_at DESC LIMIT 1
		)
		ORDER BY rule
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query quality invariants: %w", err)
	}
	defer rows.Close()

	var results []contracts.QualityInvariantResult
	for rows.Next() {
		var inv contracts.QualityInvariantResult
		if err := rows.Scan(&inv.Level, &inv.Rule, &inv.Message); err != nil {
			return nil, fmt.Errorf("scan quality invariant: %w", err)
		}
		results = append(results, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quality invariants: %w", err)
	}

	return results, nil
}
