package jobs

import (
	"context"
	"fmt"

	"github.com/lrivero/macrolens/internal/brain"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/pkg/logger"
)

// EvaluationJob runs the full evaluation pipeline on a cron schedule, feeding
// it from the rows external ingestors loaded into Postgres.
type EvaluationJob struct {
	orchestrator *brain.Orchestrator
	inputs       *store.InputRepository
	correlations *store.CorrelationRepository
	schedule     string
	logger       *logger.Logger
}

func NewEvaluationJob(
	orchestrator *brain.Orchestrator,
	inputs *store.InputRepository,
	correlations *store.CorrelationRepository,
	schedule string,
	log *logger.Logger,
) *EvaluationJob {
	return &EvaluationJob{
		orchestrator: orchestrator,
		inputs:       inputs,
		correlations: correlations,
		schedule:     schedule,
		logger:       log,
	}
}

func (j *EvaluationJob) Name() string {
	return "macro_evaluation"
}

func (j *EvaluationJob) Schedule() string {
	return j.schedule
}

// Run loads the collaborator inputs and executes one evaluation cycle.
func (j *EvaluationJob) Run(ctx context.Context) error {
	observations, err := j.inputs.LatestObservations(ctx)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}
	records, err := j.correlations.LatestPoints(ctx)
	if err != nil {
		return fmt.Errorf("load correlation points: %w", err)
	}
	events, err := j.inputs.UpcomingEvents(ctx)
	if err != nil {
		return fmt.Errorf("load calendar events: %w", err)
	}
	invariants, err := j.inputs.LatestInvariants(ctx)
	if err != nil {
		return fmt.Errorf("load quality invariants: %w", err)
	}

	result, err := j.orchestrator.Evaluate(ctx, brain.EvaluationInput{
		Observations:       observations,
		CorrelationRecords: records,
		Events:             events,
		Invariants:         invariants,
	})
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"regime": result.Snapshot.Regime.Overall,
		"action": result.Signal.Action,
	}).Info("Scheduled evaluation completed")

	return nil
}
