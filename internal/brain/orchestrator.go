package brain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/correlation"
	"github.com/lrivero/macrolens/internal/regime"
	"github.com/lrivero/macrolens/internal/snapshot"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/internal/synthesis"
	"github.com/lrivero/macrolens/pkg/logger"
	"github.com/lrivero/macrolens/pkg/redis"
)

// EvaluationStore persists evaluation cycles and returns the previous one for
// delta computation.
type EvaluationStore interface {
	Save(ctx context.Context, snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) error
	Latest(ctx context.Context) (*store.Evaluation, error)
}

// Publisher receives each freshly synthesized signal (websocket hub,
// notification fan-out). May be nil.
type Publisher interface {
	Publish(snap *contracts.MacroSnapshot, sig *contracts.MacroSignal)
}

// EvaluationInput carries the collaborator-supplied inputs for one cycle.
type EvaluationInput struct {
	Observations       []contracts.IndicatorObservation
	CorrelationRecords []contracts.CorrelationPoint
	Events             []contracts.CalendarEvent
	Invariants         []contracts.QualityInvariantResult
	Headline           string
}

// EvaluationResult is the outcome of one full cycle.
type EvaluationResult struct {
	Snapshot *contracts.MacroSnapshot `json:"snapshot"`
	Signal   *contracts.MacroSignal   `json:"signal"`
	Duration time.Duration            `json:"duration"`
}

// Orchestrator runs the full evaluation pipeline: regime classification and
// correlation analysis fan out concurrently, join at snapshot assembly, then
// validation, synthesis against the previous cycle, persistence and publish.
// SSOT: evaluation sequencing lives only here.
type Orchestrator struct {
	classifier  *regime.Classifier
	synthesizer *synthesis.Synthesizer
	evaluations EvaluationStore
	cache       *redis.Cache
	publisher   Publisher
	clock       contracts.Clock
	logger      *logger.Logger
}

func NewOrchestrator(
	classifier *regime.Classifier,
	synthesizer *synthesis.Synthesizer,
	evaluations EvaluationStore,
	cache *redis.Cache,
	publisher Publisher,
	clock contracts.Clock,
	log *logger.Logger,
) *Orchestrator {
	if clock == nil {
		clock = contracts.SystemClock
	}
	return &Orchestrator{
		classifier:  classifier,
		synthesizer: synthesizer,
		evaluations: evaluations,
		cache:       cache,
		publisher:   publisher,
		clock:       clock,
		logger:      log,
	}
}

// Evaluate runs one cycle. Failures in the mandatory computations and in
// snapshot validation propagate; cache and publish steps degrade gracefully.
// Cancellation of ctx only needs to reach the enrichment fetch — the pure
// computation has no internal cancellation points.
func (o *Orchestrator) Evaluate(ctx context.Context, in EvaluationInput) (*EvaluationResult, error) {
	start := o.clock()

	previous, err := o.evaluations.Latest(ctx)
	if err != nil {
		// Deltas and cooldown degrade to a first-run evaluation.
		o.logger.WithError(err).Warn("Failed to load previous evaluation, continuing without deltas")
		previous = nil
	}

	var prevailing contracts.RiskRegime
	if previous != nil && previous.Snapshot != nil {
		prevailing = previous.Snapshot.Regime.Overall
	}

	// Fan out the two independent passes, join before assembly.
	var (
		wg      sync.WaitGroup
		bias    *contracts.BiasState
		biasErr error
		corr    *contracts.CorrelationState
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bias, biasErr = o.classifier.Classify(ctx, in.Observations)
	}()
	go func() {
		defer wg.Done()
		corr = correlation.Analyze(in.CorrelationRecords, prevailing, o.clock)
	}()
	wg.Wait()

	if biasErr != nil {
		return nil, fmt.Errorf("regime classification: %w", biasErr)
	}

	snap := snapshot.Assemble(bias, corr, in.Events, o.clock)
	snap.Headline = in.Headline

	if err := snapshot.Validate(snap); err != nil {
		return nil, fmt.Errorf("snapshot validation: %w", err)
	}

	sigInput := synthesis.Input{
		Snapshot:   snap,
		Invariants: in.Invariants,
	}
	if previous != nil {
		sigInput.Previous = previous.Snapshot
		sigInput.PreviousSignal = previous.Signal
	}
	sig := o.synthesizer.Synthesize(sigInput)

	if err := o.evaluations.Save(ctx, snap, sig); err != nil {
		return nil, fmt.Errorf("persist evaluation: %w", err)
	}

	o.publish(ctx, snap, sig)

	result := &EvaluationResult{
		Snapshot: snap,
		Signal:   sig,
		Duration: o.clock().Sub(start),
	}

	o.logger.WithFields(map[string]interface{}{
		"regime":     snap.Regime.Overall,
		"score":      snap.Score,
		"action":     sig.Action,
		"conviction": sig.Conviction,
		"deltas":     len(sig.Deltas),
		"duration":   result.Duration,
	}).Info("Evaluation completed")

	return result, nil
}

// publish pushes the fresh artifacts to the cache and the publisher. Neither
// step may fail the evaluation.
func (o *Orchestrator) publish(ctx context.Context, snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) {
	if o.cache != nil {
		if err := o.cache.Set(ctx, redis.LatestSnapshotKey(), snap, 0); err != nil {
			o.logger.WithError(err).Warn("Failed to cache snapshot")
		}
		if err := o.cache.Set(ctx, redis.LatestSignalKey(), sig, 0); err != nil {
			o.logger.WithError(err).Warn("Failed to cache signal")
		}
	}

	if o.publisher != nil {
		o.publisher.Publish(snap, sig)
	}
}
