package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
	"github.com/lrivero/macrolens/internal/regime"
	"github.com/lrivero/macrolens/internal/snapshot"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/internal/synthesis"
	"github.com/lrivero/macrolens/pkg/logger"
)

var frozen = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

type memoryStore struct {
	saved   []*store.Evaluation
	loadErr error
	saveErr error
}

func (m *memoryStore) Save(ctx context.Context, snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, &store.Evaluation{Snapshot: snap, Signal: sig, CreatedAt: frozen})
	return nil
}

func (m *memoryStore) Latest(ctx context.Context) (*store.Evaluation, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if len(m.saved) == 0 {
		return nil, nil
	}
	return m.saved[len(m.saved)-1], nil
}

type capturingPublisher struct {
	published int
}

func (p *capturingPublisher) Publish(snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) {
	p.published++
}

func obs(key string, prev, value float64) contracts.IndicatorObservation {
	return contracts.IndicatorObservation{
		Key:       key,
		Label:     key,
		Value:     value,
		PrevValue: prev,
		Weight:    0.2,
		Date:      frozen,
	}
}

func fullObservations() []contracts.IndicatorObservation {
	return []contracts.IndicatorObservation{
		obs("dxy", 100.0, 99.0),
		obs("t10y2y", 0.50, 0.75),
		obs("pce_core", 3.0, 2.9),
		obs("gdp_growth", 2.0, 2.5),
		obs("cpi_yoy", 3.2, 3.0),
		obs("walcl", 7800, 7900),
		obs("rrp", 500, 400),
		obs("tga", 700, 650),
		obs("m2sl", 21.0, 21.2),
		obs("hy_oas", 4.0, 3.5),
	}
}

func newOrchestrator(st EvaluationStore, pub Publisher) *Orchestrator {
	clock := contracts.FixedClock(frozen)
	classifier := regime.NewClassifier(macroconfig.Default(), nil, clock, logger.Nop())
	synthesizer := synthesis.NewSynthesizer(clock)
	return NewOrchestrator(classifier, synthesizer, st, nil, pub, clock, logger.Nop())
}

func TestEvaluate_FullCycle(t *testing.T) {
	st := &memoryStore{}
	pub := &capturingPublisher{}
	o := newOrchestrator(st, pub)

	result, err := o.Evaluate(context.Background(), EvaluationInput{
		Observations: fullObservations(),
		Headline:     "liquidity expanding into quarter end",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Snapshot)
	require.NotNil(t, result.Signal)

	assert.NoError(t, snapshot.Validate(result.Snapshot))
	assert.Equal(t, "liquidity expanding into quarter end", result.Snapshot.Headline)
	assert.Len(t, st.saved, 1, "cycle persisted for the next delta pass")
	assert.Equal(t, 1, pub.published)
	assert.Empty(t, result.Signal.Deltas, "first run has no previous snapshot to diff")
}

func TestEvaluate_SecondRunDiffsAgainstFirst(t *testing.T) {
	st := &memoryStore{}
	o := newOrchestrator(st, nil)

	ctx := context.Background()
	_, err := o.Evaluate(ctx, EvaluationInput{Observations: fullObservations()})
	require.NoError(t, err)

	second, err := o.Evaluate(ctx, EvaluationInput{Observations: fullObservations()})
	require.NoError(t, err)

	// Identical inputs: the diff runs but finds nothing to report
	assert.Empty(t, second.Signal.Deltas)
	assert.Len(t, st.saved, 2)
}

func TestEvaluate_MissingIndicatorPropagates(t *testing.T) {
	o := newOrchestrator(&memoryStore{}, nil)

	incomplete := fullObservations()[:5] // liquidity series missing
	_, err := o.Evaluate(context.Background(), EvaluationInput{Observations: incomplete})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regime classification")
}

func TestEvaluate_StoreLoadFailureDegrades(t *testing.T) {
	st := &memoryStore{loadErr: errors.New("connection refused")}
	o := newOrchestrator(st, nil)

	result, err := o.Evaluate(context.Background(), EvaluationInput{Observations: fullObservations()})
	require.NoError(t, err, "previous-cycle load failure must not kill the evaluation")
	assert.Empty(t, result.Signal.Deltas)
}

func TestEvaluate_SaveFailurePropagates(t *testing.T) {
	st := &memoryStore{saveErr: errors.New("disk full")}
	o := newOrchestrator(st, nil)

	_, err := o.Evaluate(context.Background(), EvaluationInput{Observations: fullObservations()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist evaluation")
}
