package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/lrivero/macrolens/internal/brain"
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/pkg/logger"
	"github.com/lrivero/macrolens/pkg/redis"
)

// MacroHandler serves the macro decision endpoints.
// SSOT: macro API handlers live only in this struct.
type MacroHandler struct {
	orchestrator *brain.Orchestrator
	evaluations  brain.EvaluationStore
	inputs       *store.InputRepository
	correlations *store.CorrelationRepository
	cache        *redis.Cache
	limiter      *rate.Limiter
	logger       *logger.Logger
}

func NewMacroHandler(
	orchestrator *brain.Orchestrator,
	evaluations brain.EvaluationStore,
	inputs *store.InputRepository,
	correlations *store.CorrelationRepository,
	cache *redis.Cache,
	limiter *rate.Limiter,
	log *logger.Logger,
) *MacroHandler {
	return &MacroHandler{
		orchestrator: orchestrator,
		evaluations:  evaluations,
		inputs:       inputs,
		correlations: correlations,
		cache:        cache,
		limiter:      limiter,
		logger:       log,
	}
}

// GetSnapshot returns the latest published MacroSnapshot.
// GET /api/macro/snapshot
func (h *MacroHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached contracts.MacroSnapshot
		if hit, err := h.cache.Get(ctx, redis.LatestSnapshotKey(), &cached); err == nil && hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	ev, err := h.evaluations.Latest(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest evaluation")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve snapshot")
		return
	}
	if ev == nil {
		respondError(w, http.StatusNotFound, "No snapshot available yet")
		return
	}

	respondJSON(w, http.StatusOK, ev.Snapshot)
}

// GetSignal returns the latest synthesized MacroSignal.
// GET /api/macro/signal
func (h *MacroHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached contracts.MacroSignal
		if hit, err := h.cache.Get(ctx, redis.LatestSignalKey(), &cached); err == nil && hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	ev, err := h.evaluations.Latest(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest evaluation")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signal")
		return
	}
	if ev == nil {
		respondError(w, http.StatusNotFound, "No signal available yet")
		return
	}

	respondJSON(w, http.StatusOK, ev.Signal)
}

// EvaluateRequest optionally overrides the stored collaborator inputs. Any
// field left empty is loaded from Postgres instead.
type EvaluateRequest struct {
	Observations       []contracts.IndicatorObservation  `json:"observations"`
	CorrelationRecords []contracts.CorrelationPoint      `json:"correlation_records"`
	Events             []contracts.CalendarEvent         `json:"events"`
	Invariants         []contracts.QualityInvariantResult `json:"invariants"`
	Headline           string                             `json:"headline"`
}

// Evaluate triggers one evaluation cycle. Rate limited.
// POST /api/macro/evaluate
func (h *MacroHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		respondError(w, http.StatusTooManyRequests, "Evaluation rate limit exceeded")
		return
	}

	ctx := r.Context()

	var req EvaluateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	in := brain.EvaluationInput{
		Observations:       req.Observations,
		CorrelationRecords: req.CorrelationRecords,
		Events:             req.Events,
		Invariants:         req.Invariants,
		Headline:           req.Headline,
	}

	var err error
	if in.Observations == nil {
		if in.Observations, err = h.inputs.LatestObservations(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to load observations")
			respondError(w, http.StatusInternalServerError, "Failed to load observations")
			return
		}
	}
	if in.CorrelationRecords == nil {
		if in.CorrelationRecords, err = h.correlations.LatestPoints(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to load correlation points")
			respondError(w, http.StatusInternalServerError, "Failed to load correlation points")
			return
		}
	}
	if in.Events == nil {
		if in.Events, err = h.inputs.UpcomingEvents(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to load calendar events")
			respondError(w, http.StatusInternalServerError, "Failed to load calendar events")
			return
		}
	}
	if in.Invariants == nil {
		if in.Invariants, err = h.inputs.LatestInvariants(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to load quality invariants")
			respondError(w, http.StatusInternalServerError, "Failed to load quality invariants")
			return
		}
	}

	result, err := h.orchestrator.Evaluate(ctx, in)
	if err != nil {
		h.logger.WithError(err).Error("Evaluation failed")

		var verr *contracts.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "Snapshot failed validation",
				"issues": verr.Issues,
			})
			return
		}

		respondError(w, http.StatusInternalServerError, "Evaluation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
