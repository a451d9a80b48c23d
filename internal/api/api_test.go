package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/lrivero/macrolens/internal/api/handlers"
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/pkg/logger"
)

type stubEvaluations struct {
	latest *store.Evaluation
	err    error
}

func (s *stubEvaluations) Save(ctx context.Context, snap *contracts.MacroSnapshot, sig *contracts.MacroSignal) error {
	return nil
}

func (s *stubEvaluations) Latest(ctx context.Context) (*store.Evaluation, error) {
	return s.latest, s.err
}

func testRouter(t *testing.T, evals *stubEvaluations, limiter *rate.Limiter) http.Handler {
	t.Helper()
	h := handlers.NewMacroHandler(nil, evals, nil, nil, nil, limiter, logger.Nop())
	return NewRouter(h, NewHub(logger.Nop()), logger.Nop())
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t, &stubEvaluations{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "macrolens-api")
}

func TestGetSnapshot(t *testing.T) {
	// Nothing evaluated yet
	router := testRouter(t, &stubEvaluations{}, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/macro/snapshot", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// With a persisted evaluation
	snap := &contracts.MacroSnapshot{
		Regime: contracts.RegimeSet{Overall: contracts.RiskOn},
		Score:  75,
	}
	router = testRouter(t, &stubEvaluations{latest: &store.Evaluation{Snapshot: snap, Signal: &contracts.MacroSignal{}}}, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/macro/snapshot", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got contracts.MacroSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, contracts.RiskOn, got.Regime.Overall)
	assert.Equal(t, 75.0, got.Score)
}

func TestGetSignal(t *testing.T) {
	sig := &contracts.MacroSignal{Action: contracts.ActionLong, Score: 75}
	router := testRouter(t, &stubEvaluations{latest: &store.Evaluation{Snapshot: &contracts.MacroSnapshot{}, Signal: sig}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/macro/signal", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got contracts.MacroSignal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, contracts.ActionLong, got.Action)
}

func TestEvaluate_RateLimited(t *testing.T) {
	// Zero-burst limiter rejects every request before any input loading
	router := testRouter(t, &stubEvaluations{}, rate.NewLimiter(rate.Every(time.Minute), 0))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/macro/evaluate", strings.NewReader("{}")))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHub_PublishToSubscriber(t *testing.T) {
	hub := NewHub(logger.Nop())
	defer hub.Close()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(&contracts.MacroSnapshot{Score: 42}, &contracts.MacroSignal{Action: contracts.ActionNeutral})

	var env struct {
		Type     string                   `json:"type"`
		Snapshot *contracts.MacroSnapshot `json:"snapshot"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "evaluation", env.Type)
	assert.Equal(t, 42.0, env.Snapshot.Score)
}
