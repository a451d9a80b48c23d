package commands

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/lrivero/macrolens/internal/api"
	"github.com/lrivero/macrolens/internal/brain"
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
	"github.com/lrivero/macrolens/internal/regime"
	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/internal/synthesis"
	"github.com/lrivero/macrolens/pkg/config"
	"github.com/lrivero/macrolens/pkg/database"
	"github.com/lrivero/macrolens/pkg/logger"
	"github.com/lrivero/macrolens/pkg/redis"
)

// runtime bundles the wired service graph shared by the api, evaluate and
// scheduler commands.
type runtime struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB
	redisClient  *redis.Client
	cache        *redis.Cache
	hub          *api.Hub
	orchestrator *brain.Orchestrator
	evaluations  *store.EvaluationRepository
	inputs       *store.InputRepository
	correlations *store.CorrelationRepository
	limiter      *rate.Limiter
}

// bootstrap loads config and wires the full evaluation service. withHub
// controls whether a websocket hub is attached as the signal publisher.
func bootstrap(withHub bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "macrolens")

	macroCfg, err := macroconfig.Load(cfg.Macro.ConfigPath)
	if err != nil {
		log.WithError(err).Warn("Macro config not loadable, using built-in defaults")
		macroCfg = macroconfig.Default()
	}

	evaluations := store.NewEvaluationRepository(db.Pool)
	inputs := store.NewInputRepository(db.Pool)
	correlations := store.NewCorrelationRepository(db.Pool)

	source := store.NewCachedCorrelationSource(correlations, cache, cfg.Macro.CorrelationCacheTTL)
	classifier := regime.NewClassifier(macroCfg, source, contracts.SystemClock, log)
	synthesizer := synthesis.NewSynthesizer(contracts.SystemClock)

	var hub *api.Hub
	var publisher brain.Publisher
	if withHub {
		hub = api.NewHub(log)
		publisher = hub
	}

	orchestrator := brain.NewOrchestrator(
		classifier, synthesizer, evaluations, cache, publisher, contracts.SystemClock, log,
	)

	perMinute := cfg.Macro.EvaluateRateLimit
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	return &runtime{
		cfg:          cfg,
		log:          log,
		db:           db,
		redisClient:  redisClient,
		cache:        cache,
		hub:          hub,
		orchestrator: orchestrator,
		evaluations:  evaluations,
		inputs:       inputs,
		correlations: correlations,
		limiter:      limiter,
	}, nil
}

func (rt *runtime) close() {
	if rt.hub != nil {
		rt.hub.Close()
	}
	rt.redisClient.Close()
	rt.db.Close()
}
