package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lrivero/macrolens/internal/store"
	"github.com/lrivero/macrolens/pkg/logger"
)

// MaintenanceJob prunes old evaluation rows so the history table does not
// grow without bound. The delta engine only ever needs the previous cycle.
type MaintenanceJob struct {
	evaluations *store.EvaluationRepository
	retention   time.Duration
	logger      *logger.Logger
}

func NewMaintenanceJob(evaluations *store.EvaluationRepository, retention time.Duration, log *logger.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		evaluations: evaluations,
		retention:   retention,
		logger:      log,
	}
}

func (j *MaintenanceJob) Name() string {
	return "evaluation_maintenance"
}

func (j *MaintenanceJob) Schedule() string {
	// Daily at 03:10 UTC
	return "0 10 3 * * *"
}

func (j *MaintenanceJob) Run(ctx context.Context) error {
	removed, err := j.evaluations.Prune(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("prune evaluations: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"removed":   removed,
		"retention": j.retention,
	}).Info("Evaluation history pruned")

	return nil
}
