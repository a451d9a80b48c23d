package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrivero/macrolens/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
}

func (j *fakeJob) Name() string                  { return j.name }
func (j *fakeJob) Schedule() string              { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error { return nil }

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	job := &fakeJob{name: "macro_evaluation", schedule: "0 0 * * * *"}
	require.NoError(t, s.AddJob(job))
	assert.Contains(t, s.GetAllJobs(), "macro_evaluation")

	// Duplicate names are rejected
	assert.Error(t, s.AddJob(&fakeJob{name: "macro_evaluation", schedule: "0 0 * * * *"}))

	// Invalid cron expressions are rejected
	assert.Error(t, s.AddJob(&fakeJob{name: "broken", schedule: "not a schedule"}))
}

func TestGetJobHistory(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&fakeJob{name: "macro_evaluation", schedule: "0 0 * * * *"}))

	history, err := s.GetJobHistory("macro_evaluation")
	require.NoError(t, err)
	assert.Empty(t, history.Results)

	_, err = s.GetJobHistory("unknown")
	assert.Error(t, err)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}

	for i := 0; i < 105; i++ {
		h.AddResult(JobResult{JobName: "macro_evaluation", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100, "history is capped at 100 results")
	assert.Len(t, h.GetLatestResults(10), 10)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.02)

	failed := h.GetFailedResults()
	for _, r := range failed {
		assert.False(t, r.Success)
	}
}

func TestRunJob_Unknown(t *testing.T) {
	s := New(logger.Nop())
	err := s.RunJob("missing")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("job %s not found", "missing"), err.Error())
}
