package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lrivero/macrolens/internal/brain"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one evaluation cycle and print the result",
	Long: `Run a single evaluation cycle against the inputs currently loaded in
Postgres and print the resulting snapshot and signal as JSON.

Example:
  go run ./cmd/macrolens evaluate`,
	RunE: runEvaluate,
}

var evaluateTimeout time.Duration

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().DurationVar(&evaluateTimeout, "timeout", 2*time.Minute, "evaluation timeout")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
	defer cancel()

	observations, err := rt.inputs.LatestObservations(ctx)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}
	records, err := rt.correlations.LatestPoints(ctx)
	if err != nil {
		return fmt.Errorf("load correlation points: %w", err)
	}
	events, err := rt.inputs.UpcomingEvents(ctx)
	if err != nil {
		return fmt.Errorf("load calendar events: %w", err)
	}
	invariants, err := rt.inputs.LatestInvariants(ctx)
	if err != nil {
		return fmt.Errorf("load quality invariants: %w", err)
	}

	result, err := rt.orchestrator.Evaluate(ctx, brain.EvaluationInput{
		Observations:       observations,
		CorrelationRecords: records,
		Events:             events,
		Invariants:         invariants,
	})
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
