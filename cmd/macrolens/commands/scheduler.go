package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lrivero/macrolens/internal/scheduler"
	"github.com/lrivero/macrolens/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the periodic evaluation scheduler",
	Long: `Start the cron scheduler.

Jobs:
  macro_evaluation         - runs the full evaluation pipeline
                             (MACRO_EVALUATE_SCHEDULE, default hourly)
  evaluation_maintenance   - prunes old evaluation history daily

Example:
  go run ./cmd/macrolens scheduler`,
	RunE: runScheduler,
}

var retentionDays int

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().IntVar(&retentionDays, "retention-days", 90, "evaluation history retention in days")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer rt.close()

	sched := scheduler.New(rt.log)

	evalJob := jobs.NewEvaluationJob(
		rt.orchestrator, rt.inputs, rt.correlations, rt.cfg.Macro.EvaluateSchedule, rt.log,
	)
	if err := sched.AddJob(evalJob); err != nil {
		return err
	}

	retention := time.Duration(retentionDays) * 24 * time.Hour
	if err := sched.AddJob(jobs.NewMaintenanceJob(rt.evaluations, retention, rt.log)); err != nil {
		return err
	}

	sched.Start()
	rt.log.Info("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
