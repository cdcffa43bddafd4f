package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edgelab/outcomes/batch"
	"github.com/edgelab/outcomes/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically resolve newly arrived trades",
	Long: `Watch runs the incremental batch pass on a cron schedule so new
trades are resolved shortly after they land. It blocks until
interrupted.

Examples:
  outcomes watch
  outcomes watch --schedule "@every 15m"
  outcomes watch --schedule "30 16 * * 1-5"`,
	RunE: runWatch,
}

var watchSchedule string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "@every 5m", "cron schedule for incremental runs")
}

// resolveJob adapts the batch driver to the scheduler's Job interface.
type resolveJob struct {
	driver *batch.Driver
	opts   batch.Options
}

func (j resolveJob) Name() string { return "resolve-pending" }

func (j resolveJob) Run() error {
	s, err := j.driver.Run(context.Background(), j.opts)
	if err != nil {
		return err
	}
	if s.HasFailures() {
		return fmt.Errorf("%d of %d trades failed", s.Failed, s.Total)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	set, err := buildSet(cfg)
	if err != nil {
		return fmt.Errorf("methodologies: %w", err)
	}
	session, err := buildSession(cfg)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	driver := &batch.Driver{
		Store:    st,
		Provider: st,
		Set:      set,
		Session:  session,
		Log:      log,
	}

	sched := schedule.New(log)
	job := resolveJob{driver: driver, opts: batch.Options{
		Workers:    cfg.Batch.Workers,
		Resolution: cfg.Batch.Resolution,
	}}
	if err := sched.AddJob(watchSchedule, job); err != nil {
		return fmt.Errorf("schedule %q: %w", watchSchedule, err)
	}

	sched.Start()
	defer sched.Stop()

	// One immediate pass so a backlog doesn't wait for the first tick.
	if err := job.Run(); err != nil {
		log.Error().Err(err).Msg("Initial pass failed")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
