// Package batch drives incremental (re)processing of the trade
// population: it enumerates trades needing work, runs the outcome
// engine per trade across a bounded worker pool, and persists results
// via idempotent upserts. Per-trade work is pure computation over that
// trade's own bar slice, so trades share nothing but the store.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edgelab/outcomes/bars"
	"github.com/edgelab/outcomes/engine"
	"github.com/edgelab/outcomes/market"
	"github.com/edgelab/outcomes/methodology"
	"github.com/edgelab/outcomes/pkg/id"
	"github.com/edgelab/outcomes/store"
)

// Step names the two pipeline stages a partial run can target.
type Step string

const (
	StepResolve   Step = "resolve"   // compute + persist methodology outcomes
	StepReconcile Step = "reconcile" // select + persist canonical outcomes
)

// Options controls one batch run.
type Options struct {
	Full       bool     // reprocess every trade, not just pending ones
	DryRun     bool     // report what would change, write nothing
	Only       string   // a Step name or a methodology ID; empty = full pipeline
	StartFrom  Step     // resume from a stage, reusing persisted upstream results
	Trades     []string // explicit trade IDs; overrides pending selection
	Workers    int      // worker pool size; defaults to 4
	Resolution int      // bar resolution in minutes; defaults to 1
}

// Driver wires the engine to its collaborators.
type Driver struct {
	Store    *store.Store
	Provider bars.Provider
	Set      methodology.Set
	Session  market.SessionSpec
	Log      zerolog.Logger
}

// Run executes one batch pass and returns its summary. Only a fatal
// infrastructure error (persistence unreachable) returns a non-nil
// error; individual trade failures are accumulated in the summary.
func (d *Driver) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Resolution <= 0 {
		opts.Resolution = 1
	}
	if opts.StartFrom == "" {
		opts.StartFrom = StepResolve
	}
	// --only reconcile implies resuming from persisted methodology outcomes.
	if opts.Only == string(StepReconcile) {
		opts.StartFrom = StepReconcile
	}
	if err := d.validate(opts); err != nil {
		return Summary{}, err
	}

	runID := id.New()
	log := d.Log.With().Str("component", "batch").Str("run_id", runID).Logger()
	started := time.Now().UTC()

	ids, err := d.pending(ctx, opts)
	if err != nil {
		return Summary{}, fmt.Errorf("enumerate pending trades: %w", err)
	}

	log.Info().
		Int("trades", len(ids)).
		Int("workers", opts.Workers).
		Bool("dry_run", opts.DryRun).
		Bool("full", opts.Full).
		Msg("Batch run starting")

	col := newCollector(runID, len(ids), opts.DryRun)
	cache := bars.NewCache(d.Provider)
	policy := engine.ReconcilePolicy{
		PrimaryID:  d.Set.Primary().ID(),
		FallbackID: d.Set.Fallback().ID(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, tradeID := range ids {
		g.Go(func() error {
			return d.processTrade(gctx, log, cache, tradeID, opts, policy, col)
		})
	}
	if err := g.Wait(); err != nil {
		return col.summary(), err
	}

	s := col.summary()
	if !opts.DryRun {
		rec := store.RunRecord{
			RunID:     runID,
			Started:   started,
			Finished:  time.Now().UTC(),
			DryRun:    false,
			Total:     s.Total,
			Processed: s.Processed,
			Failed:    s.Failed,
			Skipped:   s.Skipped,
		}
		if err := d.Store.RecordRun(ctx, rec); err != nil {
			log.Error().Err(err).Msg("Failed to record batch run")
		}
	}

	log.Info().
		Int("processed", s.Processed).
		Int("failed", s.Failed).
		Int("skipped", s.Skipped).
		Msg("Batch run finished")
	return s, nil
}

func (d *Driver) validate(opts Options) error {
	switch opts.StartFrom {
	case StepResolve, StepReconcile:
	default:
		return fmt.Errorf("unknown step %q (steps: resolve, reconcile)", opts.StartFrom)
	}
	if opts.Only == "" || opts.Only == string(StepResolve) || opts.Only == string(StepReconcile) {
		return nil
	}
	if _, ok := d.Set.ByID(opts.Only); !ok {
		return fmt.Errorf("unknown --only target %q (steps: resolve, reconcile; methodologies: %s)",
			opts.Only, methodologyIDs(d.Set))
	}
	return nil
}

func methodologyIDs(set methodology.Set) string {
	out := ""
	for i, m := range set.All() {
		if i > 0 {
			out += ", "
		}
		out += m.ID()
	}
	return out
}

func (d *Driver) pending(ctx context.Context, opts Options) ([]string, error) {
	if len(opts.Trades) > 0 {
		return opts.Trades, nil
	}
	if opts.Full {
		return d.Store.ListTradeIDs(ctx)
	}
	return d.Store.ListPendingTradeIDs(ctx)
}

// processTrade runs the full per-trade pipeline. It returns a non-nil
// error only for fatal infrastructure failures; the classified error
// kinds land in the collector instead.
func (d *Driver) processTrade(ctx context.Context, log zerolog.Logger, cache *bars.Cache,
	tradeID string, opts Options, policy engine.ReconcilePolicy, col *collector) error {

	t, err := d.Store.GetTrade(ctx, tradeID)
	if err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID).Msg("Trade not loadable")
		col.skip(KindMalformedTrade, tradeID)
		return nil
	}
	if err := t.Validate(); err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID).Msg("Malformed trade skipped")
		col.skip(KindMalformedTrade, tradeID)
		return nil
	}

	var outs []engine.MethodologyOutcome
	if opts.StartFrom == StepReconcile {
		outs, err = d.Store.ListMethodologyOutcomes(ctx, tradeID)
		if err != nil {
			return fmt.Errorf("load methodology outcomes for %s: %w", tradeID, err)
		}
	} else {
		session, err := cache.Bars(ctx, t.Ticker, t.Date, opts.Resolution)
		if err != nil {
			log.Warn().Err(err).Str("trade_id", tradeID).Msg("Bar series unavailable")
			col.fail(KindDataUnavailable, tradeID)
			return nil
		}

		ms := d.Set.All()
		if m, ok := d.Set.ByID(opts.Only); ok {
			ms = []methodology.Methodology{m}
		}
		for _, m := range ms {
			o := engine.RunMethodology(t, session, m, d.Session)
			if !o.Available {
				col.note(KindDataUnavailable, tradeID)
				log.Debug().
					Str("trade_id", tradeID).
					Str("methodology", m.ID()).
					Str("reason", o.UnavailableReason).
					Msg("Methodology unavailable")
			}
			outs = append(outs, o)
			if !opts.DryRun {
				if err := d.Store.UpsertMethodologyOutcome(ctx, o); err != nil {
					return fmt.Errorf("persist methodology outcome %s/%s: %w", tradeID, m.ID(), err)
				}
			}
		}
	}

	// A methodology-scoped or resolve-only run stops before canonical
	// selection.
	if opts.Only == string(StepResolve) {
		col.processed()
		return nil
	}
	if _, ok := d.Set.ByID(opts.Only); ok {
		col.processed()
		return nil
	}

	c, err := engine.Reconcile(outs, policy)
	if err != nil {
		if errors.Is(err, engine.ErrNoMethodologyAvailable) {
			log.Warn().Err(err).Str("trade_id", tradeID).Msg("Trade excluded from canonical output")
			col.fail(KindNoMethodology, tradeID)
			return nil
		}
		return fmt.Errorf("reconcile %s: %w", tradeID, err)
	}

	if !opts.DryRun {
		if err := d.Store.UpsertCanonicalOutcome(ctx, c); err != nil {
			return fmt.Errorf("persist canonical outcome %s: %w", tradeID, err)
		}
	}
	col.processed()
	return nil
}
