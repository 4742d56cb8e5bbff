package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"brigade/internal/config"
	"brigade/internal/events"
	"brigade/internal/journal"
	"brigade/internal/kitchen"
	"brigade/internal/logging"
	"brigade/internal/order"
	"brigade/internal/preflight"
)

type runFlags struct {
	customers int
	cooks     int
	capacity  int
	seed      int64
	noJournal bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the kitchen and serve until every customer is done",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := applyRunFlags(cmd, *base, flags)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			return runKitchen(cmd.Context(), cmd.OutOrStdout(), &cfg)
		},
	}

	cmd.Flags().IntVar(&flags.customers, "customers", 0, "Number of customers (overrides kitchen.customers)")
	cmd.Flags().IntVar(&flags.cooks, "cooks", 0, "Number of cooks (overrides kitchen.cooks)")
	cmd.Flags().IntVar(&flags.capacity, "capacity", 0, "Queue capacity (overrides kitchen.queue_capacity)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "RNG seed for a reproducible run (0 picks one)")
	cmd.Flags().BoolVar(&flags.noJournal, "no-journal", false, "Do not record this run in the journal")
	return cmd
}

// applyRunFlags overlays explicitly set flags on a copy of cfg. An explicit
// zero reaches validation and is rejected there.
func applyRunFlags(cmd *cobra.Command, cfg config.Config, flags runFlags) config.Config {
	changed := cmd.Flags().Changed
	if changed("customers") {
		cfg.Kitchen.Customers = flags.customers
	}
	if changed("cooks") {
		cfg.Kitchen.Cooks = flags.cooks
	}
	if changed("capacity") {
		cfg.Kitchen.QueueCapacity = flags.capacity
	}
	if changed("seed") {
		cfg.Seed = flags.seed
	}
	if flags.noJournal {
		cfg.Journal.Enabled = false
	}
	return cfg
}

func runKitchen(parent context.Context, out io.Writer, cfg *config.Config) error {
	colorize := shouldColorize(out)

	results := preflight.RunAll(cfg)
	if failed := preflight.Failed(results); len(failed) > 0 {
		renderPreflight(out, results, colorize)
		return fmt.Errorf("preflight failed: %s", failed[0].Name)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	recorder := events.NewRecorder()
	opts := []kitchen.Option{
		kitchen.WithLogger(logger),
		kitchen.WithSink(events.NewLogSink(logger)),
		kitchen.WithSink(recorder),
	}

	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg.Paths.StateDir)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		opts = append(opts, kitchen.WithSink(store))
	}

	coord, err := kitchen.New(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, coord.RunID())

	if store != nil {
		if err := store.BeginRun(ctx, journal.RunInfo{
			ID:        coord.RunID(),
			StartedAt: time.Now(),
			Seed:      coord.Seed(),
			Customers: cfg.Kitchen.Customers,
			Cooks:     cfg.Kitchen.Cooks,
			Capacity:  cfg.Kitchen.QueueCapacity,
		}); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	report, runErr := coord.Run(ctx)

	if store != nil {
		finishErr := store.FinishRun(context.WithoutCancel(ctx), report.RunID, journal.RunResult{
			Status:      runStatus(runErr),
			EndedAt:     report.EndedAt,
			Enqueued:    report.Enqueued,
			Completed:   report.Completed,
			Lost:        report.Lost,
			Abandoned:   report.Abandoned,
			FailedTasks: report.FailedTasks,
		})
		if finishErr != nil {
			logging.WarnWithContext(logging.WithContext(ctx, logger), "journal summary not saved", "journal_write_failed",
				logging.Error(finishErr),
				logging.String(logging.FieldImpact, "history shows this run without final counts"),
			)
		}
	}

	renderRunSummary(out, report, runStatus(runErr), consumerTotals(recorder), colorize)
	logRunOutcome(logging.WithContext(ctx, logger), report, runErr)
	return runErr
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return journal.StatusComplete
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return journal.StatusCancelled
	default:
		return journal.StatusFailed
	}
}

func logRunOutcome(logger *slog.Logger, report kitchen.Report, err error) {
	if err != nil || report.Clean() {
		return
	}
	logging.WarnWithContext(logger, "kitchen closed with losses", "run_degraded",
		logging.Int("lost", report.Lost),
		logging.Int("abandoned", report.Abandoned),
		logging.Int("failed_tasks", report.FailedTasks),
		logging.String(logging.FieldErrorHint, "see task_failed events in the log or brigade history"),
	)
}

type cookTotal struct {
	id    int
	items int
}

// consumerTotals reads each cook's dish count from its ConsumerDone event.
func consumerTotals(rec *events.Recorder) []cookTotal {
	var totals []cookTotal
	for _, ev := range rec.Events() {
		if ev.Kind == events.KindConsumerDone {
			totals = append(totals, cookTotal{id: ev.ActorID, items: ev.Count})
		}
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].id < totals[j].id })
	return totals
}

func renderRunSummary(out io.Writer, report kitchen.Report, status string, cooks []cookTotal, colorize bool) {
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Run "+shortID(report.RunID), colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(status),
		fmt.Sprintf("%s in %s", status, report.Elapsed().Round(time.Millisecond)), colorize))
	fmt.Fprintln(out, renderStatusLine("Run ID", statusInfo, report.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Seed", statusInfo, strconv.FormatInt(report.Seed, 10), colorize))
	if !report.Clean() {
		fmt.Fprintln(out, renderStatusLine("Accounting", statusWarn,
			fmt.Sprintf("%d lost, %d abandoned, %d failed tasks", report.Lost, report.Abandoned, report.FailedTasks), colorize))
	}

	rows := [][]string{
		{"Customers", strconv.Itoa(report.Customers)},
		{"Cooks", strconv.Itoa(report.Cooks)},
		{"Queue capacity", strconv.Itoa(report.Capacity)},
		{"Queue high water", strconv.Itoa(report.HighWater)},
		{"Enqueued", humanize.Comma(int64(report.Enqueued))},
		{"Completed", humanize.Comma(int64(report.Completed))},
		{"Lost", strconv.Itoa(report.Lost)},
		{"Abandoned", strconv.Itoa(report.Abandoned)},
		{"Backpressure waits", humanize.Comma(int64(report.Backpressure))},
		{"Failed tasks", strconv.Itoa(report.FailedTasks)},
	}
	fmt.Fprintln(out, tableSpec{
		title:   "Summary",
		headers: []string{"Metric", "Value"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight},
	}.render())

	priorityRows := make([][]string, 0, len(order.AllPriorities()))
	for _, p := range order.AllPriorities() {
		priorityRows = append(priorityRows, []string{p.String(), strconv.Itoa(report.CompletedByPriority[p])})
	}
	fmt.Fprintln(out, tableSpec{
		title:   "By priority",
		headers: []string{"Priority", "Dishes"},
		rows:    priorityRows,
		aligns:  []columnAlignment{alignLeft, alignRight},
	}.render())

	if len(cooks) > 0 {
		cookRows := make([][]string, 0, len(cooks))
		total := 0
		for _, c := range cooks {
			cookRows = append(cookRows, []string{fmt.Sprintf("Cook %d", c.id), strconv.Itoa(c.items)})
			total += c.items
		}
		fmt.Fprintln(out, tableSpec{
			title:   "Cooks",
			headers: []string{"Cook", "Dishes"},
			rows:    cookRows,
			aligns:  []columnAlignment{alignLeft, alignRight},
			footer:  []string{"Total", strconv.Itoa(total)},
		}.render())
	}
}
