package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"brigade/internal/events"
	"brigade/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled runs, or the events of one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.OpenReader(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if strings.TrimSpace(runID) != "" {
				run, err := store.FindRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				evs, err := store.RunEvents(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				renderRunDetail(out, run, evs, colorize)
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRunList(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show events for a run id or unique prefix")
	return cmd
}

func renderRunList(runs []journal.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		elapsed := "-"
		if d := r.Elapsed(); d > 0 {
			elapsed = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			shortID(r.ID),
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			elapsed,
			r.Status,
			fmt.Sprintf("%d/%d", r.Customers, r.Cooks),
			fmt.Sprintf("%s/%s", humanize.Comma(int64(r.Completed)), humanize.Comma(int64(r.Enqueued))),
			strconv.Itoa(r.Lost + r.Abandoned),
			strconv.Itoa(r.FailedTasks),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Elapsed", "Status", "Cust/Cooks", "Served", "Unserved", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderRunDetail(out io.Writer, run journal.Run, evs []events.Event, colorize bool) {
	for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), run.Status, colorize))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime), colorize))
	if d := run.Elapsed(); d > 0 {
		fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, d.Round(time.Millisecond).String(), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Seed", statusInfo, strconv.FormatInt(run.Seed, 10), colorize))
	fmt.Fprintln(out, renderStatusLine("Kitchen", statusInfo,
		fmt.Sprintf("%d customers, %d cooks, capacity %d", run.Customers, run.Cooks, run.Capacity), colorize))
	fmt.Fprintln(out, renderStatusLine("Served", statusInfo,
		fmt.Sprintf("%d of %d", run.Completed, run.Enqueued), colorize))

	if len(evs) == 0 {
		fmt.Fprintln(out, "No events recorded")
		return
	}
	rows := make([][]string, 0, len(evs))
	for i, ev := range evs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ev.At.Local().Format("15:04:05.000"),
			string(ev.Kind),
			eventActor(ev),
			ev.Dish,
			eventPriority(ev),
			eventDetail(ev),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Time", "Event", "Actor", "Dish", "Priority", "Detail"},
		rows,
		[]columnAlignment{alignRight},
	))
}

func eventActor(ev events.Event) string {
	if ev.Role == events.RoleCoordinator || ev.ActorID == 0 {
		return string(ev.Role)
	}
	return fmt.Sprintf("%s %d", ev.Role, ev.ActorID)
}

func eventPriority(ev events.Event) string {
	if !ev.Priority.Valid() {
		return ""
	}
	return ev.Priority.String()
}

func eventDetail(ev events.Event) string {
	switch ev.Kind {
	case events.KindItemCompleted:
		return "cooked in " + ev.Elapsed.String()
	case events.KindQueueFullBackpressure:
		return fmt.Sprintf("attempt %d, retry in %s", ev.Attempt, ev.Wait)
	case events.KindTaskFailed:
		return ev.Err
	case events.KindProducerDone, events.KindConsumerDone, events.KindRunComplete:
		return fmt.Sprintf("%d items", ev.Count)
	case events.KindItemEnqueued, events.KindItemStarted:
		if ev.OrderID > 0 {
			return fmt.Sprintf("customer %d order %d", ev.CustomerID, ev.OrderID)
		}
	}
	return ""
}
