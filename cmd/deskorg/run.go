package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/daemon"
	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
	"github.com/eliteGoblin/focusd/desk_org/internal/usecase"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		dir    string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Organize the monitor directory once",
		Long: `Runs one organize pass immediately and prints what was moved.
With --dry-run nothing is created or moved; the planned destinations are shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(dir, usecase.WithNotifier(infra.NewLogNotifier(a.logger)))
			if err != nil {
				return err
			}

			var summary *domain.PassSummary
			if dryRun {
				summary, err = ws.PlanPass(cmd.Context())
			} else {
				summary, err = ws.RunPass(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("organize pass failed: %w", err)
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to organize (defaults to the configured monitor directory)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned moves without touching anything")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		dir      string
		interval int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Organize the monitor directory periodically until interrupted",
		Long: `Runs an organize pass, waits the check interval, and repeats.
Stops cleanly on Ctrl-C or SIGTERM, after any pass in progress completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				expanded, err := infra.ExpandPath(dir)
				if err != nil {
					return err
				}
				a.cfg.MonitorDirectory = expanded
			}
			return a.watch(cmd, interval)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to organize (defaults to the configured monitor directory)")
	cmd.Flags().IntVar(&interval, "interval", 0, "Check interval in seconds (defaults to the configured interval)")
	return cmd
}

func (a *app) watch(cmd *cobra.Command, interval int) error {
	if interval == 0 {
		interval = a.cfg.IntervalSeconds
	}

	notes := infra.NewChannelNotifier(16, a.logger)
	ws, err := a.workspace("", usecase.WithNotifier(infra.MultiNotifier{
		infra.NewLogNotifier(a.logger),
		notes,
	}))
	if err != nil {
		return err
	}

	scheduler := daemon.NewScheduler(ws, a.logger)
	if err := scheduler.Start(interval); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s every %ds (Ctrl-C to stop)\n", ws.Target(), interval)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("received shutdown signal")
			scheduler.Stop()
			return nil
		case note := <-notes.C():
			printNotification(out, note)
		}
	}
}

func newClassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE...",
		Short: "Show which folder each file would be moved into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.cfg.RuleTable()
			if err != nil {
				a.logger.Warn("ignoring invalid rules", zap.Error(err))
			}
			classifier := rules.NewClassifier(table)

			rows := make([][]string, 0, len(args))
			for _, name := range args {
				ext := rules.Extension(name)
				if ext == "" {
					ext = "-"
				}
				rows = append(rows, []string{name, ext, classifier.Classify(name).DirName()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Extension", "Folder"}, rows, nil))
			return nil
		},
	}
}

func printSummary(w io.Writer, s *domain.PassSummary) {
	rows := make([][]string, 0, len(s.Moved)+len(s.Failures))
	for _, m := range s.Moved {
		rows = append(rows, []string{filepath.Base(m.SourcePath), "moved", relTo(s.Target, m.DestPath)})
	}
	for _, f := range s.Failures {
		rows = append(rows, []string{filepath.Base(f.Item), "failed", f.Reason})
	}

	if len(rows) > 0 {
		headers := []string{"File", "Result", "Destination / Reason"}
		if s.DryRun {
			rows = markPlanned(rows)
		}
		fmt.Fprintln(w, renderTable(headers, rows, nil))
	}

	verb := "Moved"
	if s.DryRun {
		verb = "Would move"
	}
	fmt.Fprintf(w, "%s %d file(s) in %s, %d failure(s), %d skipped\n",
		verb, s.FilesMoved, s.Target, len(s.Failures), len(s.Skipped))
}

func printNotification(w io.Writer, n domain.Notification) {
	if n.FilesMoved == 0 && len(n.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "Moved %d file(s), %d failure(s)\n", n.FilesMoved, len(n.Failures))
	for _, f := range n.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Item, f.Reason)
	}
}

func markPlanned(rows [][]string) [][]string {
	for _, r := range rows {
		if r[1] == "moved" {
			r[1] = "planned"
		}
	}
	return rows
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
