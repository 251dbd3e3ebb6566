package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/conneroisu/chassis/internal/config"
	"github.com/conneroisu/chassis/internal/di"
	"github.com/conneroisu/chassis/internal/scenario"
	"github.com/conneroisu/chassis/internal/watcher"
)

var runCmd = &cobra.Command{
	Use:     "run <scenario.yml>...",
	Aliases: []string{"r"},
	Short:   "Run scenario files and print their event transcripts",
	Long: `Run builds the document described by each scenario file, executes its
steps and prints every event the hosts emitted along the way.

A failing step ends its scenario unless --keep-going (or
scenario.keep_going) is set. The command fails when any scenario fails.

Examples:
  chassis run tags.yml                # Print the transcript as a table
  chassis run tags.yml -o json        # Output as JSON
  chassis run *.yml --keep-going      # Report every failing step
  chassis run tags.yml --watch        # Re-run whenever the file changes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runFlags     *OutputFlags
	runWatch     bool
	runKeepGoing bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runFlags = AddOutputFlags(runCmd)
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run scenarios when their files change")
	runCmd.Flags().BoolVarP(&runKeepGoing, "keep-going", "k", false, "Continue after a failing step")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("keep-going") {
		cfg.Scenario.KeepGoing = runKeepGoing
	}
	for _, path := range args {
		if err := ValidateFileExists(path); err != nil {
			return err
		}
	}

	out := runFlags.Writer(cmd.OutOrStdout())
	runner := scenario.NewRunner(cfg, cmd.ErrOrStderr())

	err = runFiles(cmd.Context(), runner, args, out, runFlags.Format)
	if !runWatch {
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	return watchScenarios(cmd.Context(), cfg, runner, args, out, cmd.ErrOrStderr())
}

// runFiles runs every file and prints each result; failures of one file
// do not stop the others.
func runFiles(ctx context.Context, runner *scenario.Runner, paths []string, out io.Writer, format string) error {
	var errs error
	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		result, err := runner.Run(ctx, s)
		if result != nil {
			if werr := writeResult(out, format, path, result); werr != nil {
				return multierr.Append(errs, werr)
			}
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func writeResult(w io.Writer, format, path string, result *scenario.Result) error {
	return render(w, format, result, func(tw *tabwriter.Writer) {
		name := result.Name
		if name == "" {
			name = path
		}
		fmt.Fprintf(tw, "Scenario: %s\n\n", name)
		writeHeader(tw, "step", "action", "event", "target", "detail")
		for _, e := range result.Transcript {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Step, e.Action, e.Event, e.Target, formatDetail(e.Detail))
		}
		fmt.Fprintf(tw, "\n%d steps, %d failed\n", result.Steps, result.Failed)
	})
}

func formatDetail(detail any) string {
	if detail == nil {
		return ""
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Sprint(detail)
	}
	return string(data)
}

// watchScenarios re-runs changed scenario files until interrupted.
func watchScenarios(ctx context.Context, cfg *config.Config, runner *scenario.Runner, paths []string, out, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container := di.NewServiceContainer(cfg)
	container.SetLogOutput(errOut)
	if err := container.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize service container: %w", err)
	}
	defer func() {
		if shutdownErr := container.Shutdown(context.Background()); shutdownErr != nil {
			fmt.Fprintf(errOut, "Warning: Error during container shutdown: %v\n", shutdownErr)
		}
	}()

	fileWatcher, err := container.FileWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fileWatcher.AddFilter(watcher.ScenarioFilter)
	fileWatcher.AddFilter(anyOf(paths))
	for _, path := range paths {
		if err := fileWatcher.AddPath(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		changed := changedFiles(events)
		if len(changed) == 0 {
			return nil
		}
		fmt.Fprintf(errOut, "%d scenario file(s) changed, re-running\n", len(changed))
		if err := runFiles(ctx, runner, changed, out, runFlags.Format); err != nil {
			fmt.Fprintln(errOut, err)
		}
		return nil
	})

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	fmt.Fprintln(errOut, "Watching for changes... (Press Ctrl+C to stop)")

	<-ctx.Done()
	fmt.Fprintln(errOut, "Stopping watcher...")
	return nil
}

func anyOf(paths []string) watcher.FileFilter {
	filters := make([]watcher.FileFilter, len(paths))
	for i, p := range paths {
		filters[i] = watcher.PathFilter(p)
	}
	return func(path string) bool {
		for _, f := range filters {
			if f(path) {
				return true
			}
		}
		return false
	}
}

// changedFiles returns the distinct paths of events whose files still exist.
func changedFiles(events []watcher.ChangeEvent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range events {
		if ev.Type == watcher.EventTypeDeleted || seen[ev.Path] {
			continue
		}
		seen[ev.Path] = true
		if _, err := os.Stat(ev.Path); err == nil {
			out = append(out, ev.Path)
		}
	}
	return out
}
