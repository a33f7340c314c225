package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focustrack/internal/adapters/otel"
	"focustrack/internal/domain"
	"focustrack/internal/ports"
	"focustrack/internal/timer"
	"focustrack/internal/util"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the pomodoro timer",
	Long: `Start a work interval and keep cycling through breaks.

While the timer runs, commands are read from stdin:
  p  pause the current interval
  r  resume a paused interval
  s  skip the current interval (a skipped work interval is not recorded)
  q  quit; an in-flight work interval is saved as incomplete

Examples:
  focustrack start --task "Write report"
  focustrack start --task refactor --tags work,deep`,
	RunE: runStart,
}

var (
	startTask    string
	startTags    []string
	startVerbose bool
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startTask, "task", "t", "", "Task label for the session")
	startCmd.Flags().StringSliceVar(&startTags, "tags", nil, "Tags to attach to recorded sessions")
	startCmd.Flags().BoolVarP(&startVerbose, "verbose", "v", false, "Log debug output")
}

// snapshotInterval is how often in-progress work state is written to the
// recovery file.
const snapshotInterval = 30 * time.Second

func runStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	logger := stderrLogger{verbose: startVerbose}
	metrics := newMetricsExporter(ctx, logger)
	defer func() { _ = metrics.Close(ctx) }()

	machine := timer.NewMachine(app.Config.TimerConfig(), app.SessionRepo,
		app.Aggregator, app.Evaluator, metrics, logger)

	snapshots, err := newSnapshotStore()
	if err != nil {
		return err
	}
	if err := recoverStaleSnapshot(ctx, app, machine, snapshots, logger); err != nil {
		logger.Error(fmt.Sprintf("recover snapshot: %v", err))
	}

	if err := machine.Start(startTask, startTags); err != nil {
		return err
	}
	fmt.Printf("🍅 Working on %q for %s\n", taskLabel(), formatDuration(machine.Remaining()))

	return runLoop(ctx, machine, snapshots, logger)
}

func taskLabel() string {
	if startTask == "" {
		return domain.DefaultTaskName
	}
	return startTask
}

func runLoop(ctx context.Context, machine *timer.Machine,
	snapshots *timer.SnapshotStore, logger domain.Logger) error {

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	snapshotTicker := time.NewTicker(snapshotInterval)
	defer snapshotTicker.Stop()

	commands := readCommands()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ticker.C:
			result, err := machine.Tick(ctx)
			if err != nil {
				return err
			}
			reportTick(machine, result)

			if result.Event == timer.EventBreakComplete {
				// Roll straight into the next work interval.
				if err := machine.Start(startTask, startTags); err != nil {
					return err
				}
				fmt.Printf("\n🍅 Back to %q for %s\n", taskLabel(), formatDuration(machine.Remaining()))
			}

		case <-snapshotTicker.C:
			if snap := machine.Snapshot(); snap != nil {
				if err := snapshots.Save(snap); err != nil {
					logger.Error(fmt.Sprintf("save snapshot: %v", err))
				}
			}

		case command := <-commands:
			done, err := handleCommand(ctx, machine, snapshots, command)
			if err != nil {
				logger.Error(err.Error())
			}
			if done {
				return nil
			}

		case <-sigs:
			fmt.Println("\nShutting down...")
			return shutdown(ctx, machine, snapshots)
		}
	}
}

func handleCommand(ctx context.Context, machine *timer.Machine,
	snapshots *timer.SnapshotStore, command string) (done bool, err error) {

	switch command {
	case "p":
		if err := machine.Pause(); err != nil {
			return false, err
		}
		fmt.Println("⏸  Paused")
	case "r":
		if err := machine.Resume(); err != nil {
			return false, err
		}
		fmt.Println("▶  Resumed")
	case "s":
		if err := machine.Skip(); err != nil {
			return false, err
		}
		fmt.Println("⏭  Skipped; timer is idle. Press q to quit.")
	case "q":
		return true, shutdown(ctx, machine, snapshots)
	}
	return false, nil
}

func shutdown(ctx context.Context, machine *timer.Machine, snapshots *timer.SnapshotStore) error {
	if err := machine.Shutdown(ctx); err != nil {
		return err
	}
	return snapshots.Clear()
}

func reportTick(machine *timer.Machine, result *timer.TickResult) {
	switch result.Event {
	case timer.EventWorkComplete:
		fmt.Printf("\n✅ Pomodoro complete (focus score %.0f). ", result.Session.FocusScore)
		if result.State.Phase == timer.PhaseLongBreak {
			fmt.Printf("🌴 Long break: %s\n", formatDuration(machine.Remaining()))
		} else {
			fmt.Printf("☕ Short break: %s\n", formatDuration(machine.Remaining()))
		}
		for _, achievement := range result.Unlocked {
			fmt.Printf("🏆 Achievement unlocked: %s %s — %s\n",
				achievement.Icon, achievement.Name, achievement.Description)
		}
	case timer.EventBreakComplete:
		fmt.Println("\n⏰ Break over.")
	default:
		if result.State.Phase == timer.PhaseWorking || result.State.IsBreak() {
			fmt.Printf("\r%s  %s ", result.State, formatDuration(machine.Remaining()))
		}
	}
}

// readCommands forwards single-letter commands typed on stdin.
func readCommands() <-chan string {
	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- strings.ToLower(strings.TrimSpace(scanner.Text()))
		}
	}()
	return commands
}

func newMetricsExporter(ctx context.Context, logger domain.Logger) ports.MetricsExporter {
	cfg := otel.LoadConfig()
	if !cfg.Enabled {
		return otel.NewNoOpExporter()
	}
	exporter, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("metrics disabled: %v", err))
		return otel.NewNoOpExporter()
	}
	return exporter
}

func newSnapshotStore() (*timer.SnapshotStore, error) {
	dataDir, err := util.EnsureDataDir()
	if err != nil {
		return nil, err
	}
	return timer.NewSnapshotStore(filepath.Join(dataDir, "recovery.json")), nil
}

// recoverStaleSnapshot persists work lost to a crash in a previous run.
// The snapshot from this process (matching instance ID) is never stale.
func recoverStaleSnapshot(ctx context.Context, app *AppContext, machine *timer.Machine,
	snapshots *timer.SnapshotStore, logger domain.Logger) error {

	snap, err := snapshots.Load()
	if err != nil {
		return err
	}
	if snap == nil || snap.InstanceID == machine.InstanceID() {
		return nil
	}

	elapsed := app.Config.TimerConfig().WorkSeconds - snap.Remaining
	if elapsed > 0 {
		session := &domain.Session{
			StartTime:     snap.SessionStart,
			EndTime:       snap.SessionStart.Add(time.Duration(elapsed) * time.Second),
			Duration:      elapsed,
			TaskName:      snap.Task,
			Completed:     false,
			Interruptions: snap.Interruptions,
			FocusScore:    domain.CalculateFocusScore(snap.Interruptions),
		}
		if _, err := app.SessionRepo.Save(ctx, session); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Recovered %s of interrupted work on %q",
			formatDuration(elapsed), snap.Task))
	}

	return snapshots.Clear()
}

func formatDuration(seconds int64) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
