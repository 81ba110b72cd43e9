package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/config"
	"github.com/blackwell-systems/wattwatch/internal/output"
	"github.com/blackwell-systems/wattwatch/internal/store"
	"github.com/blackwell-systems/wattwatch/internal/watcher"
)

// minWatchInterval keeps the poll loop from hammering the data file.
const minWatchInterval = 5 * time.Second

var (
	watchDaemon   bool
	watchInterval string
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the household and alert when the load picture changes",
	Long: `Periodically re-read the stored settings and devices. Desktop notifications
and terminal alerts are emitted when the peak hourly load reaches or nears
the maximum power, when a new recommendation appears, and when devices or
the maximum power change.

Examples:
  wattwatch watch                    # run in foreground (ctrl-c to stop)
  wattwatch watch --daemon           # run in background, write PID file
  wattwatch watch --interval 30s     # check every 30 seconds (default: 1m)
  wattwatch watch --stop             # stop the background daemon`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "1m", "Check interval as duration string (e.g. 30s, 5m)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func parseWatchInterval(s string) (time.Duration, error) {
	interval, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}

	interval, err := parseWatchInterval(watchInterval)
	if err != nil {
		return err
	}

	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if watchDaemon {
		return runDaemon(repo, interval)
	}
	return runForeground(repo, interval)
}

// watchContext is cancelled on the first shutdown signal.
func watchContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), shutdownSignals...)
}

func runForeground(repo store.Repository, interval time.Duration) error {
	ctx, cancel := watchContext()
	defer cancel()

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		if !watchQuiet {
			printAlert(a)
		}
	}

	w := watcher.New(repo, interval, alertFn)
	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}
	w.Baseline(initial)

	if !watchQuiet {
		fmt.Printf("wattwatch watching %s... (checking every %s)\n", objectLabel(initial.ObjectName), interval)
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), checkMark(), describeState(initial))
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon sets up PID and log files, then runs the watcher. Backgrounding
// is left to the caller (nohup, &, a service manager).
func runDaemon(repo store.Repository, interval time.Duration) error {
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		_ = os.Remove(pidFilePath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	ctx, cancel := watchContext()
	defer cancel()

	writeLog(logFile, "wattwatch daemon started (PID %d, interval %s)", pid, interval)

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		writeLog(logFile, "[%s] %s: %s", a.Level, a.Title, a.Message)
	}

	err = watcher.New(repo, interval, alertFn).Run(ctx)
	if errors.Is(err, context.Canceled) {
		writeLog(logFile, "daemon stopped")
		return nil
	}
	return err
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// writeLog writes a timestamped line to the log file.
func writeLog(f *os.File, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(f, "[%s] %s\n", timestamp, msg)
}

func describeState(s *watcher.State) string {
	if s.MaxPower <= 0 {
		return fmt.Sprintf("%d device(s), no maximum power set", s.DeviceCount)
	}
	return fmt.Sprintf("Peak %s kW at %d:00 of %s kW (%d device(s))",
		formatFloat(float64(s.PeakPower.Kilowatts())), s.PeakHour,
		formatFloat(float64(s.MaxPower)), s.DeviceCount)
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Printf("[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Printf("         %s\n", output.StyleMuted.Render(a.Message))
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("●")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("⚠")
	case watcher.LevelInfo:
		return checkMark()
	default:
		return " "
	}
}

func checkMark() string {
	return output.StyleSuccess.Render("✓")
}
