package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification for the alert: osascript on macOS,
// notify-send on Linux. Anything else, or a failing notifier, falls back to
// stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return notifyFallback(alert)
	}
}

func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "wattwatch" subtitle %q`,
		alert.Message, alert.Title,
	)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(alert)
	}

	args := []string{"wattwatch: " + alert.Title, alert.Message}
	if alert.Level == LevelCritical {
		args = append([]string{"--urgency=critical"}, args...)
	}
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

func notifyFallback(alert Alert) error {
	_, err := fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
