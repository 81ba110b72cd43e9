// Package watcher polls the stored household data and emits alerts when the
// load picture changes in a way worth telling someone about.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
)

// Alert levels, most severe first.
const (
	LevelCritical = "critical"
	LevelWarning  = "warning"
	LevelInfo     = "info"
)

// Loader reads the current household data.
type Loader interface {
	Load() (household.AppData, error)
}

// State captures a point-in-time summary of the household.
type State struct {
	Timestamp       time.Time
	ObjectName      string
	MaxPower        household.Kilowatts
	DeviceCount     int
	TotalPower      household.Watts
	PeakHour        int
	PeakPower       household.Watts
	Recommendations []string

	devices []household.Device
}

// PeakShare is the peak hourly load as a fraction of the maximum power, or
// 0 when no maximum is set.
func (s *State) PeakShare() float64 {
	limit := s.MaxPower.Watts()
	if limit <= 0 {
		return 0
	}
	return float64(s.PeakPower / limit)
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string
	Title   string
	Message string
	Time    time.Time
}

// Watcher checks the household data at a regular interval and emits alerts
// when notable changes are detected.
type Watcher struct {
	data          Loader
	interval      time.Duration
	previous      *State
	alertFn       func(Alert)
	lastAlertKeys map[string]bool // suppresses repeats of last cycle's alerts
}

// New creates a Watcher over data.
func New(data Loader, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		data:          data,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Run takes an initial snapshot unless a baseline was set, then checks at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		initial, err := w.Snapshot()
		if err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
		w.previous = initial
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Baseline records s as the state the next check compares against.
func (w *Watcher) Baseline(s *State) {
	w.previous = s
}

// Check takes a new snapshot, compares it against the previous one and
// returns any alerts. Identical alerts are suppressed until the underlying
// data changes.
func (w *Watcher) Check() []Alert {
	curr, err := w.Snapshot()
	if err != nil {
		return []Alert{{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not read household data: %v", err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot loads the household and summarizes it.
func (w *Watcher) Snapshot() (*State, error) {
	data, err := w.data.Load()
	if err != nil {
		return nil, fmt.Errorf("loading household: %w", err)
	}

	idx, peak := analysis.LoadByHour(data.Devices).Peak()
	return &State{
		Timestamp:       time.Now(),
		ObjectName:      data.Settings.ObjectName,
		MaxPower:        data.Settings.MaxPower,
		DeviceCount:     len(data.Devices),
		TotalPower:      analysis.TotalPower(data.Devices),
		PeakHour:        analysis.HourAt(idx),
		PeakPower:       peak,
		Recommendations: analysis.Recommendations(data.Settings, data.Devices),
		devices:         append([]household.Device(nil), data.Devices...),
	}, nil
}
