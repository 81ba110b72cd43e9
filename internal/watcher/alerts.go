package watcher

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
)

// Compare detects notable changes between two states and returns alerts,
// critical first.
func Compare(prev, curr *State) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical fires when the peak reaches the maximum power.
func compareCritical(prev, curr *State) []Alert {
	if curr.MaxPower <= 0 || curr.PeakShare() < 1 || prev.PeakShare() >= 1 {
		return nil
	}
	return []Alert{{
		Level: LevelCritical,
		Title: "Peak load over limit",
		Message: fmt.Sprintf("%s kW at %d:00 reaches the maximum power of %s kW",
			kw(curr.PeakPower), curr.PeakHour, formatKW(curr.MaxPower)),
		Time: curr.Timestamp,
	}}
}

// compareWarning detects the peak approaching the limit and recommendations
// that were not given before.
func compareWarning(prev, curr *State) []Alert {
	var alerts []Alert

	share := curr.PeakShare()
	if share >= analysis.PeakLoadShare && share < 1 && prev.PeakShare() < analysis.PeakLoadShare {
		alerts = append(alerts, Alert{
			Level: LevelWarning,
			Title: "Peak load near limit",
			Message: fmt.Sprintf("%s kW at %d:00 is %.0f%% of the maximum power",
				kw(curr.PeakPower), curr.PeakHour, share*100),
			Time: curr.Timestamp,
		})
	}

	for _, rec := range curr.Recommendations {
		if rec == analysis.MsgAllClear || rec == analysis.MsgInsufficientData {
			continue
		}
		if !slices.Contains(prev.Recommendations, rec) {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   "New recommendation",
				Message: rec,
				Time:    curr.Timestamp,
			})
		}
	}
	return alerts
}

// compareInfo reports device list and settings changes, and a peak dropping
// back under the limit.
func compareInfo(prev, curr *State) []Alert {
	var alerts []Alert

	if added := missingFrom(curr.devices, prev.devices); len(added) > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Devices added",
			Message: describeDevices(added, curr.DeviceCount),
			Time:    curr.Timestamp,
		})
	}
	if removed := missingFrom(prev.devices, curr.devices); len(removed) > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Devices removed",
			Message: describeDevices(removed, curr.DeviceCount),
			Time:    curr.Timestamp,
		})
	}

	if prev.MaxPower != curr.MaxPower {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Maximum power changed",
			Message: fmt.Sprintf("From %s kW to %s kW", formatKW(prev.MaxPower), formatKW(curr.MaxPower)),
			Time:    curr.Timestamp,
		})
	}

	if prev.PeakShare() >= 1 && curr.MaxPower > 0 && curr.PeakShare() < 1 {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Peak load back under limit",
			Message: fmt.Sprintf("Peak is now %s kW at %d:00", kw(curr.PeakPower), curr.PeakHour),
			Time:    curr.Timestamp,
		})
	}
	return alerts
}

// missingFrom returns the devices of a with no equal device left in b,
// treating both as multisets. An edited device shows up in both directions.
func missingFrom(a, b []household.Device) []household.Device {
	left := make(map[household.Device]int, len(b))
	for _, d := range b {
		left[d]++
	}
	var out []household.Device
	for _, d := range a {
		if left[d] > 0 {
			left[d]--
			continue
		}
		out = append(out, d)
	}
	return out
}

func describeDevices(devices []household.Device, total int) string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = "«" + d.Name + "»"
	}
	list := names[len(names)-1]
	if len(names) > 1 {
		list = strings.Join(names[:len(names)-1], ", ") + " and " + list
	}
	return fmt.Sprintf("%s (%d device(s) in total)", list, total)
}

func kw(w household.Watts) string {
	return formatKW(w.Kilowatts())
}

func formatKW(k household.Kilowatts) string {
	return strconv.FormatFloat(float64(k), 'f', -1, 64)
}
