// Package analysis derives power totals, the hourly load curve, device
// rankings and recommendations from a snapshot of settings and devices.
//
// Every function is pure: inputs are never modified and nothing is cached
// between calls, so a snapshot may be shared by concurrent callers.
package analysis

import "github.com/blackwell-systems/wattwatch/internal/household"

// Hour bounds of the load curve. Bucket i holds hour FirstHour+i.
const (
	FirstHour = 2
	LastHour  = 24
	HourSlots = LastHour - FirstHour + 1
)

// LoadCurve is the power sampled at each hour from FirstHour to LastHour.
type LoadCurve [HourSlots]household.Watts

// HourPoint is one sample of a LoadCurve.
type HourPoint struct {
	Hour  int             `json:"hour"`
	Power household.Watts `json:"power_w"`
}

// HourAt returns the hour represented by bucket i.
func HourAt(i int) int {
	return FirstHour + i
}

// IndexOf returns the bucket for hour h and whether h is on the curve.
func IndexOf(h int) (int, bool) {
	if h < FirstHour || h > LastHour {
		return 0, false
	}
	return h - FirstHour, true
}

// TotalPower sums the power of all devices.
func TotalPower(devices []household.Device) household.Watts {
	var total household.Watts
	for _, d := range devices {
		total += d.Power
	}
	return total
}

// LoadByHour adds each device's full power to every hour h with
// TimeFrom <= h <= TimeTo. Power is not prorated; a device running 8..10
// counts in buckets 8, 9 and 10.
func LoadByHour(devices []household.Device) LoadCurve {
	var curve LoadCurve
	for _, d := range devices {
		for i := range curve {
			h := HourAt(i)
			if d.TimeFrom <= h && h <= d.TimeTo {
				curve[i] += d.Power
			}
		}
	}
	return curve
}

// Peak returns the bucket with the highest load. The lowest hour wins ties.
func (c LoadCurve) Peak() (int, household.Watts) {
	idx := 0
	for i, v := range c {
		if v > c[idx] {
			idx = i
		}
	}
	return idx, c[idx]
}

// Points returns the curve as hour/power pairs.
func (c LoadCurve) Points() []HourPoint {
	points := make([]HourPoint, len(c))
	for i, v := range c {
		points[i] = HourPoint{Hour: HourAt(i), Power: v}
	}
	return points
}
