package analysis

import "github.com/blackwell-systems/wattwatch/internal/household"

// Recommendation texts.
const (
	MsgInsufficientData = "Insufficient data for analysis. Fill in the source data and add devices."
	MsgAllClear         = "Everything is fine, electrical device usage is optimal."
)

// Thresholds as fractions of the contracted maximum power.
const (
	PeakLoadShare     = 0.8
	DominantShare     = 0.5
	TopThreeLoadShare = 0.5
)

// Snapshot is the read-only input every rule is evaluated against.
type Snapshot struct {
	Settings household.Settings
	Devices  []household.Device
}

// MaxPowerWatts is the contracted maximum converted to watts.
func (s *Snapshot) MaxPowerWatts() household.Watts {
	return s.Settings.MaxPower.Watts()
}

// Sufficient reports whether there is enough data to evaluate rules.
func (s *Snapshot) Sufficient() bool {
	return len(s.Devices) > 0 && s.Settings.MaxPower > 0
}

// Rule examines a snapshot and returns a recommendation if it applies.
type Rule func(s *Snapshot) (string, bool)
