package analysis

import (
	"fmt"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

// PeakHourOverload fires when the combined power reaches 80% of the
// contracted maximum and points at the two hours following the busiest one.
func PeakHourOverload(s *Snapshot) (string, bool) {
	if TotalPower(s.Devices) < PeakLoadShare*s.MaxPowerWatts() {
		return "", false
	}
	idx, _ := LoadByHour(s.Devices).Peak()
	from := HourAt(idx)
	to := min(from+2, LastHour)
	return fmt.Sprintf("Limit device usage from %d:00 to %d:00.", from, to), true
}

// DominantDevice fires when the single most powerful device draws at least
// half of the contracted maximum.
func DominantDevice(s *Snapshot) (string, bool) {
	top := TopDevices(s.Devices, 1)
	if len(top) == 0 || top[0].Power < DominantShare*s.MaxPowerWatts() {
		return "", false
	}
	return fmt.Sprintf("Replace device «%s» with a more efficient one.", top[0].Name), true
}

// TopThreeLoad fires when the three most powerful devices together draw at
// least half of the contracted maximum. Fewer than three devices never fire.
func TopThreeLoad(s *Snapshot) (string, bool) {
	top := TopDevices(s.Devices, 3)
	if len(top) != 3 {
		return "", false
	}
	var sum household.Watts
	for _, d := range top {
		sum += d.Power
	}
	if sum < TopThreeLoadShare*s.MaxPowerWatts() {
		return "", false
	}
	return fmt.Sprintf("Do not use devices «%s», «%s» and «%s» simultaneously.",
		top[0].Name, top[1].Name, top[2].Name), true
}
