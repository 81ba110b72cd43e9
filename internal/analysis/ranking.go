package analysis

import (
	"sort"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

// TopDevices returns up to n devices ordered by power, highest first.
// Devices with equal power keep their insertion order. The input slice is
// not reordered.
func TopDevices(devices []household.Device, n int) []household.Device {
	if n <= 0 {
		return []household.Device{}
	}
	sorted := make([]household.Device, len(devices))
	copy(sorted, devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Power > sorted[j].Power
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
