package analysis

import "github.com/blackwell-systems/wattwatch/internal/household"

// DefaultTopN is how many devices presentation layers rank by default.
const DefaultTopN = 5

// Report bundles every derived view of one snapshot.
type Report struct {
	ObjectName      string              `json:"object_name"`
	MaxPowerKW      household.Kilowatts `json:"max_power_kw"`
	TotalPowerW     household.Watts     `json:"total_power_w"`
	TotalPowerKW    household.Kilowatts `json:"total_power_kw"`
	DeviceCount     int                 `json:"device_count"`
	ChartAvailable  bool                `json:"chart_available"`
	LoadByHour      []HourPoint         `json:"load_by_hour"`
	TopDevices      []household.Device  `json:"top_devices"`
	Recommendations []string            `json:"recommendations"`
}

// Analyze computes a Report for the snapshot. The load curve is only worth
// plotting when there are devices and a positive maximum power.
func Analyze(settings household.Settings, devices []household.Device, topN int) Report {
	total := TotalPower(devices)
	snap := &Snapshot{Settings: settings, Devices: devices}
	return Report{
		ObjectName:      settings.ObjectName,
		MaxPowerKW:      settings.MaxPower,
		TotalPowerW:     total,
		TotalPowerKW:    total.Kilowatts(),
		DeviceCount:     len(devices),
		ChartAvailable:  snap.Sufficient(),
		LoadByHour:      LoadByHour(devices).Points(),
		TopDevices:      TopDevices(devices, topN),
		Recommendations: NewEngine().Run(snap),
	}
}
