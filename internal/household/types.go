// Package household defines the tracked devices, site settings and the
// entry-layer checks applied before data reaches storage or analysis.
package household

import "errors"

// ErrDeviceIndex is returned when a device position is outside the collection.
var ErrDeviceIndex = errors.New("device index out of range")

// Watts is an instantaneous power draw in watts.
type Watts float64

// Kilowatts is a power value in kilowatts.
type Kilowatts float64

// Watts converts k to watts.
func (k Kilowatts) Watts() Watts {
	return Watts(k * 1000)
}

// Kilowatts converts w to kilowatts.
func (w Watts) Kilowatts() Kilowatts {
	return Kilowatts(w / 1000)
}

// Settings holds site-wide configuration.
type Settings struct {
	ObjectName string    `json:"object_name"`
	MaxPower   Kilowatts `json:"max_power"`
}

// Device is a tracked electrical load with a fixed operating window.
// TimeFrom and TimeTo are hours on a 0-24 scale.
type Device struct {
	Location string `json:"location"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Power    Watts  `json:"power"`
	TimeFrom int    `json:"time_from"`
	TimeTo   int    `json:"time_to"`
}

// AppData is everything that gets persisted: the settings plus devices in
// insertion order.
type AppData struct {
	Settings Settings `json:"settings"`
	Devices  []Device `json:"devices"`
}

// Clone returns a copy of d that shares no backing storage with it.
func (d AppData) Clone() AppData {
	devices := make([]Device, len(d.Devices))
	copy(devices, d.Devices)
	return AppData{Settings: d.Settings, Devices: devices}
}

// AddDevice appends dev to the collection.
func (d *AppData) AddDevice(dev Device) {
	d.Devices = append(d.Devices, dev)
}

// ReplaceDevice overwrites the device at position i.
func (d *AppData) ReplaceDevice(i int, dev Device) error {
	if i < 0 || i >= len(d.Devices) {
		return ErrDeviceIndex
	}
	d.Devices[i] = dev
	return nil
}

// RemoveDevices deletes the devices at the given positions and returns how
// many were removed. Duplicate and out-of-range positions are ignored.
func (d *AppData) RemoveDevices(indices ...int) int {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(d.Devices) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := make([]Device, 0, len(d.Devices)-len(drop))
	for i, dev := range d.Devices {
		if !drop[i] {
			kept = append(kept, dev)
		}
	}
	d.Devices = kept
	return len(drop)
}
