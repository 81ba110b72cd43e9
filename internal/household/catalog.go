package household

import "slices"

// Locations lists the rooms a device can be placed in.
var Locations = []string{
	"Corridor",
	"Hallway",
	"Bathroom",
	"Toilet",
	"Kitchen",
	"Living room",
	"Bedroom",
	"Nursery",
	"Balcony",
}

// Types lists the device categories.
var Types = []string{
	"Lighting",
	"Household appliance",
	"Ventilation",
	"Heating",
}

// Operating window bounds accepted at entry.
const (
	MinStartHour = 0
	MaxStartHour = 23
	MinEndHour   = 2
	MaxEndHour   = 24

	// DefaultHour is used for both ends of the window when none is given.
	DefaultHour = 2
)

// NewDevice returns a device with the first catalog location and type and
// the default 2..2 window.
func NewDevice(name string, power Watts) Device {
	return Device{
		Location: Locations[0],
		Type:     Types[0],
		Name:     name,
		Power:    power,
		TimeFrom: DefaultHour,
		TimeTo:   DefaultHour,
	}
}

// IsLocation reports whether s is a catalog location.
func IsLocation(s string) bool {
	return slices.Contains(Locations, s)
}

// IsType reports whether s is a catalog device type.
func IsType(s string) bool {
	return slices.Contains(Types, s)
}
