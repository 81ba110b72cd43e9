package analysis

import "github.com/blackwell-systems/wattwatch/internal/household"

// Engine evaluates its rules in order against a snapshot. Rules are
// independent: each one that applies contributes its message.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			PeakHourOverload,
			DominantDevice,
			TopThreeLoad,
		},
	}
}

// Run returns the insufficient-data message alone when the snapshot has no
// devices or no positive maximum power. Otherwise it returns the messages
// of every applicable rule, or the all-clear message if none applied.
func (e *Engine) Run(s *Snapshot) []string {
	if !s.Sufficient() {
		return []string{MsgInsufficientData}
	}
	var recs []string
	for _, rule := range e.rules {
		if msg, ok := rule(s); ok {
			recs = append(recs, msg)
		}
	}
	if len(recs) == 0 {
		recs = append(recs, MsgAllClear)
	}
	return recs
}

// Recommendations runs the built-in rules over settings and devices.
func Recommendations(settings household.Settings, devices []household.Device) []string {
	return NewEngine().Run(&Snapshot{Settings: settings, Devices: devices})
}
