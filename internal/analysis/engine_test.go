package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

func settings(maxKW household.Kilowatts) household.Settings {
	return household.Settings{ObjectName: "Flat", MaxPower: maxKW}
}

// --- Engine.Run ---

func TestRecommendations_InsufficientData(t *testing.T) {
	tests := []struct {
		name     string
		settings household.Settings
		devices  []household.Device
	}{
		{"no devices", settings(10), nil},
		{"zero max power", settings(0), []household.Device{dev("oven", 9000, 8, 10)}},
		{"negative max power", settings(-3), []household.Device{dev("oven", 9000, 8, 10)}},
		{"nothing at all", household.Settings{}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Recommendations(tc.settings, tc.devices)
			assert.Equal(t, []string{MsgInsufficientData}, got)
		})
	}
}

func TestRecommendations_SingleHeavyDevice(t *testing.T) {
	got := Recommendations(settings(10), []household.Device{dev("Oven", 9000, 8, 10)})
	assert.Equal(t, []string{
		"Limit device usage from 8:00 to 10:00.",
		"Replace device «Oven» with a more efficient one.",
	}, got)
}

func TestRecommendations_AllClear(t *testing.T) {
	got := Recommendations(settings(10), []household.Device{
		dev("A", 1000, 2, 24),
		dev("B", 1000, 2, 24),
		dev("C", 1000, 2, 24),
	})
	assert.Equal(t, []string{MsgAllClear}, got)
}

func TestRecommendations_AllRulesFireInOrder(t *testing.T) {
	got := Recommendations(settings(10), []household.Device{
		dev("Kettle", 2000, 7, 8),
		dev("Boiler", 6000, 18, 22),
		dev("Iron", 1500, 19, 20),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "Limit device usage from 19:00 to 21:00.", got[0])
	assert.Equal(t, "Replace device «Boiler» with a more efficient one.", got[1])
	assert.Equal(t, "Do not use devices «Boiler», «Kettle» and «Iron» simultaneously.", got[2])
}

func TestRecommendations_Idempotent(t *testing.T) {
	s := settings(5)
	devices := []household.Device{dev("b", 100, 3, 4), dev("a", 4000, 2, 24), dev("c", 100, 3, 4)}
	before := append([]household.Device(nil), devices...)

	first := Recommendations(s, devices)
	second := Recommendations(s, devices)
	assert.Equal(t, first, second)
	assert.Equal(t, before, devices, "input must not be mutated")
}

func TestEngineRun_NoRules(t *testing.T) {
	engine := &Engine{rules: nil}
	got := engine.Run(&Snapshot{Settings: settings(10), Devices: []household.Device{dev("x", 1, 2, 2)}})
	assert.Equal(t, []string{MsgAllClear}, got)
}

func TestEngineRun_CustomRuleOrder(t *testing.T) {
	always := func(msg string) Rule {
		return func(*Snapshot) (string, bool) { return msg, true }
	}
	never := func(*Snapshot) (string, bool) { return "never", false }

	engine := &Engine{rules: []Rule{always("one"), never, always("two")}}
	got := engine.Run(&Snapshot{Settings: settings(1), Devices: []household.Device{dev("x", 1, 2, 2)}})
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestEngineRun_GuardSkipsRules(t *testing.T) {
	called := false
	engine := &Engine{rules: []Rule{func(*Snapshot) (string, bool) {
		called = true
		return "x", true
	}}}
	got := engine.Run(&Snapshot{Settings: settings(0)})
	assert.Equal(t, []string{MsgInsufficientData}, got)
	assert.False(t, called)
}

// --- Analyze ---

func TestAnalyze_Report(t *testing.T) {
	devices := []household.Device{
		dev("Lamp", 60, 18, 23),
		dev("Fridge", 150, 2, 24),
		dev("Oven", 3000, 17, 19),
	}
	r := Analyze(settings(15), devices, 2)

	assert.Equal(t, "Flat", r.ObjectName)
	assert.Equal(t, household.Kilowatts(15), r.MaxPowerKW)
	assert.Equal(t, household.Watts(3210), r.TotalPowerW)
	assert.InDelta(t, 3.21, float64(r.TotalPowerKW), 1e-9)
	assert.Equal(t, 3, r.DeviceCount)
	assert.True(t, r.ChartAvailable)
	assert.Len(t, r.LoadByHour, HourSlots)
	assert.Equal(t, []string{"Oven", "Fridge"}, names(r.TopDevices))
	assert.Equal(t, []string{MsgAllClear}, r.Recommendations)
}

func TestAnalyze_NoChartWithoutMaxPower(t *testing.T) {
	r := Analyze(household.Settings{}, []household.Device{dev("Lamp", 60, 18, 23)}, DefaultTopN)
	assert.False(t, r.ChartAvailable)
	assert.Equal(t, []string{MsgInsufficientData}, r.Recommendations)
	assert.Len(t, r.TopDevices, 1)
}
