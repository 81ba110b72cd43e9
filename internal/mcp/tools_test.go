package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
)

// staticLoader serves a fixed snapshot, or err when set.
type staticLoader struct {
	data household.AppData
	err  error
}

func (l staticLoader) Load() (household.AppData, error) {
	return l.data, l.err
}

func sampleHousehold() household.AppData {
	return household.AppData{
		Settings: household.Settings{ObjectName: "Flat 12", MaxPower: 10},
		Devices: []household.Device{
			{Location: "Kitchen", Type: "Household appliance", Name: "Oven", Power: 9000, TimeFrom: 8, TimeTo: 10},
			{Location: "Bedroom", Type: "Lighting", Name: "Lamp", Power: 60, TimeFrom: 20, TimeTo: 23},
		},
	}
}

// callTool invokes the named tool handler and returns the typed result.
func callTool(s *Server, name string, args json.RawMessage) (any, error) {
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool.Handler(args)
		}
	}
	return nil, fmt.Errorf("tool not found: %s", name)
}

func TestAddTools_Registered(t *testing.T) {
	s := NewServer(staticLoader{}, 0, "test")
	var got []string
	for _, tool := range s.tools {
		got = append(got, tool.Name)
	}
	assert.Equal(t, []string{
		"get_summary",
		"list_devices",
		"get_load_curve",
		"get_top_devices",
		"get_recommendations",
	}, got)
	assert.Equal(t, defaultTopN, s.topN)
}

func TestGetSummary(t *testing.T) {
	s := NewServer(staticLoader{data: sampleHousehold()}, 5, "test")
	res, err := callTool(s, "get_summary", nil)
	require.NoError(t, err)

	summary, ok := res.(SummaryResult)
	require.True(t, ok)
	assert.Equal(t, "Flat 12", summary.ObjectName)
	assert.Equal(t, household.Watts(9060), summary.TotalPowerW)
	assert.InDelta(t, 9.06, float64(summary.TotalPowerKW), 1e-9)
	assert.Equal(t, 2, summary.DeviceCount)
}

func TestListDevices_EmptyIsNotNull(t *testing.T) {
	s := NewServer(staticLoader{}, 5, "test")
	res, err := callTool(s, "list_devices", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"devices":[]}`, string(raw))
}

func TestGetLoadCurve(t *testing.T) {
	s := NewServer(staticLoader{data: sampleHousehold()}, 5, "test")
	res, err := callTool(s, "get_load_curve", nil)
	require.NoError(t, err)

	curve := res.(LoadCurveResult)
	assert.Len(t, curve.Hours, analysis.HourSlots)
	assert.Equal(t, 8, curve.PeakHour)
	assert.Equal(t, household.Watts(9000), curve.PeakPower)
	assert.Equal(t, household.Watts(10000), curve.LimitW)
}

func TestGetTopDevices_Args(t *testing.T) {
	data := household.AppData{}
	for i := 0; i < 60; i++ {
		data.AddDevice(household.NewDevice(fmt.Sprintf("d%02d", i), household.Watts(i)))
	}
	s := NewServer(staticLoader{data: data}, 5, "test")

	tests := []struct {
		name string
		args string
		want int
	}{
		{"default", `{}`, 5},
		{"null", `null`, 5},
		{"explicit", `{"n":3}`, 3},
		{"zero falls back", `{"n":0}`, 5},
		{"clamped", `{"n":500}`, 50},
		{"malformed ignored", `{"n":"x"}`, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := callTool(s, "get_top_devices", json.RawMessage(tc.args))
			require.NoError(t, err)
			devices := res.(DevicesResult).Devices
			require.Len(t, devices, tc.want)
			assert.Equal(t, "d59", devices[0].Name)
		})
	}
}

func TestGetRecommendations(t *testing.T) {
	s := NewServer(staticLoader{data: sampleHousehold()}, 5, "test")
	res, err := callTool(s, "get_recommendations", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Limit device usage from 8:00 to 10:00.",
		"Replace device «Oven» with a more efficient one.",
	}, res.(RecommendationsResult).Recommendations)
}

func TestTools_PropagateLoadErrors(t *testing.T) {
	s := NewServer(staticLoader{err: errors.New("disk on fire")}, 5, "test")
	for _, tool := range s.tools {
		_, err := tool.Handler(json.RawMessage(`{}`))
		assert.ErrorContains(t, err, "disk on fire", tool.Name)
	}
}
