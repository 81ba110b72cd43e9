package mcp

import (
	"encoding/json"

	"github.com/blackwell-systems/wattwatch/internal/analysis"
	"github.com/blackwell-systems/wattwatch/internal/household"
)

const (
	defaultTopN = analysis.DefaultTopN
	maxTopN     = 50
)

// SummaryResult is the headline view of the household.
type SummaryResult struct {
	ObjectName   string              `json:"object_name"`
	MaxPowerKW   household.Kilowatts `json:"max_power_kw"`
	TotalPowerW  household.Watts     `json:"total_power_w"`
	TotalPowerKW household.Kilowatts `json:"total_power_kw"`
	DeviceCount  int                 `json:"device_count"`
}

// DevicesResult lists devices in insertion order.
type DevicesResult struct {
	Devices []household.Device `json:"devices"`
}

// LoadCurveResult holds the hourly load curve and its peak.
type LoadCurveResult struct {
	Hours     []analysis.HourPoint `json:"hours"`
	PeakHour  int                  `json:"peak_hour"`
	PeakPower household.Watts      `json:"peak_power_w"`
	LimitW    household.Watts      `json:"limit_w"`
}

// RecommendationsResult holds the rule-derived hints.
type RecommendationsResult struct {
	Recommendations []string `json:"recommendations"`
}

var (
	noArgsSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	topNSchema   = json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer","description":"Number of devices to return (default 5, max 50)"}},"additionalProperties":false}`)
)

// addTools registers the household tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "get_summary",
		Description: "Object name, contracted maximum power, total device power and device count.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetSummary,
	})
	s.registerTool(toolDef{
		Name:        "list_devices",
		Description: "All tracked devices with location, type, power in watts and operating hours.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListDevices,
	})
	s.registerTool(toolDef{
		Name:        "get_load_curve",
		Description: "Power drawn at each hour from 2 to 24, with the peak hour and the contracted limit.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetLoadCurve,
	})
	s.registerTool(toolDef{
		Name:        "get_top_devices",
		Description: "The N most powerful devices, highest first.",
		InputSchema: topNSchema,
		Handler:     s.handleGetTopDevices,
	})
	s.registerTool(toolDef{
		Name:        "get_recommendations",
		Description: "Textual recommendations for reducing peak load.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetRecommendations,
	})
}

func (s *Server) handleGetSummary(args json.RawMessage) (any, error) {
	data, err := s.data.Load()
	if err != nil {
		return nil, err
	}
	total := analysis.TotalPower(data.Devices)
	return SummaryResult{
		ObjectName:   data.Settings.ObjectName,
		MaxPowerKW:   data.Settings.MaxPower,
		TotalPowerW:  total,
		TotalPowerKW: total.Kilowatts(),
		DeviceCount:  len(data.Devices),
	}, nil
}

func (s *Server) handleListDevices(args json.RawMessage) (any, error) {
	data, err := s.data.Load()
	if err != nil {
		return nil, err
	}
	devices := data.Devices
	if devices == nil {
		devices = []household.Device{}
	}
	return DevicesResult{Devices: devices}, nil
}

func (s *Server) handleGetLoadCurve(args json.RawMessage) (any, error) {
	data, err := s.data.Load()
	if err != nil {
		return nil, err
	}
	curve := analysis.LoadByHour(data.Devices)
	idx, peak := curve.Peak()
	return LoadCurveResult{
		Hours:     curve.Points(),
		PeakHour:  analysis.HourAt(idx),
		PeakPower: peak,
		LimitW:    data.Settings.MaxPower.Watts(),
	}, nil
}

// handleGetTopDevices returns the N most powerful devices.
func (s *Server) handleGetTopDevices(args json.RawMessage) (any, error) {
	n := s.topN
	if len(args) > 0 && string(args) != "null" {
		var params struct {
			N *int `json:"n"`
		}
		if err := json.Unmarshal(args, &params); err == nil && params.N != nil {
			n = *params.N
		}
	}
	if n <= 0 {
		n = s.topN
	}
	if n > maxTopN {
		n = maxTopN
	}

	data, err := s.data.Load()
	if err != nil {
		return nil, err
	}
	return DevicesResult{Devices: analysis.TopDevices(data.Devices, n)}, nil
}

func (s *Server) handleGetRecommendations(args json.RawMessage) (any, error) {
	data, err := s.data.Load()
	if err != nil {
		return nil, err
	}
	return RecommendationsResult{
		Recommendations: analysis.Recommendations(data.Settings, data.Devices),
	}, nil
}
