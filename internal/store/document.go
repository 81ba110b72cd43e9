package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

// documentSettings and documentDevice mirror the on-disk JSON layout.
// Pointer fields distinguish missing keys from explicit zero values.
type documentSettings struct {
	ObjectName string   `json:"object_name"`
	MaxPower   *float64 `json:"max_power"`
}

type documentDevice struct {
	Location string   `json:"location"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Power    *float64 `json:"power"`
	TimeFrom *int     `json:"time_from"`
	TimeTo   *int     `json:"time_to"`
}

type document struct {
	Settings documentSettings `json:"settings"`
	Devices  []documentDevice `json:"devices"`
}

// ReadDocument decodes a JSON document with top-level "settings" and
// "devices" keys. Missing fields fall back to empty values, and missing
// hours default to household.DefaultHour.
func ReadDocument(r io.Reader) (household.AppData, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return household.AppData{}, fmt.Errorf("decoding document: %w", err)
	}

	data := household.AppData{
		Settings: household.Settings{ObjectName: doc.Settings.ObjectName},
		Devices:  make([]household.Device, 0, len(doc.Devices)),
	}
	if doc.Settings.MaxPower != nil {
		data.Settings.MaxPower = household.Kilowatts(*doc.Settings.MaxPower)
	}

	for _, d := range doc.Devices {
		dev := household.Device{
			Location: d.Location,
			Type:     d.Type,
			Name:     d.Name,
			TimeFrom: household.DefaultHour,
			TimeTo:   household.DefaultHour,
		}
		if d.Power != nil {
			dev.Power = household.Watts(*d.Power)
		}
		if d.TimeFrom != nil {
			dev.TimeFrom = *d.TimeFrom
		}
		if d.TimeTo != nil {
			dev.TimeTo = *d.TimeTo
		}
		data.Devices = append(data.Devices, dev)
	}
	return data, nil
}

// WriteDocument encodes data as an indented JSON document.
func WriteDocument(w io.Writer, data household.AppData) error {
	if data.Devices == nil {
		data.Devices = []household.Device{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}
