package household

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ParseNumber parses a decimal number, accepting either ',' or '.' as the
// decimal separator.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// ValidateDevice checks a device the way the entry forms do. All failures
// are returned together.
func ValidateDevice(d Device) error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, &ValidationError{Field: "name", Reason: "must not be empty"})
	}
	if !IsLocation(d.Location) {
		errs = append(errs, &ValidationError{Field: "location", Reason: fmt.Sprintf("unknown location %q", d.Location)})
	}
	if !IsType(d.Type) {
		errs = append(errs, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", d.Type)})
	}
	p := float64(d.Power)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		errs = append(errs, &ValidationError{Field: "power", Reason: "must be a finite number"})
	} else if p < 0 {
		errs = append(errs, &ValidationError{Field: "power", Reason: "must not be negative"})
	}
	if d.TimeFrom < MinStartHour || d.TimeFrom > MaxStartHour {
		errs = append(errs, &ValidationError{
			Field:  "time_from",
			Reason: fmt.Sprintf("must be between %d and %d", MinStartHour, MaxStartHour),
		})
	}
	if d.TimeTo < MinEndHour || d.TimeTo > MaxEndHour {
		errs = append(errs, &ValidationError{
			Field:  "time_to",
			Reason: fmt.Sprintf("must be between %d and %d", MinEndHour, MaxEndHour),
		})
	}
	if d.TimeFrom > d.TimeTo {
		errs = append(errs, &ValidationError{Field: "time_from", Reason: "must not be later than time_to"})
	}
	return errors.Join(errs...)
}

// ValidateSettings checks site settings before they are saved.
func ValidateSettings(s Settings) error {
	p := float64(s.MaxPower)
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return &ValidationError{Field: "max_power", Reason: "must be a finite number"}
	case p < 0:
		return &ValidationError{Field: "max_power", Reason: "must not be negative"}
	}
	return nil
}
