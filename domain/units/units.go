// Package units converts tracker speeds (calibrated length unit per second)
// into display units.
package units

import "strings"

// Length units the table can be calibrated in.
const (
	Feet   = "ft"
	Meters = "m"
)

// Display units.
const (
	FPS  = "fps"
	MPS  = "mps"
	MPH  = "mph"
	KPH  = "kph"
	KMPH = "kmph"
)

const metersPerFoot = 0.3048

// ValidDisplayUnits contains all valid display unit values.
var ValidDisplayUnits = []string{FPS, MPS, MPH, KPH, KMPH}

// IsValidLength checks a calibration length unit.
func IsValidLength(unit string) bool { return unit == Feet || unit == Meters }

// IsValidDisplay checks a display unit.
func IsValidDisplay(unit string) bool {
	for _, u := range ValidDisplayUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// GetValidDisplayUnitsString returns a comma-separated list for error messages.
func GetValidDisplayUnitsString() string { return strings.Join(ValidDisplayUnits, ", ") }

// ToMPS converts a speed in lengthUnit per second to meters per second.
// Unknown length units are treated as feet.
func ToMPS(speed float64, lengthUnit string) float64 {
	if lengthUnit == Meters {
		return speed
	}
	return speed * metersPerFoot
}

// ToDisplay converts a speed in lengthUnit per second to displayUnit.
// Unknown display units fall back to the calibrated unit per second.
func ToDisplay(speed float64, lengthUnit, displayUnit string) float64 {
	mps := ToMPS(speed, lengthUnit)
	switch displayUnit {
	case FPS:
		return mps / metersPerFoot
	case MPS:
		return mps
	case MPH:
		return mps * 2.2369362920544
	case KPH, KMPH:
		return mps * 3.6
	default:
		return speed
	}
}

// Label returns the short label shown next to a converted speed.
func Label(displayUnit string) string {
	switch displayUnit {
	case FPS:
		return "ft/s"
	case MPS:
		return "m/s"
	case MPH:
		return "mph"
	case KPH, KMPH:
		return "km/h"
	default:
		return displayUnit
	}
}
