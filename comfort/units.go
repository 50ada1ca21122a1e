package comfort

import (
	"fmt"
	"strings"
)

type Units string

const (
	UnitsSI Units = "SI"
	UnitsIP Units = "IP"
)

// ParseUnits accepts "SI" or "IP" in any case. An empty string means SI.
func ParseUnits(s string) (Units, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "SI":
		return UnitsSI, nil
	case "IP":
		return UnitsIP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnits, s)
	}
}

// Quantities holds the unit-bearing inputs of a comfort calculation.
// Relative humidity, met and clo are dimensionless and never converted.
type Quantities struct {
	Tdb             float64 // 乾球温度, degree C | degree F
	Tr              float64 // 平均放射温度, degree C | degree F
	V               float64 // 風速, m/s | fps
	BodySurfaceArea float64 // 体表面積, m2 | ft2
	PAtm            float64 // 大気圧, Pa | atm
}

// Convert returns q expressed in the to unit system.
func Convert(q Quantities, from, to Units) Quantities {
	if from == to {
		return q
	}
	if from == UnitsIP {
		return Quantities{
			Tdb:             fahrenheitToCelsius(q.Tdb),
			Tr:              fahrenheitToCelsius(q.Tr),
			V:               q.V * 0.3048,
			BodySurfaceArea: q.BodySurfaceArea * 0.0929,
			PAtm:            q.PAtm * standardPressure,
		}
	}
	return Quantities{
		Tdb:             celsiusToFahrenheit(q.Tdb),
		Tr:              celsiusToFahrenheit(q.Tr),
		V:               q.V / 0.3048,
		BodySurfaceArea: q.BodySurfaceArea / 0.0929,
		PAtm:            q.PAtm / standardPressure,
	}
}

// TemperatureFromSI converts a temperature in degree C to the given unit system.
func TemperatureFromSI(t float64, to Units) float64 {
	if to == UnitsIP {
		return celsiusToFahrenheit(t)
	}
	return t
}

// DeltaFromSI converts a temperature difference in K to the given unit system.
func DeltaFromSI(dt float64, to Units) float64 {
	if to == UnitsIP {
		return dt * 1.8
	}
	return dt
}

func fahrenheitToCelsius(t float64) float64 {
	return (t - 32.0) * 5.0 / 9.0
}

func celsiusToFahrenheit(t float64) float64 {
	return t*9.0/5.0 + 32.0
}
