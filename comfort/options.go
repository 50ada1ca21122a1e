package comfort

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

type BodyPosition string

const (
	Standing BodyPosition = "standing"
	Sitting  BodyPosition = "sitting"
	Lying    BodyPosition = "lying"
)

// ParseBodyPosition accepts standing, sitting or lying. An empty string means standing.
func ParseBodyPosition(s string) (BodyPosition, error) {
	switch BodyPosition(strings.ToLower(strings.TrimSpace(s))) {
	case "", Standing:
		return Standing, nil
	case Sitting:
		return Sitting, nil
	case Lying:
		return Lying, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPosture, s)
	}
}

// radiatingAreaRatio is the ratio between the radiating area of the body and
// the DuBois area.
func (p BodyPosition) radiatingAreaRatio() float64 {
	if p == Sitting {
		return 0.70
	}
	return 0.73
}

/*
Params holds the body and site parameters of an observation.

Zero values select the documented defaults:

	Wme:             0 met
	BodySurfaceArea: 1.8258 m2 (19.65 ft2 with IP units)
	PAtm:            101325 Pa (1 atm with IP units)
	BodyPosition:    standing
	Units:           SI
*/
type Params struct {
	Wme             float64 // 外部仕事, met
	BodySurfaceArea float64 // 体表面積, m2 | ft2
	PAtm            float64 // 大気圧, Pa | atm
	BodyPosition    BodyPosition
	Units           Units
}

// DefaultParams returns the SI defaults.
func DefaultParams() Params {
	return Params{
		Wme:             0,
		BodySurfaceArea: defaultBodySurfaceArea,
		PAtm:            standardPressure,
		BodyPosition:    Standing,
		Units:           UnitsSI,
	}
}

// resolvedParams is Params after default substitution, with area and
// pressure in SI.
type resolvedParams struct {
	wme      float64
	area     float64 // m2
	pAtm     float64 // Pa
	position BodyPosition
	units    Units
}

func (p Params) resolve() (resolvedParams, error) {
	units, err := ParseUnits(string(p.Units))
	if err != nil {
		return resolvedParams{}, err
	}
	position, err := ParseBodyPosition(string(p.BodyPosition))
	if err != nil {
		return resolvedParams{}, err
	}

	area, pAtm := p.BodySurfaceArea, p.PAtm
	if area < 0 || pAtm < 0 || math.IsNaN(area) || math.IsNaN(pAtm) || math.IsNaN(p.Wme) {
		return resolvedParams{}, fmt.Errorf("%w: body_surface_area=%v p_atm=%v wme=%v", ErrInvalidParams, area, pAtm, p.Wme)
	}
	if area == 0 {
		area = defaultBodySurfaceArea
		if units == UnitsIP {
			area = defaultBodySurfaceAreaIP
		}
	}
	if pAtm == 0 {
		pAtm = standardPressure
		if units == UnitsIP {
			pAtm = defaultPressureIP
		}
	}
	si := Convert(Quantities{BodySurfaceArea: area, PAtm: pAtm}, units, UnitsSI)

	return resolvedParams{
		wme:      p.Wme,
		area:     si.BodySurfaceArea,
		pAtm:     si.PAtm,
		position: position,
		units:    units,
	}, nil
}

// Options controls post-processing of the computed index.
//
// Start from DefaultOptions: the zero value disables rounding and the
// applicability check.
type Options struct {
	// Round rounds the result to one decimal.
	Round bool
	// CalculateCE evaluates SET without the metabolic enhancement of
	// convection, the variant matched by the cooling-effect search.
	CalculateCE bool
	// LimitInputs returns NaN for inputs outside the ASHRAE 55 applicability envelope.
	LimitInputs bool
	// Workers is the number of goroutines used by the array operations.
	// 0 and 1 both mean sequential execution.
	Workers int
	// Logger receives quality warnings such as non-convergence. nil discards them.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Round:       true,
		CalculateCE: false,
		LimitInputs: true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
