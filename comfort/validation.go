package comfort

import "math"

// ValidRange returns value when it lies within [low, high] and NaN otherwise.
func ValidRange(value, low, high float64) float64 {
	if value >= low && value <= high {
		return value
	}
	return math.NaN()
}

// Round rounds value to the given number of decimals. NaN and infinities pass through.
func Round(value float64, digits int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	p := math.Pow(10, float64(digits))
	return math.Round(value*p) / p
}

type limits struct {
	low, high float64
}

// envelope is the applicability range of a comfort model, in SI units.
type envelope struct {
	tdb, tr, v, met, clo limits
}

// ASHRAE 55-2020 Table 7.3.4
var ashraeEnvelope = envelope{
	tdb: limits{10.0, 40.0},
	tr:  limits{10.0, 40.0},
	v:   limits{0.0, 2.0},
	met: limits{1.0, 4.0},
	clo: limits{0.0, 1.5},
}

// ISO 7730:2005 section 4
var isoEnvelope = envelope{
	tdb: limits{10.0, 30.0},
	tr:  limits{10.0, 40.0},
	v:   limits{0.0, 1.0},
	met: limits{0.8, 4.0},
	clo: limits{0.0, 2.0},
}

// contains reports whether every checked input lies within the envelope.
// Temperatures and air speed are expected in SI.
func (e envelope) contains(tdb, tr, v, met, clo float64) bool {
	for _, x := range []float64{
		ValidRange(tdb, e.tdb.low, e.tdb.high),
		ValidRange(tr, e.tr.low, e.tr.high),
		ValidRange(v, e.v.low, e.v.high),
		ValidRange(met, e.met.low, e.met.high),
		ValidRange(clo, e.clo.low, e.clo.high),
	} {
		if math.IsNaN(x) {
			return false
		}
	}
	return true
}
