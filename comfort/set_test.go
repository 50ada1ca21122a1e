package comfort

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTmp(t *testing.T) {
	tests := []struct {
		name   string
		tdb    float64
		tr     float64
		v      float64
		rh     float64
		met    float64
		clo    float64
		params Params
		opts   func(o *Options)
		want   float64
	}{
		{
			name: "SI reference point",
			tdb:  25, tr: 25, v: 0.1, rh: 50, met: 1.2, clo: 0.5,
			params: DefaultParams(),
			want:   24.3,
		},
		{
			name: "cooling effect mode",
			tdb:  25, tr: 25, v: 0.1, rh: 50, met: 1.2, clo: 0.5,
			params: DefaultParams(),
			opts:   func(o *Options) { o.CalculateCE = true },
			want:   24.7,
		},
		{
			name: "IP units",
			tdb:  77, tr: 77, v: 0.328, rh: 50, met: 1.2, clo: 0.5,
			params: Params{Units: UnitsIP},
			want:   75.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			got, err := SetTmp(tt.tdb, tt.tr, tt.v, tt.rh, tt.met, tt.clo, tt.params, opts)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSetTmp_OutOfRange(t *testing.T) {
	// 77 interpreted as degree C lies outside the applicability envelope
	got, err := SetTmp(77, 77, 0.328, 50, 1.2, 0.5, DefaultParams(), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	tests := []struct {
		name                     string
		tdb, tr, v, rh, met, clo float64
	}{
		{"cold air", 5, 25, 0.1, 50, 1.2, 0.5},
		{"hot radiant", 25, 45, 0.1, 50, 1.2, 0.5},
		{"fast air", 25, 25, 2.5, 50, 1.2, 0.5},
		{"low met", 25, 25, 0.1, 50, 0.8, 0.5},
		{"heavy clothing", 25, 25, 0.1, 50, 1.2, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetTmp(tt.tdb, tt.tr, tt.v, tt.rh, tt.met, tt.clo, DefaultParams(), DefaultOptions())
			require.NoError(t, err)
			assert.True(t, math.IsNaN(got), "got %v", got)

			opts := DefaultOptions()
			opts.LimitInputs = false
			got, err = SetTmp(tt.tdb, tt.tr, tt.v, tt.rh, tt.met, tt.clo, DefaultParams(), opts)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSetTmp_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Round = false
	first, err := SetTmp(27, 29, 0.4, 60, 1.4, 0.7, DefaultParams(), opts)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := SetTmp(27, 29, 0.4, 60, 1.4, 0.7, DefaultParams(), opts)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestSetTmp_UnitConsistency(t *testing.T) {
	opts := DefaultOptions()
	opts.Round = false

	si, err := SetTmp(25, 25, 0.1, 50, 1.2, 0.5, DefaultParams(), opts)
	require.NoError(t, err)
	ip, err := SetTmp(77, 77, 0.1/0.3048, 50, 1.2, 0.5, Params{Units: UnitsIP}, opts)
	require.NoError(t, err)

	assert.InDelta(t, TemperatureFromSI(si, UnitsIP), ip, 0.05)
}

func TestSetTmp_Monotonic(t *testing.T) {
	opts := DefaultOptions()
	opts.Round = false
	set := func(v, met, clo float64) float64 {
		got, err := SetTmp(25, 25, v, 50, met, clo, DefaultParams(), opts)
		require.NoError(t, err)
		return got
	}

	base := set(0.1, 1.2, 0.5)
	assert.Greater(t, set(0.1, 1.2, 1.0), base, "clothing")
	assert.Greater(t, set(0.1, 2.0, 0.5), base, "metabolic rate")
	assert.Less(t, set(0.8, 1.2, 0.5), base, "air speed")
	assert.Less(t, set(1.5, 1.2, 0.5), set(0.8, 1.2, 0.5), "air speed")
}

func TestSetTmp_RoundIdempotent(t *testing.T) {
	got, err := SetTmp(26.3, 24.1, 0.35, 45, 1.1, 0.6, DefaultParams(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, got, Round(got, 1))
}

func TestSetTmp_PathologicalInputsTerminate(t *testing.T) {
	opts := DefaultOptions()
	opts.LimitInputs = false
	inputs := [][6]float64{
		{math.NaN(), 25, 0.1, 50, 1.2, 0.5},
		{-40, -40, 10, 0, 1, 0},
		{60, 80, 0, 100, 4, 3},
		{25, 25, 0, 0, 0.1, 0},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := SetTmp(in[0], in[1], in[2], in[3], in[4], in[5], DefaultParams(), opts)
			assert.NoError(t, err)
		})
	}
}

func TestSetTmp_InvalidParams(t *testing.T) {
	_, err := SetTmp(25, 25, 0.1, 50, 1.2, 0.5, Params{Units: "imperial"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownUnits)

	_, err = SetTmp(25, 25, 0.1, 50, 1.2, 0.5, Params{BodyPosition: "kneeling"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownPosture)

	_, err = SetTmp(25, 25, 0.1, 50, 1.2, 0.5, Params{BodySurfaceArea: -1}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestStandardEffectiveTemperature_StandardEnvironment(t *testing.T) {
	// seated at 1 met in standard clothing SET follows the operative temperature
	// with a small constant offset
	p := mustResolve(t, Params{BodyPosition: Sitting})
	tests := []struct {
		tdb  float64
		want float64
	}{
		{18, 18.48},
		{22, 22.44},
		{24, 24.47},
		{26, 26.51},
		{30, 30.60},
	}
	for _, tt := range tests {
		env := Observation{Tdb: tt.tdb, Tr: tt.tdb, V: 0.1, Rh: 50, Met: 1.0, Clo: 0.7136}.environment(p, false)
		got := setSI(env, Options{}.logger())
		assert.InDelta(t, tt.want, got, 0.05, "tdb=%v", tt.tdb)
		assert.InDelta(t, tt.tdb+0.5, got, 0.15, "tdb=%v", tt.tdb)
	}
}

func TestSetTmp_ExternalWork(t *testing.T) {
	opts := DefaultOptions()
	opts.Round = false

	rest, err := SetTmp(25, 25, 0.1, 50, 1.2, 0.5, DefaultParams(), opts)
	require.NoError(t, err)
	work, err := SetTmp(25, 25, 0.1, 50, 1.2, 0.5, Params{Wme: 0.2}, opts)
	require.NoError(t, err)
	heavy, err := SetTmp(25, 25, 0.1, 50, 1.2, 0.5, Params{Wme: 0.5}, opts)
	require.NoError(t, err)

	assert.InDelta(t, 24.31, rest, 0.02)
	assert.InDelta(t, 23.81, work, 0.02)
	assert.InDelta(t, 22.80, heavy, 0.02)
	assert.Greater(t, rest, work)
	assert.Greater(t, work, heavy)
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestSecantSearch_Converges(t *testing.T) {
	logger, buf := newBufferLogger()
	got := secantSearch(func(x float64) float64 { return 22.5 - x }, 30, logger)
	assert.InDelta(t, 22.5, got, setTolerance)
	assert.Empty(t, buf.String())
}

func TestSecantSearch_NonConvergence(t *testing.T) {
	logger, buf := newBufferLogger()

	// the secant step overshoots a cube root and the iterates diverge
	calls := 0
	residual := func(x float64) float64 {
		calls++
		assert.GreaterOrEqual(t, x, setLowerBound)
		assert.LessOrEqual(t, x, setUpperBound+setDelta)
		return math.Cbrt(x - 20)
	}
	got := secantSearch(residual, 21, logger, slog.Float64("tdb", 25))

	assert.InDelta(t, 21, got, 1e-12)
	assert.LessOrEqual(t, calls, 2*setMaxIterations)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
	assert.Contains(t, buf.String(), "SET search did not converge")
	assert.Contains(t, buf.String(), "tdb=25")
	assert.Contains(t, buf.String(), "estimate=21")
}

func TestSecantSearch_FlatResidual(t *testing.T) {
	logger, buf := newBufferLogger()
	got := secantSearch(func(float64) float64 { return 1 }, 24, logger)
	assert.Equal(t, 24.0, got)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
}

func TestSecantSearch_StartClamped(t *testing.T) {
	logger, _ := newBufferLogger()
	got := secantSearch(func(x float64) float64 { return 1 }, 500, logger)
	assert.Equal(t, setUpperBound, got)
}

func mustResolve(t *testing.T, p Params) resolvedParams {
	t.Helper()
	r, err := p.resolve()
	require.NoError(t, err)
	return r
}
