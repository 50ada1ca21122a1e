package comfort

import (
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoolingEffect(t *testing.T) {
	tests := []struct {
		name string
		vr   float64
		want float64
	}{
		{"still air", 0.1, 0},
		{"below still air", 0.05, 0},
		{"0.3 m/s", 0.3, 1.68},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoolingEffect(25, 25, tt.vr, 50, 1.2, 0.5, DefaultParams(), DefaultOptions())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.011)
		})
	}
}

func TestCoolingEffect_IncreasesWithAirSpeed(t *testing.T) {
	prev := 0.0
	for _, vr := range []float64{0.3, 0.8, 1.2} {
		got, err := CoolingEffect(25, 25, vr, 50, 1.2, 0.5, DefaultParams(), DefaultOptions())
		require.NoError(t, err)
		assert.Greater(t, got, prev, "vr=%v", vr)
		prev = got
	}
}

func TestCoolingEffect_MatchesStillAirSET(t *testing.T) {
	ce, err := CoolingEffect(25, 25, 0.8, 50, 1.2, 0.5, DefaultParams(), DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, ce, 0.0)

	opts := DefaultOptions()
	opts.Round = false
	opts.CalculateCE = true
	moving, err := SetTmp(25, 25, 0.8, 50, 1.2, 0.5, DefaultParams(), opts)
	require.NoError(t, err)
	still, err := SetTmp(25-ce, 25-ce, 0.1, 50, 1.2, 0.5, DefaultParams(), opts)
	require.NoError(t, err)

	assert.InDelta(t, moving, still, 0.05)
}

func TestCoolingEffect_IP(t *testing.T) {
	si, err := CoolingEffect(25, 25, 0.8, 50, 1.2, 0.5, DefaultParams(), DefaultOptions())
	require.NoError(t, err)
	ip, err := CoolingEffect(77, 77, 0.8/0.3048, 50, 1.2, 0.5, Params{Units: UnitsIP}, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, si*1.8, ip, 0.05)
}

func TestCoolingEffectArray(t *testing.T) {
	in := BatchInput{
		Tdb: []float64{25, 25, 25},
		Tr:  []float64{25, 25, 25},
		V:   []float64{0.1, 0.3, 0.8},
		Rh:  []float64{50, 50, 50},
		Met: []float64{1.2, 1.2, 1.2},
		Clo: []float64{0.5, 0.5, 0.5},
	}
	got, err := CoolingEffectArray(in, DefaultParams(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := range got {
		want, err := CoolingEffect(in.Tdb[i], in.Tr[i], in.V[i], in.Rh[i], in.Met[i], in.Clo[i], DefaultParams(), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}
}

func TestCoolingEffectRoot(t *testing.T) {
	logger, buf := newBufferLogger()
	got := coolingEffectRoot(func(x float64) float64 { return x - 7.3 }, coolingEffectMaxIter, logger)
	assert.InDelta(t, 7.3, got, coolingEffectTolerance)
	assert.Empty(t, buf.String())
}

func TestCoolingEffectRoot_NoSignChange(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
	}{
		{"always positive", func(float64) float64 { return 1 }},
		{"always negative", func(x float64) float64 { return -1 - x }},
		{"undefined", func(float64) float64 { return math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			got := coolingEffectRoot(tt.f, coolingEffectMaxIter, logger, slog.Float64("v", 0.8))
			assert.Equal(t, 0.0, got)
			assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
			assert.Contains(t, buf.String(), "assuming cooling effect = 0")
			assert.Contains(t, buf.String(), "v=0.8")
		})
	}
}

func TestCoolingEffectRoot_IterationCap(t *testing.T) {
	logger, buf := newBufferLogger()
	got := coolingEffectRoot(func(x float64) float64 { return x - 7.3 }, 3, logger)
	assert.InDelta(t, 7.3, got, coolingEffectUpper/8)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
	assert.Contains(t, buf.String(), "cooling effect search did not converge")
}

func TestCoolingEffect_NoWarningsOnRegularInput(t *testing.T) {
	logger, buf := newBufferLogger()
	opts := DefaultOptions()
	opts.Logger = logger
	_, err := CoolingEffect(25, 25, 0.8, 50, 1.2, 0.5, DefaultParams(), opts)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
