package comfort

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }

	got, err := bisect(f, 0, 2, 1e-9, 100)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-8)

	got, err = bisect(f, 0, math.Sqrt2, 1e-9, 100)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-8)
}

func TestBisect_NoSignChange(t *testing.T) {
	_, err := bisect(func(x float64) float64 { return x*x + 1 }, -1, 1, 1e-9, 100)
	assert.ErrorIs(t, err, errNoSignChange)
}

func TestBisect_IterationCap(t *testing.T) {
	got, err := bisect(func(x float64) float64 { return x - 0.3 }, 0, 1, 1e-15, 5)
	assert.ErrorIs(t, err, errMaxIterations)
	assert.InDelta(t, 0.3, got, 1.0/32)
}
