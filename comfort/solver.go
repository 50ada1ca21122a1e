package comfort

import (
	"errors"
	"fmt"
	"math"
)

var (
	errNoSignChange  = errors.New("no root found in the interval")
	errMaxIterations = errors.New("failed to find root within the iteration cap")
)

// bisect finds a root of f in [a, b] by the bisection method.
// When maxIter is exhausted the last midpoint is returned with errMaxIterations.
func bisect(f func(float64) float64, a, b, tol float64, maxIter int) (float64, error) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.IsNaN(fa) || math.IsNaN(fb) || fa*fb > 0 {
		return math.NaN(), fmt.Errorf("%w [%f, %f]", errNoSignChange, a, b)
	}

	var c float64
	for i := 0; i < maxIter; i++ {
		c = (a + b) / 2
		fc := f(c)
		if fc == 0 || (b-a)/2 < tol {
			return c, nil
		}
		if fc*fa < 0 {
			b = c
		} else {
			a, fa = c, fc
		}
	}
	return c, fmt.Errorf("%w (%d)", errMaxIterations, maxIter)
}
