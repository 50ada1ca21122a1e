package comfort

import (
	"errors"
	"log/slog"
	"math"
)

const (
	coolingEffectUpper     = 40.0 // K
	coolingEffectTolerance = 0.0001
	coolingEffectMaxIter   = 100
)

// coolingEffectSI searches the temperature offset that gives the same
// cooling-effect SET in still air as the observed air speed gives.
func coolingEffectSI(env environment, logger *slog.Logger) float64 {
	if env.v <= stillAirSpeed {
		return 0
	}
	env.coolingEffect = true
	target := setSI(env, logger)

	still := env
	still.v = stillAirSpeed
	f := func(x float64) float64 {
		e := still
		e.tdb = env.tdb - x
		e.tr = env.tr - x
		e.vaporPressure = vaporPressureTorr(env.rh, e.tdb)
		return setSI(e, logger) - target
	}

	return coolingEffectRoot(f, coolingEffectMaxIter, logger,
		slog.Float64("tdb", env.tdb),
		slog.Float64("tr", env.tr),
		slog.Float64("v", env.v),
	)
}

// coolingEffectRoot brackets the offset in [0, coolingEffectUpper] and falls
// back to 0 when the bracket holds no root.
func coolingEffectRoot(f func(float64) float64, maxIter int, logger *slog.Logger, attrs ...any) float64 {
	ce, err := bisect(f, 0.0, coolingEffectUpper, coolingEffectTolerance, maxIter)
	switch {
	case errors.Is(err, errNoSignChange):
		logger.Warn("assuming cooling effect = 0 since no root was found", append(attrs, slog.Any("err", err))...)
		return 0
	case err != nil:
		logger.Warn("cooling effect search did not converge",
			append(attrs, slog.Float64("estimate", ce), slog.Any("err", err))...)
	}
	return ce
}

/*
冷却効果 (Cooling Effect) を計算する。

	Args:
		tdb: 乾球温度, degree C | degree F
		tr: 平均放射温度, degree C | degree F
		vr: 相対風速, m/s | fps
		rh: 相対湿度, %
		met: 代謝量, met
		clo: 着衣量, clo
		params: 体の条件と単位系
		opts: Logger のみ使用する

	Returns:
		冷却効果, K | degree F

	Notes:
		小数第2位に丸める。静穏気流 (vr <= 0.1 m/s) では 0 を返す。
		温度を下げる間、相対湿度は一定とする。
*/
func CoolingEffect(tdb, tr, vr, rh, met, clo float64, params Params, opts Options) (float64, error) {
	p, err := params.resolve()
	if err != nil {
		return math.NaN(), err
	}
	env := Observation{Tdb: tdb, Tr: tr, V: vr, Rh: rh, Met: met, Clo: clo}.environment(p, true)
	ce := coolingEffectSI(env, opts.logger())
	return Round(DeltaFromSI(ce, p.units), 2), nil
}

// CoolingEffectArray evaluates CoolingEffect element by element.
func CoolingEffectArray(in BatchInput, params Params, opts Options) ([]float64, error) {
	n, p, err := prepareBatch(in, params)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	out := make([]float64, n)
	err = forEach(n, opts.Workers, func(i int) {
		pi := in.paramsAt(i, p)
		env := in.at(i).environment(pi, true)
		out[i] = Round(DeltaFromSI(coolingEffectSI(env, logger), pi.units), 2)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
