package comfort

import (
	"log/slog"
	"math"
)

const (
	setTolerance     = 0.01   // K
	setDelta         = 0.0001 // K
	setMaxIterations = 100
	setLowerBound    = -50.0 // degree C
	setUpperBound    = 100.0 // degree C
)

// standardEnvironment is the reference environment of SET: 50 % rh,
// still air, seated, clothing standardized for the activity.
type standardEnvironment struct {
	hD float64 // 顕熱の総合熱伝達率, W/m2K
	hE float64 // 潜熱の総合熱伝達率, W/(m2 torr)
}

/*
標準環境の熱伝達率を計算する。

	Args:
		sim: 実環境での計算結果
		env: 実環境の条件

	Returns:
		標準環境の熱伝達率

	Notes:
		標準着衣量は代謝量から求める。
*/
func newStandardEnvironment(sim simulation, env environment) standardEnvironment {
	hR := sim.dry.hR
	hC := 3.0 * math.Pow(sim.coef.pAtmRel, 0.53)
	if !env.coolingEffect && env.met > 0.85 {
		hC = math.Max(hC, 5.66*math.Pow(env.met-0.85, 0.39))
	}
	hC = math.Max(hC, 3.0)
	hT := hC + hR

	// standard clothing, clo
	clo := 1.52/((env.met-env.wme)+0.6944) - 0.1835
	rCl := 0.155 * clo
	fACl := 1.0 + 0.25*clo
	fCl := 1.0 / (1.0 + 0.155*fACl*hT*clo)
	iM := 0.45
	iCl := iM * hC / hT * (1 - fCl) / (hC/hT - fCl*iM)

	rA := 1.0 / (fACl * hT)
	rEa := 1.0 / (sim.coef.lr * fACl * hC)
	rEcl := rCl / (sim.coef.lr * iCl)

	return standardEnvironment{
		hD: 1.0 / (rA + rCl),
		hE: 1.0 / (rEa + rEcl),
	}
}

// skinHeatLoss is the heat loss of the simulated skin state placed in the
// standard environment at temperature t.
func (se standardEnvironment) skinHeatLoss(s physiologicalState, t float64) float64 {
	return se.hD*(s.tSk-t) + s.wettedness*se.hE*(pSatTorr(s.tSk)-0.5*pSatTorr(t))
}

/*
セカント法で残差の根を求める。

	Args:
		residual: 残差関数
		t0: 初期値, degree C
		logger: 収束しなかった場合の警告の出力先
		attrs: 警告に添える属性

	Returns:
		根, degree C

	Notes:
		反復は setLowerBound から setUpperBound の範囲に制限する。
		setMaxIterations 回で収束しない場合は残差が最小の反復値を返す。
*/
func secantSearch(residual func(float64) float64, t0 float64, logger *slog.Logger, attrs ...any) float64 {
	t := math.Min(math.Max(t0, setLowerBound), setUpperBound)
	best, bestErr := t, math.Inf(1)
	for i := 0; i < setMaxIterations; i++ {
		err1 := residual(t)
		err2 := residual(t + setDelta)
		if math.Abs(err1) < bestErr {
			best, bestErr = t, math.Abs(err1)
		}

		next := t - setDelta*err1/(err2-err1)
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		dx := next - t
		t = math.Min(math.Max(next, setLowerBound), setUpperBound)
		if math.Abs(dx) <= setTolerance {
			return t
		}
	}

	logger.Warn("SET search did not converge", append(attrs, slog.Float64("estimate", best))...)
	return best
}

/*
SETを求める。

	Args:
		sim: 実環境での計算結果
		env: 実環境の条件
		logger: 収束しなかった場合の警告の出力先

	Returns:
		SET, degree C
*/
func standardEffectiveTemperature(sim simulation, env environment, logger *slog.Logger) float64 {
	if math.IsNaN(sim.state.tSk) {
		return math.NaN()
	}

	se := newStandardEnvironment(sim, env)
	qSkin := sim.loss.skin()
	residual := func(t float64) float64 {
		return qSkin - se.skinHeatLoss(sim.state, t)
	}

	return secantSearch(residual, Round(sim.state.tSk-qSkin/se.hD, 2), logger,
		slog.Float64("tdb", env.tdb),
		slog.Float64("tr", env.tr),
		slog.Float64("v", env.v),
		slog.Float64("met", env.met),
		slog.Float64("clo", env.clo),
	)
}

// Observation is one set of environmental and personal inputs.
type Observation struct {
	Tdb float64 // 乾球温度, degree C | degree F
	Tr  float64 // 平均放射温度, degree C | degree F
	V   float64 // 風速, m/s | fps
	Rh  float64 // 相対湿度, %
	Met float64 // 代謝量, met
	Clo float64 // 着衣量, clo
}

// environment converts the observation to SI and fills the body parameters.
func (o Observation) environment(p resolvedParams, coolingEffect bool) environment {
	q := Convert(Quantities{Tdb: o.Tdb, Tr: o.Tr, V: o.V}, p.units, UnitsSI)
	return environment{
		tdb:           q.Tdb,
		tr:            q.Tr,
		v:             q.V,
		rh:            o.Rh,
		vaporPressure: vaporPressureTorr(o.Rh, q.Tdb),
		met:           o.Met,
		clo:           o.Clo,
		wme:           p.wme,
		area:          p.area,
		pAtm:          p.pAtm,
		position:      p.position,
		coolingEffect: coolingEffect,
	}
}

// setSI runs the simulator and the SET search for an SI environment.
func setSI(env environment, logger *slog.Logger) float64 {
	sim := simulateTwoNodes(env)
	return standardEffectiveTemperature(sim, env, logger)
}

func setTmp(o Observation, p resolvedParams, opts Options) float64 {
	env := o.environment(p, opts.CalculateCE)
	if opts.LimitInputs && !ashraeEnvelope.contains(env.tdb, env.tr, env.v, env.met, env.clo) {
		return math.NaN()
	}

	set := TemperatureFromSI(setSI(env, opts.logger()), p.units)
	if opts.Round {
		return Round(set, 1)
	}
	return set
}

/*
SET (Standard Effective Temperature) を計算する。

	Args:
		tdb: 乾球温度, degree C | degree F
		tr: 平均放射温度, degree C | degree F
		v: 風速, m/s | fps
		rh: 相対湿度, %
		met: 代謝量, met
		clo: 着衣量, clo
		params: 体の条件と単位系
		opts: 丸め、冷却効果、適用範囲の確認

	Returns:
		SET, degree C | degree F

	Notes:
		opts.LimitInputs が真で入力が ASHRAE 55 の適用範囲外の場合は NaN を返す。
		エラーは params が不正な場合のみ返す。
*/
func SetTmp(tdb, tr, v, rh, met, clo float64, params Params, opts Options) (float64, error) {
	p, err := params.resolve()
	if err != nil {
		return math.NaN(), err
	}
	o := Observation{Tdb: tdb, Tr: tr, V: v, Rh: rh, Met: met, Clo: clo}
	return setTmp(o, p, opts), nil
}
