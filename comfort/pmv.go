package comfort

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

type Standard string

const (
	StandardISO    Standard = "ISO"
	StandardASHRAE Standard = "ASHRAE"
)

// ParseStandard accepts "ISO" or "ASHRAE" in any case. An empty string means ISO.
func ParseStandard(s string) (Standard, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ISO":
		return StandardISO, nil
	case "ASHRAE":
		return StandardASHRAE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStandard, s)
	}
}

// PmvPpdResult holds the predicted mean vote and the predicted percentage of dissatisfied.
type PmvPpdResult struct {
	PMV float64
	PPD float64 // %
}

const (
	clothingTempLower     = -100.0 // degree C
	clothingTempUpper     = 150.0  // degree C
	clothingTempTolerance = 1e-6
	clothingTempMaxIter   = 100
)

/*
代謝量を得る。

	Args:
		met: Met値

	Returns:
		代謝量, W/m2

	Notes:
		1 met = 58.15 W/m2 (ISO 7730)
*/
func metabolicRateISO(met float64) float64 {
	return met * 58.15
}

/*
Clo値から着衣抵抗を計算する。

	Args:
		clo: Clo値

	Returns:
		着衣抵抗, m2K/W

	Notes:
		1 clo = 0.155 m2K/W
*/
func clothingResistance(clo float64) float64 {
	return clo * 0.155
}

/*
着衣面積率を計算する。

	Args:
		iCl: 着衣抵抗, m2K/W

	Returns:
		着衣面積率, -
*/
func clothingAreaFactor(iCl float64) float64 {
	if iCl <= 0.078 {
		return 1.00 + 1.290*iCl
	}
	return 1.05 + 0.645*iCl
}

/*
人体周りの対流熱伝達率を計算する。

	Args:
		tdb: 空気温度, degree C
		tCl: 着衣温度, degree C
		vr: 相対風速, m/s

	Returns:
		対流熱伝達率, W/m2K
*/
func convectiveCoefficientISO(tdb, tCl, vr float64) float64 {
	return math.Max(12.1*math.Sqrt(vr), 2.38*math.Pow(math.Abs(tCl-tdb), 0.25))
}

// radiativeLoss is the radiant heat loss from the clothed body, W/m2.
func radiativeLoss(fCl, tCl, tr float64) float64 {
	return 3.96e-8 * fCl * (math.Pow(tCl+273.0, 4) - math.Pow(tr+273.0, 4))
}

/*
着衣温度を計算する。

	Args:
		tdb: 空気温度, degree C
		tr: 平均放射温度, degree C
		vr: 相対風速, m/s
		mw: 正味の代謝量, W/m2
		iCl: 着衣抵抗, m2K/W
		fCl: 着衣面積率, -

	Returns:
		着衣温度, degree C
*/
func clothingTemperature(tdb, tr, vr, mw, iCl, fCl float64) (float64, error) {
	f := func(tCl float64) float64 {
		hC := convectiveCoefficientISO(tdb, tCl, vr)
		return 35.7 - 0.028*mw - iCl*(radiativeLoss(fCl, tCl, tr)+fCl*hC*(tCl-tdb)) - tCl
	}
	return bisect(f, clothingTempLower, clothingTempUpper, clothingTempTolerance, clothingTempMaxIter)
}

/*
PMVを計算する。(ISO 7730)

	Args:
		tdb: 空気温度, degree C
		tr: 平均放射温度, degree C
		vr: 相対風速, m/s
		rh: 相対湿度, %
		met: Met値
		clo: Clo値
		wme: 外部仕事, met

	Returns:
		PMV
*/
func pmvISO(tdb, tr, vr, rh, met, clo, wme float64) (float64, error) {
	pa := rh / 100.0 * pSatPa(tdb)
	m := metabolicRateISO(met)
	mw := m - metabolicRateISO(wme)
	iCl := clothingResistance(clo)
	fCl := clothingAreaFactor(iCl)

	tCl, err := clothingTemperature(tdb, tr, vr, mw, iCl, fCl)
	if err != nil {
		return math.NaN(), err
	}
	hC := convectiveCoefficientISO(tdb, tCl, vr)

	return (0.303*math.Exp(-0.036*m) + 0.028) * (mw - // 活動量, W/m2
		3.05e-3*(5733.0-6.99*mw-pa) - // 皮膚からの潜熱損失, W/m2
		math.Max(0.42*(mw-58.15), 0.0) - // 発汗熱損失, W/m2
		1.7e-5*m*(5867.0-pa) - // 呼吸に伴う潜熱損失, W/m2
		0.0014*m*(34.0-tdb) - // 呼吸に伴う顕熱損失, W/m2
		radiativeLoss(fCl, tCl, tr) - // 着衣からの放射熱損失, W/m2
		fCl*hC*(tCl-tdb)), nil // 着衣からの対流熱損失, W/m2
}

/*
PPDを計算する。

	Args:
		pmv: PMV

	Returns:
		PPD, %
*/
func PPD(pmv float64) float64 {
	pmv2 := pmv * pmv
	pmv4 := pmv2 * pmv2
	return 100.0 - 95.0*math.Exp(-0.03353*pmv4-0.2179*pmv2)
}

func pmvPpd(o Observation, standard Standard, p resolvedParams, opts Options) PmvPpdResult {
	nan := PmvPpdResult{PMV: math.NaN(), PPD: math.NaN()}
	env := o.environment(p, true)

	bounds := isoEnvelope
	if standard == StandardASHRAE {
		bounds = ashraeEnvelope
	}
	if opts.LimitInputs && !bounds.contains(env.tdb, env.tr, env.v, env.met, env.clo) {
		return nan
	}

	logger := opts.logger()
	tdb, tr, vr := env.tdb, env.tr, env.v
	if standard == StandardASHRAE {
		// elevated air speed is accounted for by the cooling effect
		if ce := coolingEffectSI(env, logger); ce > 0 {
			tdb, tr, vr = tdb-ce, tr-ce, stillAirSpeed
		}
	}

	pmv, err := pmvISO(tdb, tr, vr, o.Rh, o.Met, o.Clo, p.wme)
	if err != nil {
		logger.Warn("clothing temperature not found", slog.Any("err", err))
		return nan
	}
	ppd := PPD(pmv)
	if opts.Round {
		return PmvPpdResult{PMV: Round(pmv, 2), PPD: Round(ppd, 1)}
	}
	return PmvPpdResult{PMV: pmv, PPD: ppd}
}

/*
PMVとPPDを計算する。

	Args:
		tdb: 乾球温度, degree C | degree F
		tr: 平均放射温度, degree C | degree F
		vr: 相対風速, m/s | fps
		rh: 相対湿度, %
		met: 代謝量, met
		clo: 着衣量, clo
		standard: ISO | ASHRAE
		params: 体の条件と単位系
		opts: 丸め、適用範囲の確認

	Returns:
		PMV, PPD

	Notes:
		ASHRAE で vr > 0.1 m/s の場合は tdb と tr から冷却効果を差し引き、
		vr を 0.1 m/s とする。
*/
func PmvPpd(tdb, tr, vr, rh, met, clo float64, standard Standard, params Params, opts Options) (PmvPpdResult, error) {
	p, err := params.resolve()
	if err != nil {
		return PmvPpdResult{PMV: math.NaN(), PPD: math.NaN()}, err
	}
	std, err := ParseStandard(string(standard))
	if err != nil {
		return PmvPpdResult{PMV: math.NaN(), PPD: math.NaN()}, err
	}
	o := Observation{Tdb: tdb, Tr: tr, V: vr, Rh: rh, Met: met, Clo: clo}
	return pmvPpd(o, std, p, opts), nil
}

// PmvPpdArray evaluates PmvPpd element by element.
func PmvPpdArray(in BatchInput, standard Standard, params Params, opts Options) ([]PmvPpdResult, error) {
	n, p, err := prepareBatch(in, params)
	if err != nil {
		return nil, err
	}
	std, err := ParseStandard(string(standard))
	if err != nil {
		return nil, err
	}

	out := make([]PmvPpdResult, n)
	err = forEach(n, opts.Workers, func(i int) {
		out[i] = pmvPpd(in.at(i), std, in.paramsAt(i, p), opts)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
