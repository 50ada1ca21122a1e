package comfort

import "math"

// Gagge two-node model constants (ASHRAE 55-2020 Appendix D).
const (
	bodyWeight       = 70.0 // 体重, kg
	bodySpecificHeat = 0.97 // 人体の比熱, Wh/(kg K)

	tSkNeutral           = 33.7 // 皮膚温の設定点, degree C
	tCrNeutral           = 36.8 // 深部体温の設定点, degree C
	skinBloodFlowNeutral = 6.3  // 皮膚血流量の中立値, L/(h m2)
	alphaNeutral         = 0.1  // 皮膚層の質量比の初期値, -

	cSw  = 170.0 // 発汗の制御係数, g/(m2 h K)
	cDil = 120.0 // 血管拡張の制御係数, L/(m2 h K)
	cStr = 0.5   // 血管収縮の制御係数, 1/K

	maxSkinBloodFlow = 90.0  // L/(h m2)
	minSkinBloodFlow = 0.5   // L/(h m2)
	maxSweating      = 500.0 // g/(m2 h)

	// number of one-minute steps integrated per simulation
	simulationSteps = 60

	clothingTolerance = 0.01 // K
	clothingMaxPasses = 11
)

const tBodyNeutral = alphaNeutral*tSkNeutral + (1-alphaNeutral)*tCrNeutral

// environment is one observation in SI units as seen by the simulator.
type environment struct {
	tdb           float64 // 乾球温度, degree C
	tr            float64 // 平均放射温度, degree C
	v             float64 // 風速, m/s
	rh            float64 // 相対湿度, %
	vaporPressure float64 // 水蒸気圧, torr
	met           float64 // 代謝量, met
	clo           float64 // 着衣量, clo
	wme           float64 // 外部仕事, met
	area          float64 // 体表面積, m2
	pAtm          float64 // 大気圧, Pa
	position      BodyPosition
	// disable the metabolic enhancement of convection
	coolingEffect bool
}

// physiologicalState is owned by one simulation run and restarts from the
// resting baseline on every call.
type physiologicalState struct {
	tSk           float64 // 皮膚温, degree C
	tCr           float64 // 深部体温, degree C
	skinBloodFlow float64 // 皮膚血流量, L/(h m2)
	sweatRate     float64 // 発汗量, g/(m2 h)
	wettedness    float64 // 皮膚濡れ率, -
	alpha         float64 // 皮膚層の質量比, -
}

func restingState() physiologicalState {
	return physiologicalState{
		tSk:           tSkNeutral,
		tCr:           tCrNeutral,
		skinBloodFlow: skinBloodFlowNeutral,
		alpha:         alphaNeutral,
	}
}

func (s physiologicalState) tBody() float64 {
	return s.alpha*s.tSk + (1-s.alpha)*s.tCr
}

// heatLoss collects the heat flows of the last step, W/m2.
type heatLoss struct {
	sensible    float64 // 皮膚からの顕熱損失 (対流 + 放射)
	evaporative float64 // 皮膚からの潜熱損失 (発汗 + 拡散)
	sweat       float64 // 調節性発汗による潜熱損失
	diffusion   float64 // 不感蒸泄による潜熱損失
	evapMax     float64 // 最大蒸発熱損失
	respLatent  float64 // 呼吸による潜熱損失
	respDry     float64 // 呼吸による顕熱損失
}

// skin returns the total heat loss from the skin.
func (l heatLoss) skin() float64 {
	return l.sensible + l.evaporative
}

// dryExchange is the clothing/air heat exchange of the last pass. It carries
// over between steps as the starting point of the clothing temperature loop.
type dryExchange struct {
	hR  float64 // 放射熱伝達率, W/m2K
	rA  float64 // 空気層の熱抵抗, m2K/W
	tOp float64 // 作用温度, degree C
	tCl float64 // 着衣温度, degree C
}

// bodyCoefficients are the per-observation constants of the simulation.
type bodyCoefficients struct {
	hC        float64 // 対流熱伝達率, W/m2K
	rClo      float64 // 着衣の熱抵抗, m2K/W
	fACl      float64 // 着衣面積増加率, -
	lr        float64 // ルイス比, K/torr
	iCl       float64 // 着衣の透湿効率, -
	wMax      float64 // 最大皮膚濡れ率, -
	rm        float64 // 代謝量, W/m2
	pAtmRel   float64 // 大気圧, atm
	areaRatio float64 // 有効放射面積率, -
}

// simulation is the converged result of one two-node run.
type simulation struct {
	state physiologicalState
	loss  heatLoss
	dry   dryExchange
	coef  bodyCoefficients
}

/*
対流熱伝達率を計算する。

	Args:
		v: 風速, m/s
		pAtmRel: 大気圧, atm
		met: 代謝量, met
		coolingEffect: 代謝による対流の増加を無視するか否か

	Returns:
		対流熱伝達率, W/m2K
*/
func convectiveCoefficient(v, pAtmRel, met float64, coolingEffect bool) float64 {
	// natural convection
	hC := 3.0 * math.Pow(pAtmRel, 0.53)
	// forced convection
	hC = math.Max(hC, 8.600001*math.Pow(v*pAtmRel, 0.53))
	if !coolingEffect && met > 0.85 {
		hC = math.Max(hC, 5.66*math.Pow(met-0.85, 0.39))
	}
	return hC
}

/*
最大皮膚濡れ率を計算する。

	Args:
		v: 風速, m/s
		clo: 着衣量, clo

	Returns:
		最大皮膚濡れ率, -
*/
func criticalWettedness(v, clo float64) float64 {
	if clo > 0 {
		return 0.59 * math.Pow(v, -0.08)
	}
	return 0.38 * math.Pow(v, -0.29)
}

func newBodyCoefficients(env environment) bodyCoefficients {
	v := math.Max(env.v, stillAirSpeed)
	pAtmRel := env.pAtm / standardPressure

	iCl := 1.0
	if env.clo > 0 {
		iCl = 0.45
	}

	return bodyCoefficients{
		hC:        convectiveCoefficient(v, pAtmRel, env.met, env.coolingEffect),
		rClo:      0.155 * env.clo,
		fACl:      1.0 + 0.15*env.clo,
		lr:        2.2 / pAtmRel,
		iCl:       iCl,
		wMax:      criticalWettedness(v, env.clo),
		rm:        env.met * metFactor,
		pAtmRel:   pAtmRel,
		areaRatio: env.position.radiatingAreaRatio(),
	}
}

/*
着衣温度と放射熱伝達率を収束計算で求める。

	Args:
		env: 環境条件
		coef: 人体の係数
		tSk: 皮膚温, degree C
		prev: 前のステップの熱交換

	Returns:
		着衣温度、放射熱伝達率、空気層の熱抵抗、作用温度

	Notes:
		許容誤差に達しない場合は最後の反復値を用いる。
*/
func clothingExchange(env environment, coef bodyCoefficients, tSk float64, prev dryExchange) dryExchange {
	d := prev
	d.tCl = (d.rA*tSk + coef.rClo*d.tOp) / (d.rA + coef.rClo)

	for pass := 0; pass < clothingMaxPasses; pass++ {
		d.hR = 4.0 * 0.95 * stefanBoltzmann * math.Pow((d.tCl+env.tr)/2.0+273.15, 3.0) * coef.areaRatio
		hT := d.hR + coef.hC
		d.rA = 1.0 / (coef.fACl * hT)
		d.tOp = (d.hR*env.tr + coef.hC*env.tdb) / hT

		tCl := (d.rA*tSk + coef.rClo*d.tOp) / (d.rA + coef.rClo)
		converged := math.Abs(tCl-d.tCl) <= clothingTolerance
		d.tCl = tCl
		if converged {
			break
		}
	}
	return d
}

/*
体温調節反応から皮膚血流量を計算する。

	Args:
		warmCr: 深部体温の設定点からの超過, K
		coldSk: 皮膚温の設定点からの不足, K

	Returns:
		皮膚血流量, L/(h m2)
*/
func skinBloodFlow(warmCr, coldSk float64) float64 {
	mBl := (skinBloodFlowNeutral + cDil*warmCr) / (1 + cStr*coldSk)
	return math.Min(math.Max(mBl, minSkinBloodFlow), maxSkinBloodFlow)
}

// evaporation splits the evaporative heat loss into regulatory sweating and
// diffusion, limited by the critical wettedness and the clothing permeability.
func evaporation(env environment, coef bodyCoefficients, tSk, sweatRate float64) (sweat, diffusion, evapMax, w float64) {
	rEa := 1.0 / (coef.lr * coef.fACl * coef.hC)
	rEcl := coef.rClo / (coef.lr * coef.iCl)
	evapMax = (pSatTorr(tSk) - env.vaporPressure) / (rEa + rEcl)
	if evapMax <= 0 {
		return 0, 0, evapMax, coef.wMax
	}

	sweat = 0.68 * sweatRate
	pRsw := sweat / evapMax
	w = 0.06 + 0.94*pRsw
	diffusion = w*evapMax - sweat
	if w > coef.wMax {
		w = coef.wMax
		pRsw = coef.wMax / 0.94
		sweat = pRsw * evapMax
		diffusion = 0.06 * (1.0 - pRsw) * evapMax
	}
	return sweat, diffusion, evapMax, w
}

/*
1分間の熱収支を解き、状態を更新する。

	Args:
		env: 環境条件
		coef: 人体の係数
		s: 現在の状態
		loss: 前のステップの熱損失
		dry: 前のステップの熱交換
		m: 現在の代謝量 (ふるえ産熱を含む), W/m2

	Returns:
		次の状態、熱損失、熱交換、代謝量
*/
func step(env environment, coef bodyCoefficients, s physiologicalState, loss heatLoss, dry dryExchange, m float64) (physiologicalState, heatLoss, dryExchange, float64) {
	dry = clothingExchange(env, coef, s.tSk, dry)

	loss.sensible = (s.tSk - dry.tOp) / (dry.rA + coef.rClo)

	// core to skin heat flow: tissue conductance 5.28 W/m2K, blood 1.163 Wh/(L K)
	hfCs := (s.tCr - s.tSk) * (5.28 + 1.163*s.skinBloodFlow)
	sCore := m - hfCs - loss.respLatent - loss.respDry - env.wme*metFactor
	sSkin := hfCs - loss.sensible - loss.evaporative

	tcSk := bodySpecificHeat * s.alpha * bodyWeight
	tcCr := bodySpecificHeat * (1 - s.alpha) * bodyWeight
	s.tSk += sSkin * env.area / (tcSk * 60.0)
	s.tCr += sCore * env.area / (tcCr * 60.0)

	warmSk := math.Max(s.tSk-tSkNeutral, 0)
	coldSk := math.Max(tSkNeutral-s.tSk, 0)
	warmCr := math.Max(s.tCr-tCrNeutral, 0)
	coldCr := math.Max(tCrNeutral-s.tCr, 0)
	warmB := math.Max(s.tBody()-tBodyNeutral, 0)

	s.skinBloodFlow = skinBloodFlow(warmCr, coldSk)

	regSweat := math.Min(cSw*warmB*math.Exp(warmSk/10.7), maxSweating)
	loss.sweat, loss.diffusion, loss.evapMax, s.wettedness = evaporation(env, coef, s.tSk, regSweat)
	loss.evaporative = loss.sweat + loss.diffusion
	s.sweatRate = loss.sweat / 0.68

	// shivering
	m = coef.rm + 19.4*coldSk*coldCr
	s.alpha = 0.0417737 + 0.7451833/(s.skinBloodFlow+0.585417)

	return s, loss, dry, m
}

// simulateTwoNodes integrates the core/skin heat balance for a fixed number
// of one-minute steps starting from the resting baseline.
func simulateTwoNodes(env environment) simulation {
	coef := newBodyCoefficients(env)
	m := env.met * metFactor

	// initial guess of the exchange with the linearized radiative coefficient
	hR := 4.7
	hT := hR + coef.hC
	dry := dryExchange{
		hR:  hR,
		rA:  1.0 / (coef.fACl * hT),
		tOp: (hR*env.tr + coef.hC*env.tdb) / hT,
	}

	s := restingState()
	loss := heatLoss{
		evaporative: 0.1 * env.met,
		respLatent:  0.0023 * m * (44.0 - env.vaporPressure),
		respDry:     0.0014 * m * (34.0 - env.tdb),
	}

	for n := 0; n < simulationSteps; n++ {
		s, loss, dry, m = step(env, coef, s, loss, dry, m)
	}

	return simulation{state: s, loss: loss, dry: dry, coef: coef}
}
