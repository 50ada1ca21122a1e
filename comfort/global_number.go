package comfort

// 1 met, W/m2
const metFactor = 58.2

// ステファンボルツマン定数, W/m2K4
const stefanBoltzmann = 5.6697e-8

// 標準大気圧, Pa
const standardPressure = 101325.0

// DuBois standard body surface area, m2
const defaultBodySurfaceArea = 1.8258

// IP defaults: body surface area in ft2, atmospheric pressure in atm.
const (
	defaultBodySurfaceAreaIP = 19.65
	defaultPressureIP        = 1.0
)

// air speed below which the air is regarded as still, m/s
const stillAirSpeed = 0.1
