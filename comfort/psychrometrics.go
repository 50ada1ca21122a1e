package comfort

import "math"

/*
飽和水蒸気圧を計算する。(2節点モデルで用いる Antoine 式)

	Args:
		theta: 温度, degree C

	Returns:
		飽和水蒸気圧, torr (mmHg)
*/
func pSatTorr(theta float64) float64 {
	return math.Exp(18.6686 - 4030.183/(theta+235.0))
}

/*
飽和水蒸気圧を計算する。(ISO 7730 の式)

	Args:
		theta: 空気温度, degree C

	Returns:
		飽和水蒸気圧, Pa
*/
func pSatPa(theta float64) float64 {
	return 1000.0 * math.Exp(16.6536-4030.183/(theta+235.0))
}

/*
相対湿度から水蒸気圧を計算する。

	Args:
		rh: 相対湿度, %
		theta: 空気温度, degree C

	Returns:
		水蒸気圧, torr
*/
func vaporPressureTorr(rh, theta float64) float64 {
	return rh * pSatTorr(theta) / 100.0
}
