package utils

import "github.com/shopspring/decimal"

// Ratio divide num por den com duas casas decimais. Denominador zero ou
// negativo resulta em zero.
func Ratio(num, den decimal.Decimal) float64 {
	if !den.IsPositive() {
		return 0
	}
	return num.DivRound(den, 2).InexactFloat64()
}

// Percent retorna part/total em pontos percentuais, com duas casas
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Ratio(decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)), decimal.NewFromInt(total))
}
