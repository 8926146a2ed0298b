package util

import "github.com/shopspring/decimal"

// Money 金額一律以 decimal 計算後四捨五入到小數兩位
func Money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func ToFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func RoundMoney(f float64) float64 {
	return ToFloat(Money(f))
}
