// Package money centraliza la aritmética monetaria del sistema.
//
// Todos los montos son int64 en centavos (COP); las tarifas son porcentajes
// decimal.Decimal. El redondeo es half-up al centavo y vive únicamente aquí,
// de modo que el motor de impuestos y el asignador de abonos redondeen igual.
package money

import (
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SplitInclusiveTax extrae el impuesto de un monto que ya lo incluye
// (precio de mostrador con IVA incluido, estándar en retail colombiano):
//
//	taxMinor = round(baseMinor * rate / (100 + rate))
//	netMinor = baseMinor - taxMinor
//
// Garantiza taxMinor + netMinor == baseMinor: el redondeo nunca crea ni
// pierde un centavo. Rechaza baseMinor negativo y tarifas fuera de [0,100].
func SplitInclusiveTax(baseMinor int64, ratePercent decimal.Decimal) (taxMinor, netMinor int64, err error) {
	if baseMinor < 0 || !validRate(ratePercent) {
		return 0, 0, domain.ErrInvalidInput
	}
	base := decimal.NewFromInt(baseMinor)
	tax := base.Mul(ratePercent).Div(oneHundred.Add(ratePercent))
	taxMinor = roundHalfUp(tax)
	return taxMinor, baseMinor - taxMinor, nil
}

// ApplyRate aplica una tarifa porcentual a un monto (multiplicación directa
// y redondeo half-up). Rechaza montos negativos y tarifas fuera de [0,100].
func ApplyRate(amountMinor int64, ratePercent decimal.Decimal) (int64, error) {
	if amountMinor < 0 || !validRate(ratePercent) {
		return 0, domain.ErrInvalidInput
	}
	result := decimal.NewFromInt(amountMinor).Mul(ratePercent).Div(oneHundred)
	return roundHalfUp(result), nil
}

// roundHalfUp redondea al centavo. decimal.Round redondea half away from zero,
// que para montos no negativos equivale a half-up.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func validRate(ratePercent decimal.Decimal) bool {
	return !ratePercent.IsNegative() && ratePercent.LessThanOrEqual(oneHundred)
}
