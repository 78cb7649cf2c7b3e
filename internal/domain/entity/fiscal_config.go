package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalConfig configuración fiscal vigente (IVA, retefuente, ICA).
// Se carga una sola vez por operación de facturación y es inmutable durante
// el cálculo: un cambio de tarifas a mitad de un lote nunca parte los
// impuestos de una misma factura entre dos regímenes.
type FiscalConfig struct {
	ID                       string
	IvaRatePercent           decimal.Decimal // Ej: 19
	RetefuenteRatePercent    decimal.Decimal // Ej: 2.5
	RetefuenteThresholdMinor int64           // Umbral sobre la base sin IVA, en centavos
	IcaRatePercent           decimal.Decimal // Opcional por orden; 0 si no aplica
	UpdatedAt                time.Time
}
