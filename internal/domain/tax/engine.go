// Package tax implementa el cálculo fiscal que convierte una orden en las
// cifras de una factura: IVA incluido en precio, retefuente por umbral e ICA
// opcional. Todo el cálculo es puro: sin efectos, sin estado compartido.
package tax

import (
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/money"
)

// OrderAmount montos de una orden, producidos por el subsistema de órdenes.
// Invariante de entrada: DiscountsMinor <= GrossSubtotalMinor.
type OrderAmount struct {
	GrossSubtotalMinor int64
	DiscountsMinor     int64
	ApplyIca           bool // La orden lleva retención ICA (municipal)
}

// ComputeInvoice deriva las cifras de la factura a partir de la orden y la
// configuración fiscal vigente (snapshot inmutable durante el cálculo).
//
// El umbral de retefuente se evalúa sobre la base sin IVA: las transacciones
// pequeñas están exentas, con igualdad inclusiva (base == umbral retiene).
// El total facturado es el bruto con IVA incluido; las retenciones son
// informativas y no se descuentan del total (semántica de la vista impresa,
// no del preview de creación de orden del sistema anterior).
//
// Retorna un resultado completo o un error; nunca cifras parciales.
func ComputeInvoice(order OrderAmount, cfg entity.FiscalConfig) (entity.InvoiceFigures, error) {
	if order.GrossSubtotalMinor < 0 || order.DiscountsMinor < 0 {
		return entity.InvoiceFigures{}, domain.ErrInvalidInput
	}
	base := order.GrossSubtotalMinor - order.DiscountsMinor
	if base < 0 {
		return entity.InvoiceFigures{}, domain.ErrInvalidInput
	}

	ivaMinor, subtotalExVat, err := money.SplitInclusiveTax(base, cfg.IvaRatePercent)
	if err != nil {
		return entity.InvoiceFigures{}, err
	}

	figures := entity.InvoiceFigures{
		BaseMinor:          base,
		IvaMinor:           ivaMinor,
		SubtotalExVatMinor: subtotalExVat,
		TotalMinor:         base,
	}

	if subtotalExVat >= cfg.RetefuenteThresholdMinor {
		rete, err := money.ApplyRate(subtotalExVat, cfg.RetefuenteRatePercent)
		if err != nil {
			return entity.InvoiceFigures{}, err
		}
		figures.RetefuenteApplied = true
		figures.RetefuenteMinor = rete
	}

	if order.ApplyIca {
		ica, err := money.ApplyRate(subtotalExVat, cfg.IcaRatePercent)
		if err != nil {
			return entity.InvoiceFigures{}, err
		}
		figures.IcaApplied = true
		figures.IcaMinor = ica
	}

	return figures, nil
}
