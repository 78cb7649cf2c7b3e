package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/tax"
)

func baseConfig() entity.FiscalConfig {
	return entity.FiscalConfig{
		IvaRatePercent:           decimal.NewFromInt(19),
		RetefuenteRatePercent:    decimal.NewFromFloat(2.5),
		RetefuenteThresholdMinor: 1_000_000,
		IcaRatePercent:           decimal.NewFromFloat(0.414),
	}
}

// Orden de 1.190.000 con IVA 19% incluido y umbral de retefuente en 1.000.000:
// la base sin IVA queda exactamente en el umbral y la retención aplica.
func TestComputeInvoice_RetefuenteEnUmbral(t *testing.T) {
	figures, err := tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: 1_190_000}, baseConfig())
	require.NoError(t, err)

	assert.Equal(t, int64(1_190_000), figures.BaseMinor)
	assert.Equal(t, int64(190_000), figures.IvaMinor)
	assert.Equal(t, int64(1_000_000), figures.SubtotalExVatMinor)
	assert.True(t, figures.RetefuenteApplied, "umbral inclusivo: base == umbral retiene")
	assert.Equal(t, int64(25_000), figures.RetefuenteMinor)
	assert.False(t, figures.IcaApplied)
	assert.Equal(t, int64(0), figures.IcaMinor)
	// El total facturado es el bruto con IVA; la retención no lo reduce.
	assert.Equal(t, int64(1_190_000), figures.TotalMinor)
	assert.Equal(t, int64(1_165_000), figures.NetPayableMinor())
}

// Misma orden, umbral un centavo por encima de la base: exenta.
func TestComputeInvoice_DebajoDelUmbral(t *testing.T) {
	cfg := baseConfig()
	cfg.RetefuenteThresholdMinor = 1_000_001

	figures, err := tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: 1_190_000}, cfg)
	require.NoError(t, err)

	assert.False(t, figures.RetefuenteApplied)
	assert.Equal(t, int64(0), figures.RetefuenteMinor)
	assert.Equal(t, int64(1_190_000), figures.TotalMinor)
}

func TestComputeInvoice_Descuentos(t *testing.T) {
	order := tax.OrderAmount{GrossSubtotalMinor: 1_290_000, DiscountsMinor: 100_000}
	figures, err := tax.ComputeInvoice(order, baseConfig())
	require.NoError(t, err)

	assert.Equal(t, int64(1_190_000), figures.BaseMinor)
	assert.Equal(t, int64(190_000), figures.IvaMinor)
	assert.Equal(t, int64(1_000_000), figures.SubtotalExVatMinor)
}

func TestComputeInvoice_ICA(t *testing.T) {
	order := tax.OrderAmount{GrossSubtotalMinor: 1_190_000, ApplyIca: true}
	figures, err := tax.ComputeInvoice(order, baseConfig())
	require.NoError(t, err)

	assert.True(t, figures.IcaApplied)
	// 0.414% de 1.000.000 = 4.140
	assert.Equal(t, int64(4_140), figures.IcaMinor)
	assert.Equal(t, int64(1_190_000-25_000-4_140), figures.NetPayableMinor())
}

func TestComputeInvoice_IvaMasNetoIgualBase(t *testing.T) {
	cfg := baseConfig()
	for _, gross := range []int64{0, 1, 99, 1_189_999, 1_190_001, 7_777_777} {
		figures, err := tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: gross}, cfg)
		require.NoError(t, err)
		assert.Equal(t, gross, figures.IvaMinor+figures.SubtotalExVatMinor,
			"gross=%d: IVA + subtotal sin IVA debe igualar la base", gross)
	}
}

func TestComputeInvoice_EntradasInvalidas(t *testing.T) {
	cfg := baseConfig()

	// Descuentos mayores al subtotal bruto
	_, err := tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: 100, DiscountsMinor: 200}, cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Montos negativos
	_, err = tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: -1}, cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: 100, DiscountsMinor: -1}, cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tarifa fuera de rango en la configuración
	cfg.IvaRatePercent = decimal.NewFromInt(120)
	_, err = tax.ComputeInvoice(tax.OrderAmount{GrossSubtotalMinor: 100}, cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
