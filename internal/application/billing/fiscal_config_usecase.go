package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var maxRate = decimal.NewFromInt(100)

// FiscalConfigUseCase administración de la configuración fiscal (IVA,
// retefuente, ICA). Las mutaciones solo afectan cálculos posteriores: cada
// emisión toma su propio snapshot.
type FiscalConfigUseCase struct {
	fiscalRepo repository.FiscalConfigRepository
}

// NewFiscalConfigUseCase construye el caso de uso.
func NewFiscalConfigUseCase(fiscalRepo repository.FiscalConfigRepository) *FiscalConfigUseCase {
	return &FiscalConfigUseCase{fiscalRepo: fiscalRepo}
}

// Get devuelve la configuración vigente.
func (uc *FiscalConfigUseCase) Get(ctx context.Context) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.fiscalRepo.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.FiscalConfigResponse{
		IvaRatePercent:           cfg.IvaRatePercent,
		RetefuenteRatePercent:    cfg.RetefuenteRatePercent,
		RetefuenteThresholdMinor: cfg.RetefuenteThresholdMinor,
		IcaRatePercent:           cfg.IcaRatePercent,
	}, nil
}

// Update reemplaza las tarifas. Valida rangos [0,100] y umbral no negativo.
func (uc *FiscalConfigUseCase) Update(ctx context.Context, in dto.UpdateFiscalConfigRequest) (*dto.FiscalConfigResponse, error) {
	for _, rate := range []decimal.Decimal{in.IvaRatePercent, in.RetefuenteRatePercent, in.IcaRatePercent} {
		if rate.IsNegative() || rate.GreaterThan(maxRate) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.RetefuenteThresholdMinor < 0 {
		return nil, domain.ErrInvalidInput
	}
	cfg, err := uc.fiscalRepo.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	cfg.IvaRatePercent = in.IvaRatePercent
	cfg.RetefuenteRatePercent = in.RetefuenteRatePercent
	cfg.RetefuenteThresholdMinor = in.RetefuenteThresholdMinor
	cfg.IcaRatePercent = in.IcaRatePercent
	cfg.UpdatedAt = time.Now()
	if err := uc.fiscalRepo.Update(cfg); err != nil {
		return nil, err
	}
	return uc.Get(ctx)
}
