package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var _ repository.FiscalConfigRepository = (*FiscalConfigRepo)(nil)

// FiscalConfigRepo implementación de FiscalConfigRepository.
// La tabla tiene una sola fila vigente (id fijo).
type FiscalConfigRepo struct {
	q Querier
}

func NewFiscalConfigRepository(q Querier) *FiscalConfigRepo {
	return &FiscalConfigRepo{q: q}
}

// Get devuelve el snapshot fiscal vigente.
func (r *FiscalConfigRepo) Get() (*entity.FiscalConfig, error) {
	query := `
		SELECT id, iva_rate_percent, retefuente_rate_percent, retefuente_threshold_minor,
		       ica_rate_percent, updated_at
		FROM fiscal_config
		LIMIT 1`
	var cfg entity.FiscalConfig
	err := r.q.QueryRow(context.Background(), query).Scan(
		&cfg.ID, &cfg.IvaRatePercent, &cfg.RetefuenteRatePercent, &cfg.RetefuenteThresholdMinor,
		&cfg.IcaRatePercent, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal config: %w", err)
	}
	return &cfg, nil
}

func (r *FiscalConfigRepo) Update(cfg *entity.FiscalConfig) error {
	query := `
		UPDATE fiscal_config
		SET iva_rate_percent = $2, retefuente_rate_percent = $3,
		    retefuente_threshold_minor = $4, ica_rate_percent = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		cfg.ID, cfg.IvaRatePercent, cfg.RetefuenteRatePercent,
		cfg.RetefuenteThresholdMinor, cfg.IcaRatePercent, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
