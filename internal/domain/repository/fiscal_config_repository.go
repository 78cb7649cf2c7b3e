package repository

import "github.com/ferrevalle/facturacion-api/internal/domain/entity"

// FiscalConfigRepository define el puerto para la configuración fiscal.
// Get devuelve un snapshot: los casos de uso lo leen una sola vez por
// operación y nunca releen tarifas a mitad de un cálculo.
type FiscalConfigRepository interface {
	Get() (*entity.FiscalConfig, error)
	Update(cfg *entity.FiscalConfig) error
}
