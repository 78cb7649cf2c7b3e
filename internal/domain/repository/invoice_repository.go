package repository

import "github.com/ferrevalle/facturacion-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error)
	// NextNumber devuelve el siguiente consecutivo para el prefijo dado.
	NextNumber(prefix string) (int64, error)
	// UpdateStatus persiste el estado (EMITTED -> PAID | VOID). Las cifras
	// fiscales nunca se actualizan: son inmutables tras la emisión.
	UpdateStatus(invoice *entity.Invoice) error
}
