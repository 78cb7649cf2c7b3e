package repository

import "github.com/ferrevalle/facturacion-api/internal/domain/entity"

// RefundRepository define el puerto de persistencia para Refund (reembolsos).
type RefundRepository interface {
	// Create persiste el reembolso con sus líneas (estado PENDING).
	Create(refund *entity.Refund) error
	// GetByID obtiene el reembolso con sus líneas.
	GetByID(id string) (*entity.Refund, error)
	// UpdateStatus persiste status y processed_at.
	UpdateStatus(refund *entity.Refund) error
	// Delete elimina el reembolso y sus líneas. Solo legal mientras PENDING;
	// el caso de uso valida el estado antes de llamar.
	Delete(id string) error
	List(limit, offset int) ([]*entity.Refund, error)
}
