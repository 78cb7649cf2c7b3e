package repository

import (
	"time"

	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment (abonos).
// Los abonos son asientos inmutables: no hay Update ni Delete.
type PaymentRepository interface {
	// Create persiste el abono con toda su distribución.
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	// ListByClient devuelve los abonos del cliente en el rango [from, to],
	// más recientes primero, con su distribución completa. Rango abierto si
	// from/to son cero.
	ListByClient(clientID string, from, to time.Time) ([]*entity.Payment, error)
}
