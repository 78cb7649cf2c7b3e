package repository

import "github.com/ferrevalle/facturacion-api/internal/domain/entity"

// CreditRepository define el puerto de persistencia para Credit (cartera).
type CreditRepository interface {
	// Create persiste un crédito nuevo. Retorna domain.ErrCreditExists si ya
	// hay un crédito para la misma orden (unicidad por order_id).
	Create(credit *entity.Credit) error
	GetByID(id string) (*entity.Credit, error)
	GetByOrderID(orderID string) (*entity.Credit, error)
	// ListOpenByClient devuelve los créditos OPEN del cliente ordenados por
	// opened_at ascendente y desempate por id ascendente (deuda más vieja primero).
	ListOpenByClient(clientID string) ([]*entity.Credit, error)
	// Update persiste total_paid y status tras Apply/Reverse.
	Update(credit *entity.Credit) error
}
