package entity

import (
	"time"

	"github.com/ferrevalle/facturacion-api/internal/domain"
)

// Estados de un crédito (cartera por cobrar).
const (
	CreditStatusOpen   = "OPEN"   // Con saldo pendiente
	CreditStatusClosed = "CLOSED" // Saldo en cero; se reabre solo por reverso de reembolso
	CreditStatusVoided = "VOIDED" // Anulado; no participa en distribución de abonos
)

// Credit representa el saldo por cobrar de una orden vendida a crédito.
// Un crédito por orden: se crea una sola vez al confirmar la venta.
// Invariante en toda mutación: 0 <= TotalPaidMinor <= TotalCreditMinor.
type Credit struct {
	ID               string
	ClientID         string
	OrderID          string
	TotalCreditMinor int64
	TotalPaidMinor   int64
	Status           string
	OpenedAt         time.Time
	UpdatedAt        time.Time
}

// BalanceMinor devuelve el saldo pendiente (total - pagado). Siempre >= 0.
func (c *Credit) BalanceMinor() int64 {
	return c.TotalCreditMinor - c.TotalPaidMinor
}

// Apply aplica un abono al crédito. Cierra el crédito al llegar el saldo a cero.
// Retorna ErrOverApplication si el monto excede el saldo actual: los callers
// (el asignador de pagos) nunca deben pedir más que el saldo.
func (c *Credit) Apply(amountMinor int64) error {
	if amountMinor <= 0 {
		return domain.ErrInvalidInput
	}
	if c.Status == CreditStatusVoided {
		return domain.ErrInvalidState
	}
	if amountMinor > c.BalanceMinor() {
		return domain.ErrOverApplication
	}
	c.TotalPaidMinor += amountMinor
	if c.BalanceMinor() == 0 {
		c.Status = CreditStatusClosed
	}
	return nil
}

// Reverse deshace abonos aplicados (reembolso de una venta a crédito).
// Reabre el crédito si estaba cerrado. Retorna ErrInvalidInput si dejaría
// TotalPaidMinor negativo.
func (c *Credit) Reverse(amountMinor int64) error {
	if amountMinor <= 0 {
		return domain.ErrInvalidInput
	}
	if c.Status == CreditStatusVoided {
		return domain.ErrInvalidState
	}
	if amountMinor > c.TotalPaidMinor {
		return domain.ErrInvalidInput
	}
	c.TotalPaidMinor -= amountMinor
	if c.Status == CreditStatusClosed {
		c.Status = CreditStatusOpen
	}
	return nil
}
