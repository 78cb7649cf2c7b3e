package refund

import (
	"context"

	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// RefundTxRunner ejecuta una función dentro de una transacción con los repos
// que toca el procesamiento de un reembolso: reembolsos, cartera e inventario.
// Si clientID no es vacío, la transacción se serializa por ese cliente (mismo
// lock que usa el asignador de abonos): el reverso de un crédito nunca corre
// intercalado con un abono del mismo cliente. Para devoluciones de compra no
// hay cliente y no se toma lock.
type RefundTxRunner interface {
	RunRefund(ctx context.Context, clientID string, fn func(
		refundRepo repository.RefundRepository,
		creditRepo repository.CreditRepository,
		stockRepo repository.StockRepository,
	) error) error
}
