package credit

import (
	"context"

	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// LedgerTxRunner ejecuta una función dentro de una transacción con los repos
// de cartera, serializada por cliente: a lo sumo una operación mutadora de
// cartera en vuelo por cliente a la vez. La implementación Postgres toma un
// advisory lock transaccional sobre clientID antes de invocar fn; dos abonos
// concurrentes del mismo cliente, o un abono compitiendo con el reverso de un
// reembolso, nunca intercalan sus lecturas y escrituras de saldo.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, clientID string, fn func(
		creditRepo repository.CreditRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
