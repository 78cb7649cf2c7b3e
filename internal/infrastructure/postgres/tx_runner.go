package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/refund"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de la aplicación.
var _ billing.BillingTxRunner = (*TxRunner)(nil)
var _ credit.LedgerTxRunner = (*TxRunner)(nil)
var _ refund.RefundTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
//
// Las operaciones de cartera se serializan por cliente con un advisory lock
// transaccional (pg_advisory_xact_lock sobre hashtext(client_id)): a lo sumo
// una mutación de cartera en vuelo por cliente, incluso con varias réplicas
// del servidor. La emisión de facturas se serializa igual pero por prefijo
// de numeración. El lock se libera solo, en commit o rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// lockKey toma un advisory lock transaccional sobre la clave dada. Clave
// vacía = sin lock. Cartera y reembolsos comparten la clave (el client_id);
// la emisión usa "factura:" + prefijo, que no colisiona con IDs de cliente.
func lockKey(ctx context.Context, tx pgx.Tx, key string) error {
	if key == "" {
		return nil
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return nil
}

// RunBilling transacción para emitir factura y abrir crédito atómicamente,
// serializada por prefijo de numeración: el consecutivo MAX+1 solo es seguro
// si dos emisiones del mismo prefijo no corren en paralelo.
func (r *TxRunner) RunBilling(ctx context.Context, prefix string, fn func(
	invoiceRepo repository.InvoiceRepository,
	creditRepo repository.CreditRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockKey(ctx, tx, "factura:"+prefix); err != nil {
		return err
	}
	if err := fn(NewInvoiceRepository(tx), NewCreditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger transacción de cartera serializada por cliente (abonos).
func (r *TxRunner) RunLedger(ctx context.Context, clientID string, fn func(
	creditRepo repository.CreditRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockKey(ctx, tx, clientID); err != nil {
		return err
	}
	if err := fn(NewCreditRepository(tx), NewPaymentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRefund transacción para procesar un reembolso. clientID vacío = sin lock
// (devoluciones de compra, sin efecto en cartera).
func (r *TxRunner) RunRefund(ctx context.Context, clientID string, fn func(
	refundRepo repository.RefundRepository,
	creditRepo repository.CreditRepository,
	stockRepo repository.StockRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockKey(ctx, tx, clientID); err != nil {
		return err
	}
	if err := fn(NewRefundRepository(tx), NewCreditRepository(tx), NewStockRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
