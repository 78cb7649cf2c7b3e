package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
// Los abonos son asientos inmutables: solo INSERT y SELECT.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste el abono y su distribución (mismo Querier: misma tx).
func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, client_id, amount_minor, residual_minor, method, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ClientID, p.AmountMinor, p.ResidualMinor, p.Method, p.ReceivedAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	// position preserva el orden FIFO de la distribución para el historial
	entryQuery := `
		INSERT INTO payment_entries (id, payment_id, credit_id, applied_minor, resulting_balance_minor, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, e := range p.Distribution {
		_, err := r.q.Exec(context.Background(), entryQuery,
			e.ID, e.PaymentID, e.CreditID, e.AppliedMinor, e.ResultingBalanceMinor, i,
		)
		if err != nil {
			return fmt.Errorf("insert payment entry: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un abono con su distribución.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `
		SELECT id, client_id, amount_minor, residual_minor, method, received_at, created_at
		FROM payments WHERE id = $1`
	var p entity.Payment
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.ClientID, &p.AmountMinor, &p.ResidualMinor, &p.Method, &p.ReceivedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	entries, err := r.entriesFor([]string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Distribution = entries[p.ID]
	return &p, nil
}

// ListByClient abonos del cliente en [from, to], más recientes primero.
// from/to en cero = sin límite por ese lado.
func (r *PaymentRepo) ListByClient(clientID string, from, to time.Time) ([]*entity.Payment, error) {
	query := `
		SELECT id, client_id, amount_minor, residual_minor, method, received_at, created_at
		FROM payments
		WHERE client_id = $1
		  AND ($2::timestamptz IS NULL OR received_at >= $2)
		  AND ($3::timestamptz IS NULL OR received_at <= $3)
		ORDER BY received_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, clientID, nullIfZeroTime(from), nullIfZeroTime(to))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	var ids []string
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.ClientID, &p.AmountMinor, &p.ResidualMinor,
			&p.Method, &p.ReceivedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	entries, err := r.entriesFor(ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.Distribution = entries[p.ID]
	}
	return list, nil
}

func (r *PaymentRepo) entriesFor(paymentIDs []string) (map[string][]entity.PaymentEntry, error) {
	query := `
		SELECT id, payment_id, credit_id, applied_minor, resulting_balance_minor
		FROM payment_entries
		WHERE payment_id = ANY($1)
		ORDER BY payment_id, position ASC`
	rows, err := r.q.Query(context.Background(), query, paymentIDs)
	if err != nil {
		return nil, fmt.Errorf("list payment entries: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.PaymentEntry, len(paymentIDs))
	for rows.Next() {
		var e entity.PaymentEntry
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.CreditID, &e.AppliedMinor, &e.ResultingBalanceMinor); err != nil {
			return nil, fmt.Errorf("scan payment entry: %w", err)
		}
		out[e.PaymentID] = append(out[e.PaymentID], e)
	}
	return out, rows.Err()
}

func nullIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
