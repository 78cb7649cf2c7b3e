package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var _ repository.CreditRepository = (*CreditRepo)(nil)

// CreditRepo implementación de CreditRepository (usable con pool o tx).
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

const creditColumns = `id, client_id, order_id, total_credit_minor, total_paid_minor, status, opened_at, updated_at`

// Create persiste un crédito nuevo. La unicidad por order_id la garantiza un
// índice único; la violación se traduce a ErrCreditExists.
func (r *CreditRepo) Create(c *entity.Credit) error {
	query := `
		INSERT INTO credits (id, client_id, order_id, total_credit_minor, total_paid_minor, status, opened_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ClientID, c.OrderID, c.TotalCreditMinor, c.TotalPaidMinor,
		c.Status, c.OpenedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCreditExists
		}
		return fmt.Errorf("insert credit: %w", err)
	}
	return nil
}

// GetByID obtiene un crédito por ID.
func (r *CreditRepo) GetByID(id string) (*entity.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByOrderID obtiene el crédito de una orden (a lo sumo uno).
func (r *CreditRepo) GetByOrderID(orderID string) (*entity.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE order_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, orderID))
}

// ListOpenByClient créditos OPEN del cliente, deuda más vieja primero.
func (r *CreditRepo) ListOpenByClient(clientID string) ([]*entity.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE client_id = $1 AND status = $2
		ORDER BY opened_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, clientID, entity.CreditStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list open credits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Credit
	for rows.Next() {
		var c entity.Credit
		if err := rows.Scan(&c.ID, &c.ClientID, &c.OrderID, &c.TotalCreditMinor,
			&c.TotalPaidMinor, &c.Status, &c.OpenedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update persiste total_paid y status tras Apply/Reverse.
func (r *CreditRepo) Update(c *entity.Credit) error {
	query := `
		UPDATE credits
		SET total_paid_minor = $2, status = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.TotalPaidMinor, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CreditRepo) scanOne(row pgx.Row) (*entity.Credit, error) {
	var c entity.Credit
	err := row.Scan(&c.ID, &c.ClientID, &c.OrderID, &c.TotalCreditMinor,
		&c.TotalPaidMinor, &c.Status, &c.OpenedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit: %w", err)
	}
	return &c, nil
}
