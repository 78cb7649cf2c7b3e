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

var _ repository.RefundRepository = (*RefundRepo)(nil)

// RefundRepo implementación de RefundRepository (usable con pool o tx).
type RefundRepo struct {
	q Querier
}

func NewRefundRepository(q Querier) *RefundRepo {
	return &RefundRepo{q: q}
}

const refundColumns = `id, kind, source_order_id, source_ingreso_id, sede_id, status,
	total_refund_minor, created_at, processed_at, updated_at`

// Create persiste el reembolso con sus líneas (mismo Querier: misma tx).
func (r *RefundRepo) Create(ref *entity.Refund) error {
	query := `
		INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		ref.ID, ref.Kind, nullIfEmpty(ref.SourceOrderID), nullIfEmpty(ref.SourceIngresoID),
		ref.SedeID, ref.Status, ref.TotalRefundMinor, ref.CreatedAt, ref.ProcessedAt, ref.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	lineQuery := `
		INSERT INTO refund_lines (id, refund_id, source_line_id, product_id, quantity, unit_amount_minor)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range ref.Lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.RefundID, l.SourceLineID, l.ProductID, l.Quantity, l.UnitAmountMinor,
		)
		if err != nil {
			return fmt.Errorf("insert refund line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el reembolso con sus líneas.
func (r *RefundRepo) GetByID(id string) (*entity.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`
	ref, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil || ref == nil {
		return ref, err
	}
	lines, err := r.linesFor(ref.ID)
	if err != nil {
		return nil, err
	}
	ref.Lines = lines
	return ref, nil
}

// UpdateStatus persiste status y processed_at (el resto es inmutable).
func (r *RefundRepo) UpdateStatus(ref *entity.Refund) error {
	query := `
		UPDATE refunds
		SET status = $2, processed_at = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, ref.ID, ref.Status, ref.ProcessedAt, ref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update refund: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el reembolso y sus líneas.
func (r *RefundRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM refund_lines WHERE refund_id = $1`, id); err != nil {
		return fmt.Errorf("delete refund lines: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM refunds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete refund: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve reembolsos paginados, más recientes primero, con líneas.
func (r *RefundRepo) List(limit, offset int) ([]*entity.Refund, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refunds
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var list []*entity.Refund
	for rows.Next() {
		ref, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ref := range list {
		lines, err := r.linesFor(ref.ID)
		if err != nil {
			return nil, err
		}
		ref.Lines = lines
	}
	return list, nil
}

func (r *RefundRepo) linesFor(refundID string) ([]entity.RefundLine, error) {
	query := `
		SELECT id, refund_id, source_line_id, product_id, quantity, unit_amount_minor
		FROM refund_lines
		WHERE refund_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, refundID)
	if err != nil {
		return nil, fmt.Errorf("list refund lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.RefundLine
	for rows.Next() {
		var l entity.RefundLine
		if err := rows.Scan(&l.ID, &l.RefundID, &l.SourceLineID, &l.ProductID, &l.Quantity, &l.UnitAmountMinor); err != nil {
			return nil, fmt.Errorf("scan refund line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *RefundRepo) scanOne(row pgx.Row) (*entity.Refund, error) {
	ref, err := scanRefund(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refund: %w", err)
	}
	return ref, nil
}

func (r *RefundRepo) scanRow(rows pgx.Rows) (*entity.Refund, error) {
	ref, err := scanRefund(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("scan refund: %w", err)
	}
	return ref, nil
}

func scanRefund(scan func(dest ...any) error) (*entity.Refund, error) {
	var ref entity.Refund
	var orderID, ingresoID *string
	err := scan(
		&ref.ID, &ref.Kind, &orderID, &ingresoID, &ref.SedeID, &ref.Status,
		&ref.TotalRefundMinor, &ref.CreatedAt, &ref.ProcessedAt, &ref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ref.SourceOrderID = derefStr(orderID)
	ref.SourceIngresoID = derefStr(ingresoID)
	return &ref, nil
}
